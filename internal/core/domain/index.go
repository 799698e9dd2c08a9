package domain

// CoreSpec describes a search core to create. The directory and file names
// are local to the search service host.
type CoreSpec struct {
	Name       string `json:"name"`
	IndexDir   string `json:"index_dir"`   // sent as instanceDir
	CfgFile    string `json:"cfg_file"`    // sent as config
	SchemaFile string `json:"schema_file"` // sent as schema
}

// CoreStatus is the admin status of one core.
type CoreStatus struct {
	Name        string      `json:"name"`
	InstanceDir string      `json:"instance_dir"`
	DataDir     string      `json:"data_dir"`
	StartTime   string      `json:"start_time,omitempty"`
	Uptime      int64       `json:"uptime_ms"`
	Index       IndexStatus `json:"index"`
}

// IndexStatus summarizes the Lucene index behind a core.
type IndexStatus struct {
	NumDocs      int64 `json:"num_docs"`
	MaxDoc       int64 `json:"max_doc"`
	DeletedDocs  int64 `json:"deleted_docs"`
	SegmentCount int64 `json:"segment_count"`
	SizeBytes    int64 `json:"size_bytes"`
}

// MbeanStats holds a core's statistics beans keyed by category
// (CORE, QUERYHANDLER, UPDATEHANDLER, CACHE, ...), each a flat bean map.
type MbeanStats map[string]map[string]any
