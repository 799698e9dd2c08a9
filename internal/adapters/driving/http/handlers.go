package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks the search backend and, when wired, the exchange store, plan oracle and task queue)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A required backend is down"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{}
	ready := true

	if err := s.solr.Ping(ctx); err != nil {
		checks["solr"] = "down"
		ready = false
	} else {
		checks["solr"] = "up"
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["exchange_store"] = "down"
			ready = false
		} else {
			checks["exchange_store"] = "up"
		}
	}

	if s.services != nil {
		cfg := s.services.Config()
		if cfg.CanDistSearch() {
			checks["planner"] = "up"
		} else {
			checks["planner"] = "off"
		}
		if cfg.CanExchange() {
			checks["queue"] = "up"
		} else {
			checks["queue"] = "off"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}

	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Operator login
// @Description  Authenticate with operator name and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Search endpoints

// searchRequest is a search query plus the flag selecting coverage fan-out.
type searchRequest struct {
	domain.SearchOptions
	Distributed bool `json:"distributed,omitempty"`
}

// handleSearch godoc
// @Summary      Query an index
// @Description  Runs a query against one index. With distributed=true the stored cover plan is resolved and the query fans out across the plan's shards in a single aggregated request.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index    path      string         true  "Index name"
// @Param        request  body      searchRequest  true  "Search query"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      404      {object}  ErrorResponse  "Index not found"
// @Failure      502      {object}  ErrorResponse  "Search backend error"
// @Failure      503      {object}  ErrorResponse  "Cover plan unavailable"
// @Router       /indexes/{index}/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		result *domain.SearchResult
		err    error
	)
	if req.Distributed {
		if s.services != nil && !s.services.Config().CanDistSearch() {
			writeError(w, http.StatusServiceUnavailable, "distributed search unavailable: no plan oracle configured")
			return
		}
		result, err = s.searchService.DistSearch(r.Context(), index, req.SearchOptions)
	} else {
		result, err = s.searchService.Search(r.Context(), index, req.SearchOptions)
	}
	if err != nil {
		writeSolrError(w, err, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Index write endpoints

// indexObjectRequest carries one object replica for indexing. Value is the
// raw stored value, base64 in transit.
type indexObjectRequest struct {
	Type           string `json:"type,omitempty"`
	Bucket         string `json:"bucket"`
	Key            string `json:"key"`
	Partition      int64  `json:"partition"`
	FirstPartition int64  `json:"first_partition"`
	ContentType    string `json:"content_type,omitempty"`
	Value          []byte `json:"value" swaggertype:"string" format:"base64"`
}

// handleIndexObject godoc
// @Summary      Index an object
// @Description  Extracts the object's value into index fields and indexes the replica, replacing any previous entry for the same partition
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index    path      string              true  "Index name"
// @Param        request  body      indexObjectRequest  true  "Object replica"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden"
// @Failure      404      {object}  ErrorResponse  "Index not found"
// @Failure      502      {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/objects [post]
func (s *Server) handleIndexObject(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	var req indexObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	obj := &domain.Object{
		Type:           req.Type,
		Bucket:         req.Bucket,
		Key:            req.Key,
		Partition:      req.Partition,
		FirstPartition: req.FirstPartition,
		ContentType:    req.ContentType,
		Value:          req.Value,
	}

	if err := s.indexService.IndexObject(r.Context(), index, obj); err != nil {
		writeSolrError(w, err, "indexing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": obj.DocID()})
}

// fieldValue is one name/value pair of a prepared document.
type fieldValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// deleteIntentRequest is one logical deletion. Exactly one form applies:
// an id, a raw query, or a bucket/key with optional partition scope.
type deleteIntentRequest struct {
	ID        string `json:"id,omitempty"`
	Query     string `json:"query,omitempty"`
	Type      string `json:"type,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Key       string `json:"key,omitempty"`
	Partition *int64 `json:"partition,omitempty"`
}

func (d deleteIntentRequest) intent() (domain.DeleteIntent, error) {
	switch {
	case d.ID != "":
		return domain.DeleteByID{ID: d.ID}, nil
	case d.Query != "":
		return domain.DeleteByQuery{Query: d.Query}, nil
	case d.Bucket != "" && d.Key != "":
		return domain.DeleteByKey{
			Type:      d.Type,
			Bucket:    d.Bucket,
			Key:       d.Key,
			Partition: d.Partition,
		}, nil
	default:
		return nil, fmt.Errorf("%w: delete needs an id, a query, or a bucket and key", domain.ErrInvalidInput)
	}
}

func toIntents(reqs []deleteIntentRequest) ([]domain.DeleteIntent, error) {
	intents := make([]domain.DeleteIntent, 0, len(reqs))
	for _, d := range reqs {
		intent, err := d.intent()
		if err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// batchRequest carries prepared documents and delete intents applied as one
// update request.
type batchRequest struct {
	Docs    [][]fieldValue        `json:"docs,omitempty"`
	Deletes []deleteIntentRequest `json:"deletes,omitempty"`
}

// handleIndexDocs godoc
// @Summary      Apply a document batch
// @Description  Applies prepared documents and delete intents to an index as a single update request, deletes first
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index    path      string        true  "Index name"
// @Param        request  body      batchRequest  true  "Documents and deletes"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden"
// @Failure      404      {object}  ErrorResponse  "Index not found"
// @Failure      502      {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/docs [post]
func (s *Server) handleIndexDocs(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	docs := make([]domain.Document, 0, len(req.Docs))
	for _, fields := range req.Docs {
		doc := make(domain.Document, 0, len(fields))
		for _, f := range fields {
			doc = append(doc, domain.Field{Name: f.Name, Value: f.Value})
		}
		docs = append(docs, doc)
	}

	intents, err := toIntents(req.Deletes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.indexService.IndexBatch(r.Context(), index, docs, intents); err != nil {
		writeSolrError(w, err, "batch update failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"docs":    len(docs),
		"deletes": len(intents),
	})
}

// deleteRequest carries the delete intents of one delete call.
type deleteRequest struct {
	Deletes []deleteIntentRequest `json:"deletes"`
}

// handleDelete godoc
// @Summary      Delete documents
// @Description  Translates delete intents into delete operations and applies them. Returns found=false when the index has no core to delete from; that is reported, not an error.
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index    path      string         true  "Index name"
// @Param        request  body      deleteRequest  true  "Delete intents"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden"
// @Failure      502      {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/delete [post]
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intents, err := toIntents(req.Deletes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := s.indexService.Delete(r.Context(), index, intents)
	if err != nil {
		writeSolrError(w, err, "delete failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "found": found})
}

// handleCommit godoc
// @Summary      Commit an index
// @Description  Forces a commit on the index's core
// @Tags         Indexing
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      string  true  "Index name"
// @Success      200    {object}  StatusResponse
// @Failure      401    {object}  ErrorResponse  "Unauthorized"
// @Failure      403    {object}  ErrorResponse  "Forbidden"
// @Failure      404    {object}  ErrorResponse  "Index not found"
// @Failure      502    {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/commit [post]
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	if err := s.indexService.Commit(r.Context(), index); err != nil {
		writeSolrError(w, err, "commit failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Entropy endpoints

// handleEntropyPage godoc
// @Summary      Fetch one entropy data page
// @Description  Fetches one page of (key, digest) pairs for anti-entropy comparison. Feed the returned continuation into the next call; the final page carries none.
// @Tags         Entropy
// @Produce      json
// @Security     BearerAuth
// @Param        index         path      string  true   "Index name"
// @Param        before        query     string  false  "Only entries indexed before this RFC 3339 timestamp"
// @Param        continuation  query     string  false  "Opaque paging token from the previous page"
// @Param        limit         query     int     false  "Maximum pairs per page"
// @Param        partition     query     int     false  "Restrict to one partition"
// @Success      200           {object}  domain.EntropyPage
// @Failure      400           {object}  ErrorResponse  "Invalid parameters"
// @Failure      401           {object}  ErrorResponse  "Unauthorized"
// @Failure      404           {object}  ErrorResponse  "Index not found"
// @Failure      502           {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/entropy [get]
func (s *Server) handleEntropyPage(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")
	q := r.URL.Query()

	var filter domain.EntropyFilter

	if v := q.Get("before"); v != "" {
		before, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid before timestamp, want RFC 3339")
			return
		}
		filter.Before = before
	}

	filter.Continuation = domain.Continuation(q.Get("continuation"))

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	if v := q.Get("partition"); v != "" {
		partition, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid partition")
			return
		}
		filter.Partition = &partition
	}

	page, err := s.entropyService.Page(r.Context(), index, filter)
	if err != nil {
		writeSolrError(w, err, "entropy page failed")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Exchange endpoints

// triggerExchangeRequest names the partition to exchange.
type triggerExchangeRequest struct {
	Partition int64 `json:"partition"`
}

// handleTriggerExchange godoc
// @Summary      Trigger an exchange
// @Description  Queues an anti-entropy exchange for one index partition. The worker picks it up; poll the returned id for the result.
// @Tags         Exchanges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index    path      string                  true  "Index name"
// @Param        request  body      triggerExchangeRequest  true  "Partition"
// @Success      202      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden"
// @Failure      409      {object}  ErrorResponse  "Exchange already in progress"
// @Failure      503      {object}  ErrorResponse  "Exchange queue unavailable"
// @Router       /indexes/{index}/exchanges [post]
func (s *Server) handleTriggerExchange(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	if s.services != nil && !s.services.Config().CanExchange() {
		writeError(w, http.StatusServiceUnavailable, "exchanges unavailable: no task queue configured")
		return
	}

	var req triggerExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.exchangeService.Trigger(r.Context(), index, req.Partition)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrExchangeInProgress):
			writeError(w, http.StatusConflict, "exchange already in progress")
		default:
			writeError(w, http.StatusInternalServerError, "failed to queue exchange")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "id": id})
}

// handleListExchanges godoc
// @Summary      List exchanges
// @Description  Lists recent exchanges, newest first, optionally filtered by index
// @Tags         Exchanges
// @Produce      json
// @Security     BearerAuth
// @Param        index  query     string  false  "Filter by index"
// @Param        limit  query     int     false  "Maximum records"
// @Success      200    {array}   domain.Exchange
// @Failure      400    {object}  ErrorResponse  "Invalid parameters"
// @Failure      401    {object}  ErrorResponse  "Unauthorized"
// @Router       /exchanges [get]
func (s *Server) handleListExchanges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	exchanges, err := s.exchangeService.List(r.Context(), q.Get("index"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list exchanges")
		return
	}

	writeJSON(w, http.StatusOK, exchanges)
}

// handleExchangeStats godoc
// @Summary      Exchange statistics
// @Description  Aggregates exchange counts by status
// @Tags         Exchanges
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ExchangeStats
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /exchanges/stats [get]
func (s *Server) handleExchangeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.exchangeService.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read exchange stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleGetExchange godoc
// @Summary      Get an exchange
// @Description  Retrieves one exchange record by id
// @Tags         Exchanges
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exchange id"
// @Success      200  {object}  domain.Exchange
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Exchange not found"
// @Router       /exchanges/{id} [get]
func (s *Server) handleGetExchange(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	exchange, err := s.exchangeService.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "exchange not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to read exchange")
		}
		return
	}

	writeJSON(w, http.StatusOK, exchange)
}

// Index read endpoints

// handleIndexStatus godoc
// @Summary      Index status
// @Description  Fetches the admin status of an index's core
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      string  true  "Index name"
// @Success      200    {object}  domain.CoreStatus
// @Failure      401    {object}  ErrorResponse  "Unauthorized"
// @Failure      404    {object}  ErrorResponse  "Index not found"
// @Failure      502    {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/status [get]
func (s *Server) handleIndexStatus(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	status, err := s.adminService.IndexStatus(r.Context(), index)
	if err != nil {
		writeSolrError(w, err, "failed to read index status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleIndexStats godoc
// @Summary      Index statistics
// @Description  Fetches an index core's statistics beans
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      string  true  "Index name"
// @Success      200    {object}  domain.MbeanStats
// @Failure      401    {object}  ErrorResponse  "Unauthorized"
// @Failure      404    {object}  ErrorResponse  "Index not found"
// @Failure      502    {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/stats [get]
func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	stats, err := s.adminService.IndexStats(r.Context(), index)
	if err != nil {
		writeSolrError(w, err, "failed to read index stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleGetPlan godoc
// @Summary      Get an index's cover plan
// @Description  Retrieves the stored cover plan for an index
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      string  true  "Index name"
// @Success      200    {object}  domain.CoverPlan
// @Failure      401    {object}  ErrorResponse  "Unauthorized"
// @Failure      404    {object}  ErrorResponse  "No plan stored"
// @Router       /indexes/{index}/plan [get]
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	plan, err := s.adminService.GetPlan(r.Context(), index)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrPlanUnavailable):
			writeError(w, http.StatusNotFound, "no cover plan stored for index")
		default:
			writeError(w, http.StatusInternalServerError, "failed to read cover plan")
		}
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Admin endpoints

// createIndexRequest describes the core to create and, optionally, its
// initial cover plan.
type createIndexRequest struct {
	Name       string            `json:"name"`
	IndexDir   string            `json:"index_dir,omitempty"`
	CfgFile    string            `json:"cfg_file,omitempty"`
	SchemaFile string            `json:"schema_file,omitempty"`
	Plan       *domain.CoverPlan `json:"plan,omitempty"`
}

// handleCreateIndex godoc
// @Summary      Create an index
// @Description  Creates a core for the index and stores its cover plan when one is supplied (admin only)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      createIndexRequest  true  "Index definition"
// @Success      201      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request or index already exists"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      502      {object}  ErrorResponse  "Index backend error"
// @Router       /indexes [post]
func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req createIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	spec := domain.CoreSpec{
		Name:       req.Name,
		IndexDir:   req.IndexDir,
		CfgFile:    req.CfgFile,
		SchemaFile: req.SchemaFile,
	}

	if err := s.adminService.CreateIndex(r.Context(), spec, req.Plan); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusBadRequest, "already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeSolrError(w, err, "failed to create index")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "name": req.Name})
}

// handleRemoveIndex godoc
// @Summary      Remove an index
// @Description  Unloads the index's core and drops its stored cover plan (admin only). Pass delete_instance=true to remove the core's files as well.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        index            path      string  true   "Index name"
// @Param        delete_instance  query     bool    false  "Also delete the core's instance directory"
// @Success      200              {object}  StatusResponse
// @Failure      401              {object}  ErrorResponse  "Unauthorized"
// @Failure      403              {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      404              {object}  ErrorResponse  "Index not found"
// @Failure      502              {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index} [delete]
func (s *Server) handleRemoveIndex(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	deleteInstance := false
	if v := r.URL.Query().Get("delete_instance"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid delete_instance")
			return
		}
		deleteInstance = b
	}

	if err := s.adminService.RemoveIndex(r.Context(), index, deleteInstance); err != nil {
		writeSolrError(w, err, "failed to remove index")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReloadIndex godoc
// @Summary      Reload an index
// @Description  Reloads the index core's config and schema in place (admin only)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      string  true  "Index name"
// @Success      200    {object}  StatusResponse
// @Failure      401    {object}  ErrorResponse  "Unauthorized"
// @Failure      403    {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      404    {object}  ErrorResponse  "Index not found"
// @Failure      502    {object}  ErrorResponse  "Index backend error"
// @Router       /indexes/{index}/reload [post]
func (s *Server) handleReloadIndex(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	if err := s.adminService.ReloadIndex(r.Context(), index); err != nil {
		writeSolrError(w, err, "failed to reload index")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// handlePutPlan godoc
// @Summary      Store an index's cover plan
// @Description  Stores or replaces the cover plan for an index (admin only)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index    path      string            true  "Index name"
// @Param        request  body      domain.CoverPlan  true  "Cover plan"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid plan"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Router       /indexes/{index}/plan [put]
func (s *Server) handlePutPlan(w http.ResponseWriter, r *http.Request) {
	index := r.PathValue("index")

	var plan domain.CoverPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.adminService.PutPlan(r.Context(), index, &plan); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrPlanUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to store cover plan")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetPoolConfig godoc
// @Summary      Get pool configuration
// @Description  Reads the current transport connection pool sizing (admin only)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PoolConfig
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Router       /admin/pool [get]
func (s *Server) handleGetPoolConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.adminService.PoolConfig())
}

// handleSetPoolConfig godoc
// @Summary      Set pool configuration
// @Description  Resizes the transport connection pool (admin only)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.PoolConfig  true  "Pool sizing"
// @Success      200      {object}  domain.PoolConfig
// @Failure      400      {object}  ErrorResponse  "Invalid sizing"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Router       /admin/pool [put]
func (s *Server) handleSetPoolConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.PoolConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.adminService.SetPoolConfig(cfg); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to set pool config")
		}
		return
	}

	writeJSON(w, http.StatusOK, s.adminService.PoolConfig())
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSolrError maps an index operation error onto a response. Backend 404s
// surface as "index not found"; other backend answers are a gateway problem,
// not ours.
func writeSolrError(w http.ResponseWriter, err error, fallback string) {
	var reqErr *domain.RequestError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), domain.IsStatus(err, http.StatusNotFound):
		writeError(w, http.StatusNotFound, "index not found")
	case errors.Is(err, domain.ErrPlanUnavailable), errors.Is(err, domain.ErrNoEndpoint):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrMalformedPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadGateway, fallback)
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
