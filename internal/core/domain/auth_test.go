package domain

import "testing"

func TestAuthContextIsAdmin(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleOperator, false},
		{RoleReadOnly, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			ctx := &AuthContext{Role: tt.role}
			if ctx.IsAdmin() != tt.expected {
				t.Errorf("expected IsAdmin() = %v for role %s", tt.expected, tt.role)
			}
		})
	}
}

func TestAuthContextCanWrite(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleOperator, true},
		{RoleReadOnly, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			ctx := &AuthContext{Role: tt.role}
			if ctx.CanWrite() != tt.expected {
				t.Errorf("expected CanWrite() = %v for role %s", tt.expected, tt.role)
			}
		})
	}
}

func TestRoleConstants(t *testing.T) {
	if RoleAdmin != "admin" {
		t.Errorf("expected RoleAdmin = 'admin', got %s", RoleAdmin)
	}
	if RoleOperator != "operator" {
		t.Errorf("expected RoleOperator = 'operator', got %s", RoleOperator)
	}
	if RoleReadOnly != "readonly" {
		t.Errorf("expected RoleReadOnly = 'readonly', got %s", RoleReadOnly)
	}
}
