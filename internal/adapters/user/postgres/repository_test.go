package postgres

import (
	"testing"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
)

// Note: These tests require a PostgreSQL database connection.
// They are integration tests and should be run with a test database.
// For unit tests, use testutil.MockUserRepository.

func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	t.Run("structure validation", func(t *testing.T) {
		var _ user.Repository = (*Repository)(nil)
	})
}

func TestDerefHelpers(t *testing.T) {
	if deref(nil) != "" {
		t.Error("nil string must coalesce to empty")
	}
	s := "Nombre"
	if deref(&s) != "Nombre" {
		t.Error("string pointer must dereference")
	}

	if derefRol(nil) != "" {
		t.Error("nil role must coalesce to empty")
	}
	r := claim.RoleAdmin
	if derefRol(&r) != "ADMIN" {
		t.Error("role pointer must dereference")
	}
}
