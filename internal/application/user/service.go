package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
)

// MinPasswordLen mirrors the panel's password policy.
const MinPasswordLen = 6

// Service manages staff accounts and credential checks.
type Service struct {
	repo user.Repository
	log  *slog.Logger
}

func NewService(repo user.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Authenticate verifies a staff credential pair. Unknown emails and wrong
// passwords collapse into the same error so login probes learn nothing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	if !u.Activo {
		return nil, user.ErrInactive
	}

	// Best effort; a stale last-access stamp is not worth failing a login.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.TouchLastAccess(ctx, u.ID); err != nil {
			s.log.Warn("error actualizando ultimo_acceso", "user_id", u.ID, "error", err)
		}
	}()

	return u, nil
}

// Create registers a staff account with a hashed password.
func (s *Service) Create(ctx context.Context, acc user.NewAccount) (string, error) {
	acc.Email = strings.TrimSpace(strings.ToLower(acc.Email))
	if acc.Email == "" || !strings.Contains(acc.Email, "@") {
		return "", fmt.Errorf("%w: Email inválido", claim.ErrValidation)
	}
	if acc.NombreCompleto == "" {
		return "", fmt.Errorf("%w: Nombre requerido", claim.ErrValidation)
	}
	if len(acc.Password) < MinPasswordLen {
		return "", fmt.Errorf("%w: Contraseña muy corta", claim.ErrValidation)
	}
	if !user.ValidRole(acc.Rol) {
		return "", fmt.Errorf("%w: Rol inválido", claim.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, &user.User{
		Email:          acc.Email,
		PasswordHash:   string(hash),
		NombreCompleto: acc.NombreCompleto,
		Rol:            acc.Rol,
		Activo:         true,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update edits the mutable account fields. Empty/nil fields are left as is.
func (s *Service) Update(ctx context.Context, id string, upd user.AccountUpdate) error {
	if upd.Rol != nil && !user.ValidRole(*upd.Rol) {
		return fmt.Errorf("%w: Rol inválido", claim.ErrValidation)
	}
	return s.repo.Update(ctx, id, upd)
}

// SetPassword replaces an account's password. mustChange forces a change
// on the next login.
func (s *Service) SetPassword(ctx context.Context, id, password string, mustChange bool) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: Contraseña muy corta", claim.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.SetPasswordHash(ctx, id, string(hash), mustChange)
}

// List returns every staff account, newest first.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	return s.repo.List(ctx)
}
