package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
)

const uniqueViolation = "23505"

// Repository implements the user.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL staff-account repository.
func NewRepository(pool *pgxpool.Pool) user.Repository {
	return &Repository{pool: pool}
}

const userColumns = `
	id, email, password_hash, nombre_completo, rol,
	activo, debe_cambiar_password, ultimo_acceso, fecha_creacion`

// FindByEmail returns the account stored under an email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `SELECT`+userColumns+` FROM usuarios_admin WHERE email = $1`, email)
}

// FindByID returns the account by primary key.
func (r *Repository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, `SELECT`+userColumns+` FROM usuarios_admin WHERE id = $1`, id)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.NombreCompleto, &u.Rol,
		&u.Activo, &u.DebeCambiarPassword, &u.UltimoAcceso, &u.FechaCreacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// List returns every staff account, newest first.
func (r *Repository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+userColumns+` FROM usuarios_admin ORDER BY fecha_creacion DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.NombreCompleto, &u.Rol,
			&u.Activo, &u.DebeCambiarPassword, &u.UltimoAcceso, &u.FechaCreacion,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Create inserts a staff account and returns its ID. A reused email fails
// with ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, u *user.User) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO usuarios_admin (email, password_hash, nombre_completo, rol, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.Email, u.PasswordHash, u.NombreCompleto, u.Rol, u.Activo).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", user.ErrDuplicateEmail
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// Update edits the mutable account fields. Nil fields keep their stored
// value via COALESCE.
func (r *Repository) Update(ctx context.Context, id string, upd user.AccountUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE usuarios_admin
		SET nombre_completo = COALESCE(NULLIF($1, ''), nombre_completo),
		    rol             = COALESCE(NULLIF($2, ''), rol),
		    activo          = COALESCE($3, activo)
		WHERE id = $4
	`, deref(upd.NombreCompleto), derefRol(upd.Rol), upd.Activo, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// SetPasswordHash replaces the stored hash and the must-change flag.
func (r *Repository) SetPasswordHash(ctx context.Context, id, hash string, mustChange bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE usuarios_admin
		SET password_hash = $1, debe_cambiar_password = $2
		WHERE id = $3
	`, hash, mustChange, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// TouchLastAccess stamps a successful login.
func (r *Repository) TouchLastAccess(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE usuarios_admin SET ultimo_acceso = NOW() WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("touch last access: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefRol(r *claim.Role) string {
	if r == nil {
		return ""
	}
	return string(*r)
}
