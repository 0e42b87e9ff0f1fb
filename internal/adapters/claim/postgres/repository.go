package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

const (
	uniqueViolation = "23505"

	// codeConstraint guards the tracking code; losing the insert race on it
	// is the one recoverable failure.
	codeConstraint = "reclamos_codigo_reclamo_key"
)

// claimColumns is the full reclamos projection shared by the single-claim
// lookups, joined with the optional company response.
const claimColumns = `
	r.id, r.codigo_reclamo, r.tipo_solicitud, r.estado,
	r.nombre_completo, r.tipo_documento, r.numero_documento, r.telefono, r.email,
	r.domicilio, r.departamento, r.provincia, r.distrito,
	r.tipo_bien, r.monto_reclamado, r.descripcion_bien, r.area_queja,
	r.descripcion_situacion, r.fecha_incidente, r.detalle_reclamo, r.pedido_consumidor,
	r.firma_digital, r.acepta_terminos, r.acepta_copia, r.ip_address, r.user_agent,
	r.fecha_registro, r.fecha_limite_respuesta, r.fecha_respuesta, r.atendido_por,
	res.respuesta_empresa, res.accion_tomada, res.compensacion_ofrecida,
	res.respondido_por, res.fecha_respuesta`

// Repository implements the claim.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL claim repository.
func NewRepository(pool *pgxpool.Pool) claim.Repository {
	return &Repository{pool: pool}
}

// Create persists the submission inside a transaction. The tracking code is
// derived from the year's current maximum; two concurrent submitters can
// derive the same code, so the insert relies on the unique constraint on
// codigo_reclamo and retries once with a fresh derivation.
func (r *Repository) Create(ctx context.Context, sub *claim.Submission, meta claim.Meta) (*claim.Created, error) {
	return createWithRetry(ctx, sub, meta, r.tryInsert)
}

// insertAttempt runs a single transactional insert of a submission.
type insertAttempt func(ctx context.Context, sub *claim.Submission, meta claim.Meta) (*claim.Created, error)

// createWithRetry re-derives the code and retries exactly once when the
// attempt lost the insert race on codigo_reclamo. Any other failure, or a
// second collision, surfaces immediately.
func createWithRetry(ctx context.Context, sub *claim.Submission, meta claim.Meta, attempt insertAttempt) (*claim.Created, error) {
	created, err := attempt(ctx, sub, meta)
	if err != nil && isUniqueViolation(err, codeConstraint) {
		created, err = attempt(ctx, sub, meta)
	}
	if err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	return created, nil
}

func (r *Repository) tryInsert(ctx context.Context, sub *claim.Submission, meta claim.Meta) (*claim.Created, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	year := time.Now().Year()

	// Lexicographic max. Codes are zero-padded to five digits, so the
	// ordering only holds while a year stays below 100000 claims.
	var lastCode string
	err = tx.QueryRow(ctx, `
		SELECT codigo_reclamo FROM reclamos
		WHERE codigo_reclamo LIKE $1
		ORDER BY codigo_reclamo DESC
		LIMIT 1
	`, fmt.Sprintf("%s-%d-%%", claim.CodePrefix, year)).Scan(&lastCode)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("read last code: %w", err)
	}

	codigo := claim.NextCode(year, lastCode)

	created := &claim.Created{}
	err = tx.QueryRow(ctx, `
		INSERT INTO reclamos (
			codigo_reclamo, tipo_solicitud,
			nombre_completo, tipo_documento, numero_documento, telefono, email,
			domicilio, departamento, provincia, distrito,
			tipo_bien, monto_reclamado, descripcion_bien, area_queja,
			descripcion_situacion, fecha_incidente, detalle_reclamo, pedido_consumidor,
			firma_digital, acepta_terminos, acepta_copia, ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		) RETURNING id, codigo_reclamo, fecha_registro, fecha_limite_respuesta
	`,
		codigo,
		sub.TipoSolicitud,
		sub.NombreCompleto,
		sub.TipoDocumento,
		sub.NumeroDocumento,
		sub.Telefono,
		sub.Email,
		sub.Domicilio,
		sub.Departamento,
		sub.Provincia,
		sub.Distrito,
		sub.TipoBien,
		sub.MontoReclamado,
		sub.DescripcionBien,
		sub.AreaQueja,
		sub.DescripcionSituacion,
		sub.FechaIncidente,
		sub.DetalleReclamo,
		sub.PedidoConsumidor,
		sub.FirmaDigital,
		sub.AceptaTerminos,
		sub.AceptaCopia,
		nullable(meta.IPAddress),
		nullable(meta.UserAgent),
	).Scan(&created.ID, &created.Codigo, &created.FechaRegistro, &created.FechaLimiteRespuesta)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

// FindByCode returns a claim and its response, if any, by tracking code.
func (r *Repository) FindByCode(ctx context.Context, codigo string) (*claim.Claim, *claim.Response, error) {
	return r.findOne(ctx, `
		SELECT `+claimColumns+`
		FROM reclamos r
		LEFT JOIN respuestas res ON res.reclamo_id = r.id
		WHERE r.codigo_reclamo = $1
	`, codigo)
}

// FindByID returns a claim and its response, if any, by primary key.
func (r *Repository) FindByID(ctx context.Context, id string) (*claim.Claim, *claim.Response, error) {
	return r.findOne(ctx, `
		SELECT `+claimColumns+`
		FROM reclamos r
		LEFT JOIN respuestas res ON res.reclamo_id = r.id
		WHERE r.id = $1
	`, id)
}

// FindForTracking matches a claim by code and document number. A code filed
// under a different document reads as not found.
func (r *Repository) FindForTracking(ctx context.Context, codigo, documento string) (*claim.Claim, *claim.Response, error) {
	return r.findOne(ctx, `
		SELECT `+claimColumns+`
		FROM reclamos r
		LEFT JOIN respuestas res ON res.reclamo_id = r.id
		WHERE r.codigo_reclamo = $1 AND r.numero_documento = $2
	`, codigo, documento)
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*claim.Claim, *claim.Response, error) {
	var c claim.Claim
	var ip, ua *string
	var respuestaEmpresa, respondidoPor *string
	var accionTomada, compensacion *string
	var fechaRespuesta *time.Time

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Codigo, &c.TipoSolicitud, &c.Estado,
		&c.NombreCompleto, &c.TipoDocumento, &c.NumeroDocumento, &c.Telefono, &c.Email,
		&c.Domicilio, &c.Departamento, &c.Provincia, &c.Distrito,
		&c.TipoBien, &c.MontoReclamado, &c.DescripcionBien, &c.AreaQueja,
		&c.DescripcionSituacion, &c.FechaIncidente, &c.DetalleReclamo, &c.PedidoConsumidor,
		&c.FirmaDigital, &c.AceptaTerminos, &c.AceptaCopia, &ip, &ua,
		&c.FechaRegistro, &c.FechaLimiteRespuesta, &c.FechaRespuesta, &c.AtendidoPor,
		&respuestaEmpresa, &accionTomada, &compensacion, &respondidoPor, &fechaRespuesta,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, claim.ErrNotFound
		}
		return nil, nil, fmt.Errorf("query claim: %w", err)
	}

	if ip != nil {
		c.IPAddress = *ip
	}
	if ua != nil {
		c.UserAgent = *ua
	}

	var resp *claim.Response
	if respuestaEmpresa != nil {
		resp = &claim.Response{
			RespuestaEmpresa:     *respuestaEmpresa,
			AccionTomada:         accionTomada,
			CompensacionOfrecida: compensacion,
			RespondidoPor:        *respondidoPor,
			FechaRespuesta:       *fechaRespuesta,
		}
	}
	return &c, resp, nil
}

// Signature returns the stored data-URI signature for a claim code.
func (r *Repository) Signature(ctx context.Context, codigo string) (string, error) {
	var firma string
	err := r.pool.QueryRow(ctx,
		`SELECT firma_digital FROM reclamos WHERE codigo_reclamo = $1`, codigo,
	).Scan(&firma)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", claim.ErrNotFound
		}
		return "", fmt.Errorf("query signature: %w", err)
	}
	return firma, nil
}

// Dashboard returns the public counters and the pending claims ordered by
// urgency.
func (r *Repository) Dashboard(ctx context.Context) (*claim.DashboardStats, []claim.PendingClaim, error) {
	var stats claim.DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT pendientes, en_proceso, resueltos, vencidos,
		       total_reclamos, total_quejas, total
		FROM dashboard_reclamos
	`).Scan(
		&stats.Pendientes, &stats.EnProceso, &stats.Resueltos, &stats.Vencidos,
		&stats.TotalReclamos, &stats.TotalQuejas, &stats.Total,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query dashboard stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, codigo_reclamo, tipo_solicitud, nombre_completo, email,
		       fecha_registro, fecha_limite_respuesta, dias_restantes, prioridad
		FROM reclamos_pendientes
		LIMIT 10
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("query pending claims: %w", err)
	}
	defer rows.Close()

	pending := []claim.PendingClaim{}
	for rows.Next() {
		var p claim.PendingClaim
		if err := rows.Scan(
			&p.ID, &p.Codigo, &p.TipoSolicitud, &p.NombreCompleto, &p.Email,
			&p.FechaRegistro, &p.FechaLimiteRespuesta, &p.DiasRestantes, &p.Prioridad,
		); err != nil {
			return nil, nil, fmt.Errorf("scan pending claim: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate pending claims: %w", err)
	}

	return &stats, pending, nil
}

// Stats returns the aggregated staff statistics.
func (r *Repository) Stats(ctx context.Context) (*claim.AdminStats, error) {
	var stats claim.AdminStats
	err := r.pool.QueryRow(ctx, `
		SELECT total_reclamos, pendientes, en_proceso, resueltos, cerrados,
		       reclamos_hoy, reclamos_semana, reclamos_mes, promedio_dias_resolucion
		FROM estadisticas_simples
	`).Scan(
		&stats.TotalReclamos, &stats.Pendientes, &stats.EnProceso,
		&stats.Resueltos, &stats.Cerrados, &stats.ReclamosHoy,
		&stats.ReclamosSemana, &stats.ReclamosMes, &stats.PromedioDiasResolucion,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	return &stats, nil
}

// List returns a page of claims plus the unpaged total, optionally narrowed
// by state and a free-text search over code, name and email.
func (r *Repository) List(ctx context.Context, filter claim.ListFilter) ([]claim.ListItem, int64, error) {
	where := ""
	args := []any{}
	argN := 1

	if filter.Estado != "" {
		where += fmt.Sprintf(" AND r.estado = $%d", argN)
		args = append(args, filter.Estado)
		argN++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (r.codigo_reclamo ILIKE $%d OR r.nombre_completo ILIKE $%d OR r.email ILIKE $%d)", argN, argN, argN)
		args = append(args, "%"+filter.Search+"%")
		argN++
	}

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reclamos r WHERE 1=1`+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.codigo_reclamo, r.tipo_solicitud, r.estado,
		       r.nombre_completo, r.email, r.telefono, r.descripcion_bien,
		       r.fecha_registro, r.fecha_limite_respuesta,
		       (r.fecha_limite_respuesta::date - CURRENT_DATE) AS dias_restantes,
		       u.nombre_completo AS nombre_admin_atendio
		FROM reclamos r
		LEFT JOIN usuarios_admin u ON u.id = r.atendido_por
		WHERE 1=1%s
		ORDER BY r.fecha_registro DESC
		LIMIT $%d OFFSET $%d
	`, where, argN, argN+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	items := []claim.ListItem{}
	for rows.Next() {
		var it claim.ListItem
		if err := rows.Scan(
			&it.ID, &it.Codigo, &it.TipoSolicitud, &it.Estado,
			&it.NombreCompleto, &it.Email, &it.Telefono, &it.DescripcionBien,
			&it.FechaRegistro, &it.FechaLimiteRespuesta,
			&it.DiasRestantes, &it.NombreAdminAtendio,
		); err != nil {
			return nil, 0, fmt.Errorf("scan claim row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate claim rows: %w", err)
	}

	return items, total, nil
}

// UpdateStatus sets the claim state and returns the state it replaced.
func (r *Repository) UpdateStatus(ctx context.Context, id string, estado claim.Status) (claim.Status, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var anterior claim.Status
	err = tx.QueryRow(ctx,
		`SELECT estado FROM reclamos WHERE id = $1 FOR UPDATE`, id,
	).Scan(&anterior)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", claim.ErrNotFound
		}
		return "", fmt.Errorf("lock claim: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE reclamos SET estado = $1 WHERE id = $2`, estado, id,
	); err != nil {
		return "", fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return anterior, nil
}

// SaveResponse records the one-time company response and resolves the claim.
// The UNIQUE constraint on respuestas.reclamo_id makes a second response
// fail with ErrConflict.
func (r *Repository) SaveResponse(ctx context.Context, id string, resp *claim.Response, atendidoPor string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO respuestas (reclamo_id, respuesta_empresa, accion_tomada, compensacion_ofrecida, respondido_por)
		VALUES ($1, $2, $3, $4, $5)
	`, id, resp.RespuestaEmpresa, resp.AccionTomada, resp.CompensacionOfrecida, resp.RespondidoPor)
	if err != nil {
		if isUniqueViolation(err, "respuestas_reclamo_id_key") {
			return claim.ErrConflict
		}
		return fmt.Errorf("insert response: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE reclamos
		SET estado = $1, fecha_respuesta = NOW(), atendido_por = $2
		WHERE id = $3
	`, claim.StatusResuelto, atendidoPor, id)
	if err != nil {
		return fmt.Errorf("mark resolved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return claim.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// AddMessage appends a message to the tracking thread.
func (r *Repository) AddMessage(ctx context.Context, reclamoID string, origen claim.MessageOrigin, mensaje string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO mensajes_seguimiento (reclamo_id, tipo_mensaje, mensaje)
		VALUES ($1, $2, $3)
	`, reclamoID, origen, mensaje)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// MessagesAsc returns the thread oldest first.
func (r *Repository) MessagesAsc(ctx context.Context, reclamoID string) ([]claim.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tipo_mensaje, mensaje, fecha_mensaje
		FROM mensajes_seguimiento
		WHERE reclamo_id = $1
		ORDER BY fecha_mensaje ASC
	`, reclamoID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []claim.Message{}
	for rows.Next() {
		var m claim.Message
		if err := rows.Scan(&m.ID, &m.TipoMensaje, &m.Mensaje, &m.FechaMensaje); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// AddHistory appends a lifecycle event.
func (r *Repository) AddHistory(ctx context.Context, reclamoID string, entry claim.HistoryEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO historial_reclamos (
			reclamo_id, estado_anterior, estado_nuevo, tipo_accion,
			comentario, usuario_accion, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		reclamoID, entry.EstadoAnterior, entry.EstadoNuevo, entry.TipoAccion,
		entry.Comentario, entry.UsuarioAccion,
		nullable(entry.IPAddress), nullable(entry.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// History returns the lifecycle events newest first.
func (r *Repository) History(ctx context.Context, reclamoID string) ([]claim.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, estado_anterior, estado_nuevo, tipo_accion,
		       comentario, usuario_accion, fecha_accion
		FROM historial_reclamos
		WHERE reclamo_id = $1
		ORDER BY fecha_accion DESC
	`, reclamoID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []claim.HistoryEntry{}
	for rows.Next() {
		var e claim.HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.EstadoAnterior, &e.EstadoNuevo, &e.TipoAccion,
			&e.Comentario, &e.UsuarioAccion, &e.FechaAccion,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// AddAudit records a staff action.
func (r *Repository) AddAudit(ctx context.Context, entry claim.AuditEntry) error {
	var detalles *string
	if entry.Detalles != "" {
		detalles = &entry.Detalles
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auditoria_admin (usuario_id, accion, entidad, entidad_id, detalles, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.UsuarioID, entry.Accion, entry.Entidad, entry.EntidadID, detalles, nullable(entry.IPAddress))
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
