package testutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// MockClaimRepository is a mock implementation of claim.Repository for testing.
type MockClaimRepository struct {
	CreateFunc          func(ctx context.Context, sub *claim.Submission, meta claim.Meta) (*claim.Created, error)
	FindByCodeFunc      func(ctx context.Context, codigo string) (*claim.Claim, *claim.Response, error)
	FindByIDFunc        func(ctx context.Context, id string) (*claim.Claim, *claim.Response, error)
	FindForTrackingFunc func(ctx context.Context, codigo, documento string) (*claim.Claim, *claim.Response, error)
	SignatureFunc       func(ctx context.Context, codigo string) (string, error)
	DashboardFunc       func(ctx context.Context) (*claim.DashboardStats, []claim.PendingClaim, error)
	StatsFunc           func(ctx context.Context) (*claim.AdminStats, error)
	ListFunc            func(ctx context.Context, filter claim.ListFilter) ([]claim.ListItem, int64, error)
	UpdateStatusFunc    func(ctx context.Context, id string, estado claim.Status) (claim.Status, error)
	SaveResponseFunc    func(ctx context.Context, id string, resp *claim.Response, atendidoPor string) error
	AddMessageFunc      func(ctx context.Context, reclamoID string, origen claim.MessageOrigin, mensaje string) error
	MessagesAscFunc     func(ctx context.Context, reclamoID string) ([]claim.Message, error)
	AddHistoryFunc      func(ctx context.Context, reclamoID string, entry claim.HistoryEntry) error
	HistoryFunc         func(ctx context.Context, reclamoID string) ([]claim.HistoryEntry, error)
	AddAuditFunc        func(ctx context.Context, entry claim.AuditEntry) error
}

func (m *MockClaimRepository) Create(ctx context.Context, sub *claim.Submission, meta claim.Meta) (*claim.Created, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub, meta)
	}
	return &claim.Created{ID: uuid.NewString()}, nil
}

func (m *MockClaimRepository) FindByCode(ctx context.Context, codigo string) (*claim.Claim, *claim.Response, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, codigo)
	}
	return nil, nil, claim.ErrNotFound
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id string) (*claim.Claim, *claim.Response, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil, claim.ErrNotFound
}

func (m *MockClaimRepository) FindForTracking(ctx context.Context, codigo, documento string) (*claim.Claim, *claim.Response, error) {
	if m.FindForTrackingFunc != nil {
		return m.FindForTrackingFunc(ctx, codigo, documento)
	}
	return nil, nil, claim.ErrNotFound
}

func (m *MockClaimRepository) Signature(ctx context.Context, codigo string) (string, error) {
	if m.SignatureFunc != nil {
		return m.SignatureFunc(ctx, codigo)
	}
	return "", claim.ErrNotFound
}

func (m *MockClaimRepository) Dashboard(ctx context.Context) (*claim.DashboardStats, []claim.PendingClaim, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx)
	}
	return &claim.DashboardStats{}, nil, nil
}

func (m *MockClaimRepository) Stats(ctx context.Context) (*claim.AdminStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &claim.AdminStats{}, nil
}

func (m *MockClaimRepository) List(ctx context.Context, filter claim.ListFilter) ([]claim.ListItem, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []claim.ListItem{}, 0, nil
}

func (m *MockClaimRepository) UpdateStatus(ctx context.Context, id string, estado claim.Status) (claim.Status, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, estado)
	}
	return claim.StatusPendiente, nil
}

func (m *MockClaimRepository) SaveResponse(ctx context.Context, id string, resp *claim.Response, atendidoPor string) error {
	if m.SaveResponseFunc != nil {
		return m.SaveResponseFunc(ctx, id, resp, atendidoPor)
	}
	return nil
}

func (m *MockClaimRepository) AddMessage(ctx context.Context, reclamoID string, origen claim.MessageOrigin, mensaje string) error {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(ctx, reclamoID, origen, mensaje)
	}
	return nil
}

func (m *MockClaimRepository) MessagesAsc(ctx context.Context, reclamoID string) ([]claim.Message, error) {
	if m.MessagesAscFunc != nil {
		return m.MessagesAscFunc(ctx, reclamoID)
	}
	return []claim.Message{}, nil
}

func (m *MockClaimRepository) AddHistory(ctx context.Context, reclamoID string, entry claim.HistoryEntry) error {
	if m.AddHistoryFunc != nil {
		return m.AddHistoryFunc(ctx, reclamoID, entry)
	}
	return nil
}

func (m *MockClaimRepository) History(ctx context.Context, reclamoID string) ([]claim.HistoryEntry, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, reclamoID)
	}
	return []claim.HistoryEntry{}, nil
}

func (m *MockClaimRepository) AddAudit(ctx context.Context, entry claim.AuditEntry) error {
	if m.AddAuditFunc != nil {
		return m.AddAuditFunc(ctx, entry)
	}
	return nil
}

// Ensure MockClaimRepository implements claim.Repository interface.
var _ claim.Repository = (*MockClaimRepository)(nil)
