package store

import (
	"context"

	"github.com/raywall/crud-pessoa/models"
)

// MockSession é um mock da interface Session para testes.
//
// Campos de função não definidos assumem um comportamento neutro: Get
// retorna ErrNotFound, List retorna lista vazia e Begin retorna um MockTx
// sem comportamento configurado.
type MockSession struct {
	BeginFn func(ctx context.Context) (Tx, error)
	GetFn   func(ctx context.Context, id int64) (*models.Pessoa, error)
	ListFn  func(ctx context.Context) ([]models.Pessoa, error)

	BeginCalls int
	GetCalls   int
	ListCalls  int
}

func (m *MockSession) Begin(ctx context.Context) (Tx, error) {
	m.BeginCalls++
	if m.BeginFn != nil {
		return m.BeginFn(ctx)
	}
	return &MockTx{}, nil
}

func (m *MockSession) Get(ctx context.Context, id int64) (*models.Pessoa, error) {
	m.GetCalls++
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockSession) List(ctx context.Context) ([]models.Pessoa, error) {
	m.ListCalls++
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []models.Pessoa{}, nil
}

// Calls retorna o total de chamadas feitas à sessão.
func (m *MockSession) Calls() int {
	return m.BeginCalls + m.GetCalls + m.ListCalls
}

// MockTx é um mock da interface Tx que registra commits e rollbacks.
type MockTx struct {
	InsertFn   func(ctx context.Context, p *models.Pessoa) error
	DeleteFn   func(ctx context.Context, id int64) error
	CommitFn   func() error
	RollbackFn func() error

	Committed  bool
	RolledBack bool
}

func (m *MockTx) Insert(ctx context.Context, p *models.Pessoa) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, p)
	}
	return nil
}

func (m *MockTx) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTx) Commit() error {
	if m.CommitFn != nil {
		if err := m.CommitFn(); err != nil {
			return err
		}
	}
	m.Committed = true
	return nil
}

func (m *MockTx) Rollback() error {
	m.RolledBack = true
	if m.RollbackFn != nil {
		return m.RollbackFn()
	}
	return nil
}
