// Package memory implementa store.Session em memória.
//
// Escritas são preparadas na Tx e aplicadas de forma atômica no Commit. IDs
// vêm de um contador crescente e nunca são reutilizados, nem mesmo após um
// Rollback.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/store"
)

// Session guarda os registros confirmados.
type Session struct {
	mu      sync.RWMutex
	records map[int64]models.Pessoa
	nextID  int64
}

// New cria uma sessão vazia.
func New() *Session {
	return &Session{records: make(map[int64]models.Pessoa)}
}

func (s *Session) Begin(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx{session: s, deletes: make(map[int64]struct{})}, nil
}

func (s *Session) Get(ctx context.Context, id int64) (*models.Pessoa, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

// List retorna os registros ordenados por ID.
func (s *Session) List(ctx context.Context) ([]models.Pessoa, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pessoa, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Session) allocateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

type tx struct {
	session *Session
	inserts []models.Pessoa
	deletes map[int64]struct{}
	done    bool
}

func (t *tx) Insert(ctx context.Context, p *models.Pessoa) error {
	if t.done {
		return store.ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.ID = t.session.allocateID()
	t.inserts = append(t.inserts, *p)
	return nil
}

func (t *tx) Delete(ctx context.Context, id int64) error {
	if t.done {
		return store.ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Registro inserido nesta mesma transação
	for i, p := range t.inserts {
		if p.ID == id {
			t.inserts = append(t.inserts[:i], t.inserts[i+1:]...)
			return nil
		}
	}

	if _, staged := t.deletes[id]; staged {
		return store.ErrNotFound
	}
	t.session.mu.RLock()
	_, ok := t.session.records[id]
	t.session.mu.RUnlock()
	if !ok {
		return store.ErrNotFound
	}
	t.deletes[id] = struct{}{}
	return nil
}

func (t *tx) Commit() error {
	if t.done {
		return store.ErrTxDone
	}
	t.done = true

	s := t.session
	s.mu.Lock()
	defer s.mu.Unlock()

	// Outra transação pode ter removido o registro desde o Delete
	for id := range t.deletes {
		if _, ok := s.records[id]; !ok {
			return fmt.Errorf("memory: commit: pessoa %d: %w", id, store.ErrNotFound)
		}
	}
	for id := range t.deletes {
		delete(s.records, id)
	}
	for _, p := range t.inserts {
		s.records[p.ID] = p
	}
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return store.ErrTxDone
	}
	t.done = true
	t.inserts = nil
	t.deletes = nil
	return nil
}
