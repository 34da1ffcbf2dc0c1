package store

import (
	"context"
	"errors"

	"github.com/raywall/crud-pessoa/models"
)

var (
	// ErrNotFound indica que não existe registro para a chave informada.
	ErrNotFound = errors.New("store: record not found")
	// ErrTxDone indica uso de uma transação já finalizada por Commit ou Rollback.
	ErrTxDone = errors.New("store: transaction already committed or rolled back")
)

// Session é o handle de persistência compartilhado, fornecido pela aplicação
// hospedeira. Leituras acontecem direto na sessão; escritas exigem uma Tx.
type Session interface {
	Begin(ctx context.Context) (Tx, error)
	Get(ctx context.Context, id int64) (*models.Pessoa, error)
	List(ctx context.Context) ([]models.Pessoa, error)
}

// Tx é uma unidade de trabalho transacional.
//
// Insert atribui o ID gerado pelo backend ao registro recebido. Delete
// retorna ErrNotFound quando nenhuma linha foi removida.
type Tx interface {
	Insert(ctx context.Context, p *models.Pessoa) error
	Delete(ctx context.Context, id int64) error
	Commit() error
	Rollback() error
}
