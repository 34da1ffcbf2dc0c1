// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package postgres implementa store.Session sobre PostgreSQL usando
// database/sql e o driver lib/pq.
//
// O pacote não executa DDL: a tabela "pessoa" deve existir previamente.
//
//	CREATE TABLE pessoa (
//		id                 SERIAL PRIMARY KEY,
//		nome               TEXT NOT NULL,
//		sobrenome          TEXT NOT NULL,
//		cpf                VARCHAR(11) NOT NULL,
//		data_de_nascimento TEXT NOT NULL
//	);
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/store"
)

const (
	insertQuery = `
		INSERT INTO pessoa (nome, sobrenome, cpf, data_de_nascimento)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	selectByIDQuery = `
		SELECT id, nome, sobrenome, cpf, data_de_nascimento
		FROM pessoa
		WHERE id = $1
	`
	selectAllQuery = `
		SELECT id, nome, sobrenome, cpf, data_de_nascimento
		FROM pessoa
		ORDER BY id
	`
	deleteQuery = `DELETE FROM pessoa WHERE id = $1`
)

// Open abre o pool de conexões, aplica os limites configurados e valida a
// conexão com um ping.
func Open(ctx context.Context, cfg config.DatabaseConf) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if lifetime := cfg.GetConnMaxLifetime(); lifetime > 0 {
		db.SetConnMaxLifetime(lifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap("ping", err)
	}
	return db, nil
}

// Session é o handle de persistência sobre um *sql.DB.
type Session struct {
	db *sql.DB
}

// New cria uma sessão a partir de um pool já aberto. O ciclo de vida do pool
// pertence a quem o criou.
func New(db *sql.DB) *Session {
	return &Session{db: db}
}

func (s *Session) Begin(ctx context.Context) (store.Tx, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin", err)
	}
	return &tx{tx: sqlTx}, nil
}

func (s *Session) Get(ctx context.Context, id int64) (*models.Pessoa, error) {
	var p models.Pessoa
	err := s.db.QueryRowContext(ctx, selectByIDQuery, id).
		Scan(&p.ID, &p.Nome, &p.Sobrenome, &p.CPF, &p.DataNascimento)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, wrap("get pessoa", err)
	}
	return &p, nil
}

func (s *Session) List(ctx context.Context) ([]models.Pessoa, error) {
	rows, err := s.db.QueryContext(ctx, selectAllQuery)
	if err != nil {
		return nil, wrap("list pessoas", err)
	}
	defer rows.Close()

	out := make([]models.Pessoa, 0)
	for rows.Next() {
		var p models.Pessoa
		if err := rows.Scan(&p.ID, &p.Nome, &p.Sobrenome, &p.CPF, &p.DataNascimento); err != nil {
			return nil, wrap("scan pessoa", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list pessoas", err)
	}
	return out, nil
}

type tx struct {
	tx *sql.Tx
}

func (t *tx) Insert(ctx context.Context, p *models.Pessoa) error {
	var id int64
	err := t.tx.QueryRowContext(ctx, insertQuery, p.Nome, p.Sobrenome, p.CPF, p.DataNascimento).Scan(&id)
	if err != nil {
		return wrap("insert pessoa", err)
	}
	p.ID = id
	return nil
}

func (t *tx) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return wrap("delete pessoa", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrap("delete pessoa", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t *tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return store.ErrTxDone
		}
		return wrap("commit", err)
	}
	return nil
}

func (t *tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return store.ErrTxDone
		}
		return wrap("rollback", err)
	}
	return nil
}

// wrap anexa a operação e, quando disponível, o código SQLSTATE do servidor.
func wrap(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres: %s: %s [%s]: %w", op, pqErr.Code.Name(), pqErr.Code, err)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}
