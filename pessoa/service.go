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
package pessoa

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/store"
)

const (
	opCreate = "create"
	opList   = "list"
	opDelete = "delete"
)

// Service concentra validação e regras de persistência de pessoas.
// Não guarda estado entre chamadas além da sessão recebida.
type Service struct {
	session store.Session
	valid   *validator.Validate
}

// NewService cria um Service sobre a sessão fornecida pela aplicação.
func NewService(session store.Session) *Service {
	return &Service{
		session: session,
		valid:   newValidator(),
	}
}

// Create valida os campos, remove espaços nas extremidades e grava um novo
// registro em uma única transação. Retorna o registro com o ID atribuído pelo
// backend.
func (s *Service) Create(ctx context.Context, nome, sobrenome, cpf, dataNascimento string) (*models.Pessoa, error) {
	in := novaPessoa{
		Nome:           nome,
		Sobrenome:      sobrenome,
		CPF:            cpf,
		DataNascimento: dataNascimento,
	}
	if err := validate(ctx, s.valid, opCreate, in); err != nil {
		return nil, err
	}

	in = in.trimmed()
	p := &models.Pessoa{
		Nome:           in.Nome,
		Sobrenome:      in.Sobrenome,
		CPF:            in.CPF,
		DataNascimento: in.DataNascimento,
	}

	tx, err := s.session.Begin(ctx)
	if err != nil {
		return nil, persistence(opCreate, "erro ao salvar pessoa no banco de dados", err)
	}
	if err := tx.Insert(ctx, p); err != nil {
		_ = tx.Rollback()
		return nil, persistence(opCreate, "erro ao salvar pessoa no banco de dados", err)
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return nil, persistence(opCreate, "erro ao salvar pessoa no banco de dados", err)
	}
	return p, nil
}

// List retorna todos os registros na ordem do backend.
func (s *Service) List(ctx context.Context) ([]models.Pessoa, error) {
	list, err := s.session.List(ctx)
	if err != nil {
		return nil, persistence(opList, "erro ao listar pessoas", err)
	}
	if list == nil {
		list = []models.Pessoa{}
	}
	return list, nil
}

// Delete remove o registro com o ID informado. O ID deve ser positivo e o
// registro deve existir.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidInput(opDelete, "id", "o ID da pessoa deve ser um número inteiro positivo")
	}

	if _, err := s.session.Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(opDelete, id)
		}
		return persistence(opDelete, "erro ao buscar pessoa no banco de dados", err)
	}

	tx, err := s.session.Begin(ctx)
	if err != nil {
		return persistence(opDelete, "erro ao remover pessoa do banco de dados", err)
	}
	if err := tx.Delete(ctx, id); err != nil {
		_ = tx.Rollback()
		// Removido por outra chamada entre a busca e o delete
		if errors.Is(err, store.ErrNotFound) {
			return notFound(opDelete, id)
		}
		return persistence(opDelete, "erro ao remover pessoa do banco de dados", err)
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, store.ErrNotFound) {
			return notFound(opDelete, id)
		}
		return persistence(opDelete, "erro ao remover pessoa do banco de dados", err)
	}
	return nil
}
