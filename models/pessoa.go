// Package models contém os registros de dados puros do domínio, sem
// comportamento de persistência.
package models

// Pessoa representa o registro de uma pessoa física.
//
// O CPF é mantido como texto para preservar zeros à esquerda. O ID é
// atribuído pelo backend de persistência no momento da criação.
type Pessoa struct {
	ID             int64  `json:"id" db:"id"`
	Nome           string `json:"nome" db:"nome"`
	Sobrenome      string `json:"sobrenome" db:"sobrenome"`
	CPF            string `json:"cpf" db:"cpf"`
	DataNascimento string `json:"data_nascimento" db:"data_de_nascimento"`
}
