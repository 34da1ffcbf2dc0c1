/*
Package pessoa fornece o serviço de acesso a registros de pessoas.

O serviço oferece três operações sobre uma store.Session injetada pela
aplicação hospedeira:
  - Create: valida, normaliza (trim) e persiste um novo registro.
  - List: retorna todos os registros na ordem do backend.
  - Delete: remove um registro pelo ID.

Toda falha é um *Error classificado em um de três tipos (InvalidInput,
NotFound, Persistence), verificável com errors.Is contra os sentinelas
ErrInvalidInput, ErrNotFound e ErrPersistence, ou com KindOf.

Exemplo de uso:

	svc := pessoa.NewService(memory.New())
	p, err := svc.Create(ctx, "Ana", "Silva", "12345678901", "2000-01-01")
	switch pessoa.KindOf(err) {
	case pessoa.KindInvalidInput:
		// corrigir a entrada
	case pessoa.KindPersistence:
		// decidir se vale tentar novamente
	}
*/
package pessoa
