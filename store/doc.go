// Package store define o handle de persistência usado pelo serviço de pessoas.
//
// Visão Geral:
// Em vez de uma sessão global, a aplicação hospedeira cria uma Session e a
// injeta explicitamente no serviço. Cada operação de escrita abre uma Tx
// própria, que termina em Commit ou Rollback.
//
// Implementações disponíveis:
//   - memory: backend em processo, útil para testes e execução local.
//   - postgres: backend relacional via database/sql e lib/pq.
//   - dynamo: tabela DynamoDB com escrita via TransactWriteItems.
//
// Mocks:
// MockSession e MockTx expõem campos de função (GetFn, InsertFn, etc.) para
// simular o comportamento do backend em testes unitários.
//
// Exemplo de uso:
//
//	tx, err := session.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	if err := tx.Insert(ctx, &p); err != nil {
//		_ = tx.Rollback()
//		return err
//	}
//	return tx.Commit()
package store
