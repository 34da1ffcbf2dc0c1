// Package crud_pessoa implementa um serviço de cadastro de pessoas (criar,
// listar e remover por ID) sobre um backend de persistência injetado.
//
// Visão Geral:
// O núcleo é o pacote pessoa, que valida a entrada, delega ao store e
// normaliza falhas em três categorias (entrada inválida, não encontrado e
// falha de persistência). Os demais pacotes formam a aplicação hospedeira.
//
// Sub-Pacotes Principais:
//
// 1. pessoa:
//   - Service com Create, List e Delete.
//   - Erros tipados (*pessoa.Error) comparáveis via errors.Is.
//
// 2. store:
//   - Session/Tx com backends memory, postgres e dynamo.
//   - Mocks com campos de função para testes unitários.
//
// 3. pkg/config:
//   - Loader YAML de arquivo, S3 ou DynamoDB.
//   - Injeção de variáveis de ambiente, parâmetros SSM e segredos.
//
// 4. pkg/transport:
//   - API HTTP (gorilla/mux) e adaptador para API Gateway/Lambda.
//
// Binários:
//   - cmd/server: servidor HTTP ou Lambda.
//   - cmd/pessoactl: CLI para operar o cadastro diretamente.
package crud_pessoa
