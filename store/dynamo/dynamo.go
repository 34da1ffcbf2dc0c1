// Package dynamo implementa store.Session sobre uma tabela DynamoDB.
//
// A tabela usa "id" (N) como hash key. O item de id 0 guarda o contador
// "seq" usado para gerar IDs sequenciais e nunca aparece em Get ou List.
// O Commit aplica as operações preparadas em um único TransactWriteItems.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/store"
)

const (
	hashKey    = "id"
	counterID  = 0
	counterSeq = "seq"
	// TransactWriteItems aceita no máximo 100 ações
	maxTransactItems = 100
)

// Client é o subconjunto do cliente DynamoDB usado pelo backend.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// item é a representação persistida de models.Pessoa.
type item struct {
	ID             int64  `dynamodbav:"id"`
	Nome           string `dynamodbav:"nome"`
	Sobrenome      string `dynamodbav:"sobrenome"`
	CPF            string `dynamodbav:"cpf"`
	DataNascimento string `dynamodbav:"data_nascimento"`
}

func fromModel(p models.Pessoa) item {
	return item{ID: p.ID, Nome: p.Nome, Sobrenome: p.Sobrenome, CPF: p.CPF, DataNascimento: p.DataNascimento}
}

func (i item) toModel() models.Pessoa {
	return models.Pessoa{ID: i.ID, Nome: i.Nome, Sobrenome: i.Sobrenome, CPF: i.CPF, DataNascimento: i.DataNascimento}
}

type Session struct {
	client Client
	table  string
}

func New(client Client, table string) *Session {
	return &Session{client: client, table: table}
}

func (s *Session) Begin(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx{s: s, ctx: ctx}, nil
}

func (s *Session) Get(ctx context.Context, id int64) (*models.Pessoa, error) {
	if id == counterID {
		return nil, store.ErrNotFound
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo: get failed: %w", err)
	}
	if out.Item == nil {
		return nil, store.ErrNotFound
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("dynamo: unmarshal failed: %w", err)
	}
	p := it.toModel()
	return &p, nil
}

// List percorre a tabela inteira e ordena por ID.
func (s *Session) List(ctx context.Context) ([]models.Pessoa, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name(hashKey).GreaterThan(expression.Value(counterID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("dynamo: build filter: %w", err)
	}

	result := make([]models.Pessoa, 0)
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
			ConsistentRead:            aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("dynamo: scan failed: %w", err)
		}

		var page []item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamo: unmarshal failed: %w", err)
		}
		for _, it := range page {
			result = append(result, it.toModel())
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// nextID incrementa o contador de forma atômica. IDs nunca são reutilizados,
// mesmo quando a transação que os reservou é desfeita.
func (s *Session) nextID(ctx context.Context) (int64, error) {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Add(expression.Name(counterSeq), expression.Value(1))).
		Build()
	if err != nil {
		return 0, fmt.Errorf("dynamo: build update: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key(counterID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamo: next id: %w", err)
	}

	var seq int64
	if err := attributevalue.Unmarshal(out.Attributes[counterSeq], &seq); err != nil {
		return 0, fmt.Errorf("dynamo: next id: %w", err)
	}
	return seq, nil
}

type tx struct {
	s   *Session
	ctx context.Context

	mu      sync.Mutex
	done    bool
	inserts []models.Pessoa
	deletes []int64
}

func (t *tx) Insert(ctx context.Context, p *models.Pessoa) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return store.ErrTxDone
	}

	id, err := t.s.nextID(ctx)
	if err != nil {
		return err
	}
	p.ID = id
	t.inserts = append(t.inserts, *p)
	return nil
}

func (t *tx) Delete(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return store.ErrTxDone
	}

	for i, p := range t.inserts {
		if p.ID == id {
			t.inserts = append(t.inserts[:i], t.inserts[i+1:]...)
			return nil
		}
	}
	for _, staged := range t.deletes {
		if staged == id {
			return store.ErrNotFound
		}
	}
	if _, err := t.s.Get(ctx, id); err != nil {
		return err
	}
	t.deletes = append(t.deletes, id)
	return nil
}

func (t *tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return store.ErrTxDone
	}
	t.done = true

	total := len(t.inserts) + len(t.deletes)
	if total == 0 {
		return nil
	}
	if total > maxTransactItems {
		return fmt.Errorf("dynamo: transação com %d operações excede o limite de %d", total, maxTransactItems)
	}

	items, err := t.s.transactItems(t.inserts, t.deletes)
	if err != nil {
		return err
	}

	_, err = t.s.client.TransactWriteItems(t.ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && deleteConflict(canceled, len(t.inserts)) {
			return fmt.Errorf("dynamo: commit: %w", store.ErrNotFound)
		}
		return fmt.Errorf("dynamo: commit failed: %w", err)
	}
	return nil
}

func (t *tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return store.ErrTxDone
	}
	t.done = true
	t.inserts, t.deletes = nil, nil
	return nil
}

func (s *Session) transactItems(inserts []models.Pessoa, deletes []int64) ([]types.TransactWriteItem, error) {
	putCond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(hashKey))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("dynamo: build condition: %w", err)
	}
	delCond, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(hashKey))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("dynamo: build condition: %w", err)
	}

	items := make([]types.TransactWriteItem, 0, len(inserts)+len(deletes))
	for _, p := range inserts {
		av, err := attributevalue.MarshalMap(fromModel(p))
		if err != nil {
			return nil, fmt.Errorf("dynamo: marshal failed: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:                aws.String(s.table),
				Item:                     av,
				ConditionExpression:      putCond.Condition(),
				ExpressionAttributeNames: putCond.Names(),
			},
		})
	}
	for _, id := range deletes {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:                aws.String(s.table),
				Key:                      key(id),
				ConditionExpression:      delCond.Condition(),
				ExpressionAttributeNames: delCond.Names(),
			},
		})
	}
	return items, nil
}

// deleteConflict indica se alguma remoção falhou na condição de existência.
// As razões seguem a ordem das ações: inserts primeiro, depois deletes.
func deleteConflict(e *types.TransactionCanceledException, firstDelete int) bool {
	for i, r := range e.CancellationReasons {
		if i >= firstDelete && aws.ToString(r.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func key(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		hashKey: &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", id)},
	}
}
