package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/pessoa"
	"github.com/raywall/crud-pessoa/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLambdaHandler_REST(t *testing.T) {
	srv := NewServer(pessoa.NewService(memory.New()), Options{})
	handler := NewLambdaHandler(srv)
	ctx := context.Background()

	resp, err := handler.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/pessoas",
		Body:       anaJSON,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			HeaderCorrelationID: "lambda-1",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "lambda-1", resp.Headers[HeaderCorrelationID])
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Contains(t, resp.Body, `"nome":"Ana"`)

	resp, err = handler.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/pessoas",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.Pessoa
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &list))
	assert.Len(t, list, 1)

	resp, err = handler.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodDelete,
		Path:       "/pessoas/7",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"pessoa com ID 7 não encontrada"}`, resp.Body)
}

func TestLambdaHandler_Base64Body(t *testing.T) {
	handler := NewLambdaHandler(NewServer(pessoa.NewService(memory.New()), Options{}))

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/pessoas",
		Body:            base64.StdEncoding.EncodeToString([]byte(anaJSON)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/pessoas",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToHTTPRequest_Query(t *testing.T) {
	req, err := toHTTPRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:                      http.MethodGet,
		Path:                            "/pessoas",
		QueryStringParameters:           map[string]string{"out": "json"},
		MultiValueQueryStringParameters: map[string][]string{"tag": {"a", "b"}},
		MultiValueHeaders:               map[string][]string{"Accept": {"application/json"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "json", req.URL.Query().Get("out"))
	assert.Equal(t, []string{"a", "b"}, req.URL.Query()["tag"])
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}
