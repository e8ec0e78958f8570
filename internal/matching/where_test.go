package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktransport/pkg/message"
)

func TestEvalWhere(t *testing.T) {
	jsonReq := &message.Request{
		Method: "POST",
		Path:   "/users/42",
		Host:   "api.example.com",
		Port:   443,
		Header: message.NewHeader("Content-Type", "application/json", "X-Tenant", "acme"),
		Body:   message.ParseBody([]byte(`{"name":"ada","age":36}`), "application/json"),
	}
	textReq := &message.Request{
		Method: "PUT",
		Path:   "/notes",
		Port:   80,
		Body:   message.TextBody("hello"),
	}

	nestedReq := &message.Request{
		Method: "POST",
		Path:   "/users",
		Header: message.NewHeader("Content-Type", "application/json"),
		Body:   message.ParseBody([]byte(`{"address":{"city":"London"}}`), "application/json"),
	}

	tests := []struct {
		name       string
		expression string
		req        *message.Request
		params     map[string]string
		want       bool
		wantErr    bool
	}{
		{"method", `method == "POST"`, jsonReq, nil, true, false},
		{"header lookup", `headers["X-Tenant"] == "acme"`, jsonReq, nil, true, false},
		{"json body field", `body.name == "ada" && body.age > 30`, jsonReq, nil, true, false},
		{"port", `port == 443`, jsonReq, nil, true, false},
		{"params", `params.id == "42"`, jsonReq, map[string]string{"id": "42"}, true, false},
		{"text body", `body == "hello"`, textReq, nil, true, false},
		{"nested json body", `body.address.city == "London"`, nestedReq, nil, true, false},
		{"missing body field", `body.email == nil`, jsonReq, nil, true, false},
		{"unknown variable", `tenant == "acme"`, jsonReq, nil, false, true},
		{"false", `method == "GET"`, jsonReq, nil, false, false},
		{"syntax error", `method ==`, jsonReq, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalWhere(tt.expression, tt.req, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateWhere(t *testing.T) {
	assert.NoError(t, ValidateWhere(""))
	assert.NoError(t, ValidateWhere(`method == "GET"`))
	assert.Error(t, ValidateWhere(`method ==`))
	assert.Error(t, ValidateWhere(`"not a bool"`))
}
