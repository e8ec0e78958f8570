package matching

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/mocktransport/pkg/message"
)

// programs caches compiled where expressions by source.
var programs sync.Map

// whereEnv is the environment a where expression is evaluated in. Body is
// typed any so expressions may reach into decoded JSON fields.
type whereEnv struct {
	Method    string            `expr:"method"`
	Path      string            `expr:"path"`
	Host      string            `expr:"host"`
	Port      int               `expr:"port"`
	Encrypted bool              `expr:"encrypted"`
	Headers   map[string]string `expr:"headers"`
	Body      any               `expr:"body"`
	Params    map[string]string `expr:"params"`
}

func newWhereEnv(r *message.Request, params map[string]string) whereEnv {
	var body any
	switch r.Body.Kind() {
	case message.BodyJSON:
		body = r.Body.Value()
	case message.BodyNone:
	default:
		body = r.Body.Text()
	}
	if params == nil {
		params = map[string]string{}
	}
	return whereEnv{
		Method:    r.Method,
		Path:      r.Path,
		Host:      r.Host,
		Port:      r.Port,
		Encrypted: r.Encrypted,
		Headers:   r.Header.Map(),
		Body:      body,
		Params:    params,
	}
}

func compileWhere(expression string) (*vm.Program, error) {
	if cached, ok := programs.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(whereEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	programs.Store(expression, program)
	return program, nil
}

// EvalWhere evaluates a boolean expression against the request. The
// environment exposes method, path, host, port, encrypted, headers (map of
// canonical names to joined values), body (decoded JSON, text, or nil) and
// params (path params captured by the expected path pattern).
func EvalWhere(expression string, r *message.Request, params map[string]string) (bool, error) {
	program, err := compileWhere(expression)
	if err != nil {
		return false, fmt.Errorf("compiling where expression: %w", err)
	}
	out, err := expr.Run(program, newWhereEnv(r, params))
	if err != nil {
		return false, fmt.Errorf("evaluating where expression: %w", err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("where expression returned %T, not bool", out)
	}
	return matched, nil
}

// ValidateWhere checks that expression compiles to a boolean expression.
func ValidateWhere(expression string) error {
	if expression == "" {
		return nil
	}
	_, err := compileWhere(expression)
	return err
}
