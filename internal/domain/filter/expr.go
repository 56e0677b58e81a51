package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/scoring"
)

// Expression is a compiled boolean CEL expression over one rider.
//
// Variables: id, name, team, country, region (string), age (double, 0 when
// unknown), overall (int, 0 when unrated), rated (bool), archetype (string),
// real (bool) and stats (map of numeric skill fields, e.g.
// stats["stat_cobbles"]).
type Expression struct {
	source  string
	program cel.Program
}

var riderEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("team", cel.StringType),
		cel.Variable("country", cel.StringType),
		cel.Variable("region", cel.StringType),
		cel.Variable("age", cel.DoubleType),
		cel.Variable("overall", cel.IntType),
		cel.Variable("rated", cel.BoolType),
		cel.Variable("archetype", cel.StringType),
		cel.Variable("real", cel.BoolType),
		cel.Variable("stats", cel.MapType(cel.StringType, cel.DoubleType)),
	)
})

// Compile parses and type-checks src. The expression must yield a bool.
func Compile(src string) (*Expression, error) {
	env, err := riderEnv()
	if err != nil {
		return nil, fmt.Errorf("rider filter environment: %w", err)
	}
	ast, iss := env.Compile(src)
	if iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q yields %s, want bool", ErrInvalidExpression, src, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return &Expression{source: src, program: prg}, nil
}

func (e *Expression) String() string { return e.source }

// Match evaluates the expression. Runtime errors, such as reading a missing
// stat, count as no match.
func (e *Expression) Match(r model.Rider, ev scoring.Evaluation) bool {
	out, _, err := e.program.Eval(activation(r, ev))
	if err != nil {
		return false
	}
	ok, _ := out.Value().(bool)
	return ok
}

func activation(r model.Rider, ev scoring.Evaluation) map[string]any {
	return map[string]any{
		"id":        r.ID,
		"name":      r.FullName(),
		"team":      r.TeamID,
		"country":   r.CountryID,
		"region":    r.RegionName(),
		"age":       r.Age.Or(0),
		"overall":   int64(ev.Overall.Value),
		"rated":     ev.Overall.Rated,
		"archetype": ev.Archetype.String(),
		"real":      r.Real,
		"stats":     r.Stats.Numeric(),
	}
}
