package xmlfn

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/zoobzio/xmlsql/internal/query"
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

func testDialect(filter bool) *render.Dialect {
	return render.NewDialect(render.DialectConfig{
		Name: "test",
		Capabilities: render.Capabilities{
			FilterClause:       filter,
			ParametersInSelect: true,
		},
		TypeNames: map[types.SQLType]string{
			types.SQLBoolean: "boolean",
			types.SQLInteger: "integer",
			types.SQLBigInt:  "bigint",
			types.SQLVarchar: "varchar($l)",
			types.SQLChar:    "char($l)",
			types.SQLXML:     "xml",
		},
		TrueLiteral:  "true",
		FalseLiteral: "false",
	})
}

func col(q, c string, m *types.JdbcMapping) *types.ColumnReference {
	return &types.ColumnReference{Qualifier: q, Column: c, Mapping: m}
}

func str(s string) *types.Literal {
	return &types.Literal{Value: s, Mapping: &types.String}
}

func generate(t *testing.T, d *render.Dialect, desc Descriptor, call Call, args ...types.Expression) *types.FunctionExpression {
	t.Helper()
	ctx := query.New(d, nil, zaptest.NewLogger(t))
	fn, err := desc.Generate(ctx, args, call)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return fn
}

func renderCall(t *testing.T, d *render.Dialect, desc Descriptor, call Call, args ...types.Expression) string {
	t.Helper()
	fn := generate(t, d, desc, call, args...)
	tr := render.NewTranslator(d)
	if err := tr.Render(fn, types.RenderNormal); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if tr.ClauseStack().Depth() != 0 {
		t.Errorf("clause stack depth = %d after render, want 0", tr.ClauseStack().Depth())
	}
	return tr.SQL()
}
