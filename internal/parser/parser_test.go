package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/lexer"
	"github.com/sdecook/loxi/internal/parser"
	"github.com/sdecook/loxi/internal/token"
)

func parse(t *testing.T, src string) ([]ast.Stmt, []string) {
	t.Helper()
	toks := lexer.New([]byte(src), nil).Scan()
	var errs []string
	p := parser.New(toks, func(tok token.Token, msg string) {
		errs = append(errs, msg)
	})
	stmts := p.Parse()
	return stmts, errs
}

func TestParseExpressionStatement(t *testing.T) {
	stmts, errs := parse(t, "1 + 2;")
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(*ast.ExpressionStmt)
	require.True(t, ok)
	bin, ok := es.Expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.Plus, bin.Op.Type)
}

func TestParseVarDeclNoInitializer(t *testing.T) {
	stmts, errs := parse(t, "var a;")
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	vd, ok := stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Nil(t, vd.Initializer)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, errs := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Statements, 2)
	_, isVar := block.Statements[0].(*ast.VarStmt)
	assert.True(t, isVar)
	while, ok := block.Statements[1].(*ast.WhileStmt)
	require.True(t, ok)
	bodyBlock, ok := while.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, bodyBlock.Statements, 2)
}

func TestParseForWithMissingCondition(t *testing.T) {
	stmts, errs := parse(t, "for (;;) print 1;")
	require.Empty(t, errs)
	while, ok := stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	lit, ok := while.Condition.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, true, lit.Value)
}

func TestParseAssignmentTarget(t *testing.T) {
	stmts, errs := parse(t, "a = 1;")
	require.Empty(t, errs)
	es := stmts[0].(*ast.ExpressionStmt)
	_, ok := es.Expr.(*ast.Assign)
	assert.True(t, ok)
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	_, errs := parse(t, "1 = 2;")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "Invalid assignment target")
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts, errs := parse(t, "class B < A { init(v) { this.v = v; } }")
	require.Empty(t, errs)
	cd, ok := stmts[0].(*ast.ClassDecl)
	require.True(t, ok)
	require.NotNil(t, cd.Superclass)
	assert.Equal(t, "A", cd.Superclass.Name.Lexeme)
	require.Len(t, cd.Methods, 1)
	assert.Equal(t, "init", cd.Methods[0].Name.Lexeme)
}

func TestParseRecoversAfterSyntaxError(t *testing.T) {
	stmts, errs := parse(t, "var ;\nvar b = 2;")
	require.NotEmpty(t, errs)
	require.Len(t, stmts, 1)
	vd, ok := stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "b", vd.Name.Lexeme)
}

func TestParseArgumentLimit(t *testing.T) {
	src := "fun f() {} f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"
	_, errs := parse(t, src)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e == "Can't have more than 255 arguments." {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEachStatementGetsAUniqueNodeID(t *testing.T) {
	stmts, errs := parse(t, "var a = 1; var b = 2;")
	require.Empty(t, errs)
	require.Len(t, stmts, 2)
	assert.NotEqual(t, stmts[0].ID(), stmts[1].ID())
}
