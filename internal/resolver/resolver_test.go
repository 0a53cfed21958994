package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/lexer"
	"github.com/sdecook/loxi/internal/parser"
	"github.com/sdecook/loxi/internal/resolver"
	"github.com/sdecook/loxi/internal/token"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, resolver.Locals, []string) {
	t.Helper()
	toks := lexer.New([]byte(src), nil).Scan()
	p := parser.New(toks, nil)
	stmts := p.Parse()
	var errs []string
	r := resolver.New(func(tok token.Token, msg string) {
		errs = append(errs, msg)
	})
	locals := r.Resolve(stmts)
	return stmts, locals, errs
}

func TestResolveClosureDepth(t *testing.T) {
	src := `
	fun make() {
		var x = 0;
		fun inc() {
			x = x + 1;
			return x;
		}
		return inc;
	}
	`
	_, locals, errs := resolve(t, src)
	require.Empty(t, errs)
	// The assignment to x inside inc resolves one scope up from inc's body.
	found := false
	for _, depth := range locals {
		if depth == 1 {
			found = true
		}
	}
	assert.True(t, found, "expected an assignment resolved at depth 1, got %v", locals)
}

func TestResolveSelfReferencingInitializerIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "{ var x = x; }")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "own initializer")
}

func TestResolveRedeclarationInSameScopeIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "{ var x = 1; var x = 2; }")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "already been declared")
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "return 1;")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "top-level")
}

func TestResolveReturnValueFromInitializerIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "class A { init() { return 1; } }")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "initializer")
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "print this;")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "this")
}

func TestResolveSuperWithoutSuperclassIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "class A { m() { super.m(); } }")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "super")
}

func TestResolveSelfInheritanceIsAnError(t *testing.T) {
	_, _, errs := resolve(t, "class A < A {}")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "inherit from itself")
}

func TestResolveBareReturnInInitializerIsFine(t *testing.T) {
	_, _, errs := resolve(t, "class A { init() { return; } }")
	assert.Empty(t, errs)
}
