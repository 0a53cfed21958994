package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/environment"
	"github.com/sdecook/loxi/internal/token"
	"github.com/sdecook/loxi/internal/value"
)

func TestIsTruthy(t *testing.T) {
	assert.False(t, value.IsTruthy(nil))
	assert.False(t, value.IsTruthy(false))
	assert.True(t, value.IsTruthy(true))
	assert.True(t, value.IsTruthy(0.0))
	assert.True(t, value.IsTruthy(""))
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Equal(nil, nil))
	assert.False(t, value.Equal(nil, false))
	assert.True(t, value.Equal(1.0, 1.0))
	assert.False(t, value.Equal(1.0, 2.0))
	assert.True(t, value.Equal("a", "a"))
	assert.False(t, value.Equal("a", "b"))
	assert.False(t, value.Equal(1.0, "1"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "nil", value.Stringify(nil))
	assert.Equal(t, "true", value.Stringify(true))
	assert.Equal(t, "false", value.Stringify(false))
	assert.Equal(t, "3", value.Stringify(3.0))
	assert.Equal(t, "3.5", value.Stringify(3.5))
	assert.Equal(t, "hi", value.Stringify("hi"))
}

func TestClassFindMethodWalksSuperclass(t *testing.T) {
	id := new(ast.IDGen)
	body := ast.NewBlock(id.Next(), nil)
	decl := ast.NewFunction(id.Next(), token.Token{Type: token.Identifier, Lexeme: "greet"}, nil, body)
	base := &value.Class{Name: "Animal", Methods: map[string]*value.Function{
		"greet": {Declaration: decl, Closure: environment.New(nil)},
	}}
	derived := &value.Class{Name: "Dog", Superclass: base, Methods: map[string]*value.Function{}}

	fn := derived.FindMethod("greet")
	assert.NotNil(t, fn)
	assert.Nil(t, derived.FindMethod("bark"))
}

func TestInstanceGetPrefersFieldOverMethod(t *testing.T) {
	id := new(ast.IDGen)
	body := ast.NewBlock(id.Next(), nil)
	decl := ast.NewFunction(id.Next(), token.Token{Type: token.Identifier, Lexeme: "name"}, nil, body)
	class := &value.Class{Name: "C", Methods: map[string]*value.Function{
		"name": {Declaration: decl, Closure: environment.New(nil)},
	}}
	inst := value.NewInstance(class)
	inst.Set("name", "shadowed")

	v, ok := inst.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "shadowed", v)
}

func TestInstanceGetBindsMethod(t *testing.T) {
	id := new(ast.IDGen)
	body := ast.NewBlock(id.Next(), nil)
	decl := ast.NewFunction(id.Next(), token.Token{Type: token.Identifier, Lexeme: "greet"}, nil, body)
	class := &value.Class{Name: "C", Methods: map[string]*value.Function{
		"greet": {Declaration: decl, Closure: environment.New(nil)},
	}}
	inst := value.NewInstance(class)

	v, ok := inst.Get("greet")
	assert.True(t, ok)
	fn, ok := v.(*value.Function)
	assert.True(t, ok)
	bound, ok := fn.Closure.Get("this")
	assert.True(t, ok)
	assert.Equal(t, inst, bound)
}

func TestInstanceGetMissingReturnsFalse(t *testing.T) {
	class := &value.Class{Name: "C", Methods: map[string]*value.Function{}}
	inst := value.NewInstance(class)
	_, ok := inst.Get("missing")
	assert.False(t, ok)
}
