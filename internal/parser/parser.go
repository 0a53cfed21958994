// Package parser implements a recursive-descent parser producing the
// typed syntax tree defined in internal/ast.
package parser

import (
	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/token"
)

const maxArgs = 255

// ErrorFunc reports a parse error at a token; parsing continues via
// panic-mode recovery after each report.
type ErrorFunc func(tok token.Token, message string)

// Parser consumes a flat token slice (as produced by internal/lexer) and
// builds a statement list.
type Parser struct {
	tokens []token.Token
	idx    int
	ids    ast.IDGen
	onErr  ErrorFunc
	hadErr bool
}

// New creates a Parser over tokens. onErr may be nil.
func New(tokens []token.Token, onErr ErrorFunc) *Parser {
	return &Parser{tokens: tokens, onErr: onErr}
}

// HadError reports whether any parse error was encountered.
func (p *Parser) HadError() bool { return p.hadErr }

// parseError is used internally to unwind out of a broken declaration and
// into panic-mode recovery; it is never returned to callers of Parse.
type parseError struct{}

func (parseError) Error() string { return "parse error" }

// Parse consumes the whole token stream and returns the statement list.
// Errors are reported via onErr; malformed declarations are skipped via
// synchronize and do not stop the parse.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if d := p.declarationRecover(); d != nil {
			stmts = append(stmts, d)
		}
	}
	return stmts
}

// ParseExpression parses a single expression, for REPL/debug "evaluate"
// mode where a whole program is too strict a requirement.
func (p *Parser) ParseExpression() ast.Expr {
	return p.expression()
}

func (p *Parser) declarationRecover() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName := p.consume(token.Identifier, "Expect superclass name.")
		superclass = ast.NewVariable(p.ids.Next(), superName)
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RightBrace, "Expect '}' after class body.")

	return ast.NewClassDecl(p.ids.Next(), name, superclass, methods)
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.current(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return ast.NewFunction(p.ids.Next(), name, params, body)
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return ast.NewVarStmt(p.ids.Next(), name, init)
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return ast.NewExpressionStmt(p.ids.Next(), expr)
}

func (p *Parser) printStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return ast.NewPrintStmt(p.ids.Next(), expr)
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return ast.NewReturnStmt(p.ids.Next(), keyword, value)
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")
	then := p.statement()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.statement()
	}
	return ast.NewIfStmt(p.ids.Next(), condition, then, els)
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return ast.NewWhileStmt(p.ids.Next(), condition, body)
}

// forStmt desugars `for (init; cond; step) body` into a while loop, per
// spec.md §4.2.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock(p.ids.Next(), []ast.Stmt{
			body,
			ast.NewExpressionStmt(p.ids.Next(), increment),
		})
	}

	if condition == nil {
		condition = ast.NewLiteral(p.ids.Next(), true)
	}
	var loop ast.Stmt = ast.NewWhileStmt(p.ids.Next(), condition, body)

	if initializer != nil {
		loop = ast.NewBlock(p.ids.Next(), []ast.Stmt{initializer, loop})
	}

	return loop
}

func (p *Parser) block() *ast.Block {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if d := p.declarationRecover(); d != nil {
			stmts = append(stmts, d)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return ast.NewBlock(p.ids.Next(), stmts)
}

// ---- Expressions ----

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(p.ids.Next(), target.Name, value)
		case *ast.Get:
			return ast.NewSet(p.ids.Next(), target.Object, target.Name, value)
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = ast.NewLogical(p.ids.Next(), expr, op, right)
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(p.ids.Next(), expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(p.ids.Next(), expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		op := p.previous()
		right := p.term()
		expr = ast.NewBinary(p.ids.Next(), expr, op, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = ast.NewBinary(p.ids.Next(), expr, op, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(p.ids.Next(), expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(p.ids.Next(), op, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = ast.NewGet(p.ids.Next(), expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.current(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return ast.NewCall(p.ids.Next(), callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(p.ids.Next(), false)
	case p.match(token.True):
		return ast.NewLiteral(p.ids.Next(), true)
	case p.match(token.Nil):
		return ast.NewLiteral(p.ids.Next(), nil)
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.ids.Next(), p.previous().Literal)
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return ast.NewSuper(p.ids.Next(), keyword, method)
	case p.match(token.This):
		return ast.NewThis(p.ids.Next(), p.previous())
	case p.match(token.Identifier):
		return ast.NewVariable(p.ids.Next(), p.previous())
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return ast.NewGrouping(p.ids.Next(), expr)
	}

	p.errorAt(p.current(), "Expect expression.")
	panic(parseError{})
}

// ---- Token stream helpers ----

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, msg string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errorAt(p.current(), msg)
	panic(parseError{})
}

func (p *Parser) check(t token.Type) bool {
	return !p.atEnd() && p.current().Type == t
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) atEnd() bool { return p.current().Type == token.EOF }

func (p *Parser) current() token.Token { return p.tokens[p.idx] }

func (p *Parser) previous() token.Token {
	if p.idx > 0 {
		return p.tokens[p.idx-1]
	}
	return p.current()
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.hadErr = true
	if p.onErr != nil {
		p.onErr(tok, msg)
	}
}

// synchronize discards tokens until a likely statement boundary, so a
// single malformed declaration does not stop the rest of the parse
// (spec.md §4.2 panic-mode recovery).
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.current().Type {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
