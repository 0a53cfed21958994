package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/loxi/internal/lexer"
	"github.com/sdecook/loxi/internal/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	var errs []string
	l := lexer.New([]byte(src), func(line int, msg string) {
		errs = append(errs, msg)
	})
	toks := l.Scan()
	require.Empty(t, errs, "unexpected lexical errors: %v", errs)
	return toks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scan(t, "(){};,+-*!===<=>=!=<>/ ")
	types := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Semicolon, token.Comma, token.Plus, token.Minus, token.Star,
		token.BangEqual, token.EqualEqual, token.LessEqual, token.GreaterEqual,
		token.BangEqual, token.Less, token.Greater, token.Slash, token.EOF,
	}, types)
}

func TestScanStringLiteral(t *testing.T) {
	toks := scan(t, `"hello world";`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.String, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestScanNumberLiteral(t *testing.T) {
	toks := scan(t, "1234;3.14;")
	require.Len(t, toks, 5)
	assert.Equal(t, 1234.0, toks[0].Literal)
	assert.Equal(t, 3.14, toks[2].Literal)
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks := scan(t, "class fun var classify")
	require.Len(t, toks, 5)
	assert.Equal(t, token.Class, toks[0].Type)
	assert.Equal(t, token.Fun, toks[1].Type)
	assert.Equal(t, token.Var, toks[2].Type)
	assert.Equal(t, token.Identifier, toks[3].Type)
}

func TestScanCommentToEndOfLine(t *testing.T) {
	toks := scan(t, "var a = 1; // trailing comment\nvar b = 2;")
	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.NotContains(t, types, token.Slash)
}

func TestScanLineTracking(t *testing.T) {
	toks := scan(t, "var a = 1;\nvar b = 2;\n")
	// "b" identifier is on line 2
	var bLine int
	for _, tok := range toks {
		if tok.Type == token.Identifier && tok.Lexeme == "b" {
			bLine = tok.Line
		}
	}
	assert.Equal(t, 2, bLine)
}

func TestScanReportsUnexpectedCharacter(t *testing.T) {
	var errs []string
	l := lexer.New([]byte("var a = @;"), func(line int, msg string) {
		errs = append(errs, msg)
	})
	l.Scan()
	assert.True(t, l.HadError())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "@")
}

func TestScanUnterminatedString(t *testing.T) {
	var errs []string
	l := lexer.New([]byte(`"unterminated`), func(line int, msg string) {
		errs = append(errs, msg)
	})
	l.Scan()
	assert.True(t, l.HadError())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Unterminated")
}
