package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()

	l := NewLexer("<test>", strings.NewReader(src))

	var toks []Token

	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)

		if tok.K == EOF {
			return toks
		}
	}
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.K
	}

	return ks
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "val fun x1 x' foo_bar")
	require.Equal(t, []Kind{KwVal, KwFun, Ident, Ident, Ident, EOF}, kinds(toks))
	require.Equal(t, "x1", toks[2].Text)
	require.Equal(t, "x'", toks[3].Text)
}

func TestLexerQuotedIdent(t *testing.T) {
	toks := lexAll(t, "`from``end`")
	require.Equal(t, []Kind{QuotedIdent, EOF}, kinds(toks))
	require.Equal(t, "from`end", toks[0].Text)
}

func TestLexerIntAndReal(t *testing.T) {
	toks := lexAll(t, "3 ~3 3.5 ~3.5 1e10 ~2e~3")
	require.Equal(t, []Kind{IntLit, IntLit, RealLit, RealLit, RealLit, RealLit, EOF}, kinds(toks))
	require.EqualValues(t, 3, toks[0].Int)
	require.EqualValues(t, -3, toks[1].Int)
	require.InDelta(t, 3.5, toks[2].Real, 1e-9)
	require.InDelta(t, -3.5, toks[3].Real, 1e-9)
	require.InDelta(t, 1e10, toks[4].Real, 1)
	require.InDelta(t, -2e-3, toks[5].Real, 1e-9)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\tb\n\065\^A"`)
	require.Equal(t, []Kind{StringLit, EOF}, kinds(toks))
	require.Equal(t, "a\tb\nA\x01", toks[0].Text)
}

func TestLexerCharLit(t *testing.T) {
	toks := lexAll(t, `#"x" #"\n"`)
	require.Equal(t, []Kind{CharLit, CharLit, EOF}, kinds(toks))
	require.EqualValues(t, 'x', toks[0].Int)
	require.EqualValues(t, '\n', toks[1].Int)
}

func TestLexerComments(t *testing.T) {
	toks := lexAll(t, "(*) line comment\nval (* nested (* block *) comment *) x")
	require.Equal(t, []Kind{KwVal, Ident, EOF}, kinds(toks))
}

func TestLexerUnterminatedComment(t *testing.T) {
	l := NewLexer("<test>", strings.NewReader("val (* never closed"))

	for {
		_, err := l.Next()
		if err != nil {
			require.Contains(t, err.Error(), "unterminated comment")
			return
		}
	}
}

func TestLexerPunctuators(t *testing.T) {
	toks := lexAll(t, "= => | ( ) [ ] { } , ; : :: _ . -> #")
	require.Equal(t, []Kind{
		Eq, DArrow, Bar, LParen, RParen, LBrack, RBrack, LBrace, RBrace,
		Comma, Semi, Colon, ColonCC, Underscr, Dot, Arrow, Hash, EOF,
	}, kinds(toks))
}

func TestLexerTypeVar(t *testing.T) {
	toks := lexAll(t, "'a 'foo")
	require.Equal(t, []Kind{TypeVar, TypeVar, EOF}, kinds(toks))
	require.Equal(t, "'a", toks[0].Text)
	require.Equal(t, "'foo", toks[1].Text)
}
