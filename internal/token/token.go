package token

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	QuotedIdent // `...` quoted identifier, may contain keywords/spaces
	TypeVar     // 'a, 'b, ...
	IntLit
	RealLit
	StringLit
	CharLit

	// Keywords.
	KwVal
	KwFun
	KwFn
	KwLet
	KwIn
	KwEnd
	KwIf
	KwThen
	KwElse
	KwCase
	KwOf
	KwAndalso
	KwOrelse
	KwNot
	KwRaise
	KwHandle
	KwDatatype
	KwType
	KwAs
	KwRec
	KwAnd
	KwTrue
	KwFalse
	KwFrom
	KwWhere
	KwYield
	KwOrder
	KwGroup
	KwCompute
	KwOver
	KwSkip
	KwTake
	KwJoin
	KwOn
	KwThrough
	KwDistinct
	KwUnion
	KwIntersect
	KwExcept
	KwInto
	KwExists
	KwForall
	KwRequire
	KwElem
	KwNotelem
	KwUnorder
	KwImplies
	KwMod
	KwDiv

	// Punctuators.
	Eq       // =
	DArrow   // =>
	Bar      // |
	LParen   // (
	RParen   // )
	LBrack   // [
	RBrack   // ]
	LBrace   // {
	RBrace   // }
	Comma    // ,
	Semi     // ;
	Colon    // :
	ColonCC  // ::
	Underscr // _
	Dot      // .
	DotDotDot
	Arrow // ->
	Hash  // #

	// Symbolic operators, each tokenized as its own Kind and classified by
	// the parser's infix table.
	Star    // *
	Slash   // /
	Plus    // +
	Minus   // -
	Caret   // ^
	LtOp    // <
	LeOp    // <=
	GtOp    // >
	GeOp    // >=
	NeOp    // <>
	Tilde   // ~ (negation prefix)
)

var keywords = map[string]Kind{
	"val": KwVal, "fun": KwFun, "fn": KwFn, "let": KwLet, "in": KwIn,
	"end": KwEnd, "if": KwIf, "then": KwThen, "else": KwElse, "case": KwCase,
	"of": KwOf, "andalso": KwAndalso, "orelse": KwOrelse, "not": KwNot,
	"raise": KwRaise, "handle": KwHandle, "datatype": KwDatatype,
	"type": KwType, "as": KwAs, "rec": KwRec, "and": KwAnd, "true": KwTrue,
	"false": KwFalse, "from": KwFrom, "where": KwWhere, "yield": KwYield,
	"order": KwOrder, "group": KwGroup, "compute": KwCompute, "over": KwOver,
	"skip": KwSkip, "take": KwTake, "join": KwJoin, "on": KwOn,
	"through": KwThrough, "distinct": KwDistinct, "union": KwUnion,
	"intersect": KwIntersect, "except": KwExcept, "into": KwInto,
	"exists": KwExists, "forall": KwForall, "require": KwRequire,
	"elem": KwElem, "notelem": KwNotelem, "unorder": KwUnorder,
	"implies": KwImplies, "mod": KwMod, "div": KwDiv,
}

// LookupKeyword returns the keyword Kind for an identifier text, and
// whether it is in fact a keyword.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

// Token is the single, homogeneous lexical token shape produced by Lexer.
// Morel's token set (unlike TADL's structurally distinct G1/G2 tokens) is
// uniform, so one tagged struct suffices rather than a type per kind.
type Token struct {
	span Span
	K    Kind
	Text string // raw text for Ident/TypeVar; unescaped for QuotedIdent and StringLit
	Int  int64
	Real float64
}

// Kind returns the token's lexical class.
func (t Token) Kind() Kind { return t.K }

// Pos returns the token's span.
func (t Token) Pos() Span { return t.span }

func newTok(k Kind, span Span) Token {
	return Token{K: k, span: span}
}
