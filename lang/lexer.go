package lang

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a [Token].
type TokenKind int

const (
	// TokenSpace is a run of whitespace.
	TokenSpace TokenKind = iota
	// TokenChain is an identifier optionally followed by dotted segments,
	// e.g. "title.width".
	TokenChain
	// TokenMember is a dotted continuation following a non-identifier, e.g.
	// the ".upper" in "'x'.upper()".
	TokenMember
	// TokenString is a quoted literal including its prefix and quotes.
	TokenString
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenPunct is an operator or delimiter.
	TokenPunct
	// TokenComment runs from '#' to the end of the line.
	TokenComment
)

// String returns the lowercase name of the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenSpace:
		return "space"

	case TokenChain:
		return "chain"

	case TokenMember:
		return "member"

	case TokenString:
		return "string"

	case TokenNumber:
		return "number"

	case TokenPunct:
		return "punct"

	case TokenComment:
		return "comment"

	default:
		return "unknown"
	}
}

// Token is one lexical element of expression text.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
}

// Is reports whether the token is the punctuation p.
func (t Token) Is(p string) bool {
	return t.Kind == TokenPunct && t.Text == p
}

// operators lists the multi-character operators, longest first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"==", "!=", "<=", ">=", ":=", "->", "**", "//", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

// Lex splits src into tokens. The concatenation of every token's text is
// always src. An unclosed quoted literal is an error.
func Lex(src string) ([]Token, error) {
	l := &lexer{input: src}

	for !l.eof() {
		if err := l.next(); err != nil {
			return l.tokens, err
		}
	}

	return l.tokens, nil
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() rune {
	return l.peekAt(l.pos)
}

func (l *lexer) peekAt(pos int) rune {
	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
}

func (l *lexer) emit(kind TokenKind, start int) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Text:   l.input[start:l.pos],
		Offset: start,
	})
}

// last returns the most recent token that is not whitespace.
func (l *lexer) last() (Token, bool) {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		if l.tokens[i].Kind != TokenSpace {
			return l.tokens[i], true
		}
	}

	return Token{}, false
}

func (l *lexer) next() error {
	start := l.pos
	ch := l.peek()

	switch {
	case unicode.IsSpace(ch):
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		l.emit(TokenSpace, start)

	case ch == '#':
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		l.emit(TokenComment, start)

	case ch == '\'' || ch == '"':
		return l.lexString(start)

	case isIdentifierStart(ch):
		if n := l.stringPrefix(); n > 0 {
			l.pos += n

			return l.lexString(start)
		}

		l.lexIdentifier()

		for l.peek() == '.' && isIdentifierStart(l.peekAt(l.pos+1)) {
			l.advance()
			l.lexIdentifier()
		}

		l.emit(TokenChain, start)

	case isDigit(ch), ch == '.' && isDigit(l.peekAt(l.pos+1)):
		l.lexNumber()
		l.emit(TokenNumber, start)

	case ch == '.' && isIdentifierStart(l.peekAt(l.pos+1)):
		for l.peek() == '.' && isIdentifierStart(l.peekAt(l.pos+1)) {
			l.advance()
			l.lexIdentifier()
		}

		l.emit(TokenMember, start)

	default:
		for _, op := range operators {
			if strings.HasPrefix(l.input[l.pos:], op) {
				l.pos += len(op)
				l.emit(TokenPunct, start)

				return nil
			}
		}

		l.advance()
		l.emit(TokenPunct, start)
	}

	return nil
}

func (l *lexer) lexIdentifier() {
	l.advance()

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}
}

// stringPrefix returns the length of a literal prefix (r, b, f, u and their
// two-letter combinations) at the current position when it is immediately
// followed by a quote, or zero.
func (l *lexer) stringPrefix() int {
	for n := 1; n <= 2; n++ {
		if l.pos+n >= len(l.input) {
			return 0
		}

		if !strings.ContainsRune("rRbBfFuU", rune(l.input[l.pos+n-1])) {
			return 0
		}

		if q := l.input[l.pos+n]; q == '\'' || q == '"' {
			return n
		}
	}

	return 0
}

func (l *lexer) lexString(start int) error {
	quote := l.input[l.pos : l.pos+1]
	if strings.HasPrefix(l.input[l.pos:], strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}

	l.pos += len(quote)

	for !l.eof() {
		if l.peek() == '\\' {
			l.advance()
			l.advance()

			continue
		}

		if strings.HasPrefix(l.input[l.pos:], quote) {
			l.pos += len(quote)
			l.emit(TokenString, start)

			return nil
		}

		if len(quote) == 1 && l.peek() == '\n' {
			break
		}

		l.advance()
	}

	l.emit(TokenString, start)

	return ErrUnterminated.With(
		slog.Int("offset", start),
		slog.String("literal", l.input[start:l.pos]),
	)
}

func (l *lexer) lexNumber() {
	for !l.eof() {
		ch := l.peek()

		switch {
		case ch == '.' && isIdentifierStart(l.peekAt(l.pos+1)) &&
			!isExponent(l.peekAt(l.pos+1)):
			return

		case ch == '+' || ch == '-':
			prev := l.input[l.pos-1]
			if prev != 'e' && prev != 'E' || isHex(l.input[:l.pos]) {
				return
			}

		case !isIdentifierContinue(ch) && ch != '.':
			return
		}

		l.advance()
	}
}

func isExponent(r rune) bool { return r == 'e' || r == 'E' || r == 'j' }

func isHex(s string) bool {
	i := strings.LastIndexFunc(s, func(r rune) bool {
		return !isIdentifierContinue(r) && r != '.'
	})

	num := strings.ToLower(s[i+1:])

	return strings.HasPrefix(num, "0x")
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
