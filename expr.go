package nlsolve

import (
	"strconv"
	"strings"
)

const maxTermVariables = 2

type term struct {
	coef  float64
	vars  [maxTermVariables]int // 0-based variable indexes
	nvars int
}

// Expression is the compiled left-hand side of one equation.
//
//	expr   := [sign] term {('+'|'-') term}
//	term   := factor {'*' factor}
//	factor := number | '(' '-' number ')' | 'x' digits
//
// A term keeps its first two variable factors; any further variable factor is
// accepted and dropped. A kept factor whose index lies beyond the evaluated vector
// contributes 1.
type Expression struct {
	source string
	terms  []term
	maxVar int    // highest 1-based index among kept variable factors
	used   uint16 // bit k set when xk appears, dropped factors included
}

// ParseEquation compiles "<expression> = 0". The right-hand side, when present, must be 0.
func ParseEquation(equation string) (*Expression, error) {
	lhs, rhs, found := strings.Cut(equation, "=")
	if found && normalize(rhs) != "0" {
		return nil, &ParseError{Expr: equation, Pos: len(lhs) + 1, Msg: "right-hand side must be 0"}
	}
	return ParseExpression(lhs)
}

// ParseExpression compiles an expression without an "= 0" suffix.
func ParseExpression(expr string) (*Expression, error) {
	p := &parser{src: normalize(expr)}
	return p.parse()
}

// Evaluate parses expr and evaluates it at x in one step.
func Evaluate(expr string, x []float64) (float64, error) {
	e, err := ParseEquation(expr)
	if err != nil {
		return 0, err
	}
	return e.Evaluate(x), nil
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\t", "")
	return strings.ReplaceAll(s, ",", ".")
}

// MaxVariable returns the highest 1-based variable index among the factors that take
// part in evaluation. Dropped third-or-later factors do not count.
func (e *Expression) MaxVariable() int {
	return e.maxVar
}

// Variables lists the distinct 1-based variable indexes in ascending order.
func (e *Expression) Variables() []int {
	var vars []int
	for k := 1; k <= MaxUnknowns; k++ {
		if e.used&(1<<k) != 0 {
			vars = append(vars, k)
		}
	}
	return vars
}

func (e *Expression) String() string {
	return e.source
}

// Evaluate returns the residual at x. Variables past the end of x are skipped.
func (e *Expression) Evaluate(x []float64) float64 {
	result := 0.0
	for _, t := range e.terms {
		v := t.coef
		for i := 0; i < t.nvars; i++ {
			if idx := t.vars[i]; idx < len(x) {
				v *= x[idx]
			}
		}
		result += v
	}
	return result
}

// Func binds the expression as a FunctionEvaluator.
func (e *Expression) Func() FunctionEvaluator {
	return e.Evaluate
}

type parser struct {
	src  string
	pos  int
	expr Expression
}

func (p *parser) fail(msg string) error {
	return &ParseError{Expr: p.src, Pos: p.pos, Msg: msg}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) parse() (*Expression, error) {
	p.expr.source = p.src
	if p.src == "" {
		return nil, p.fail("empty expression")
	}

	sign := 1.0
	switch p.peek() {
	case '-':
		sign = -1.0
		p.pos++
	case '+':
		p.pos++
	}

	for {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		t.coef *= sign
		p.expr.terms = append(p.expr.terms, t)

		if p.pos >= len(p.src) {
			break
		}

		switch c := p.peek(); c {
		case '+':
			sign = 1.0
		case '-':
			sign = -1.0
		case ')':
			return nil, p.fail("unmatched parenthesis")
		default:
			return nil, p.fail("unexpected character " + strconv.QuoteRune(rune(c)))
		}
		p.pos++
	}

	return &p.expr, nil
}

func (p *parser) parseTerm() (term, error) {
	t := term{coef: 1.0}
	if err := p.parseFactor(&t); err != nil {
		return t, err
	}
	for p.peek() == '*' {
		p.pos++
		if err := p.parseFactor(&t); err != nil {
			return t, err
		}
	}
	return t, nil
}

func (p *parser) parseFactor(t *term) error {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		if p.peek() != '-' {
			return p.fail("expected '-' after '('")
		}
		p.pos++
		v, err := p.parseNumber()
		if err != nil {
			return err
		}
		if p.peek() != ')' {
			return p.fail("unmatched parenthesis")
		}
		p.pos++
		t.coef *= -v

	case isDigit(c) || c == '.':
		v, err := p.parseNumber()
		if err != nil {
			return err
		}
		t.coef *= v

	case c == 'x':
		idx, err := p.parseVariable()
		if err != nil {
			return err
		}
		if t.nvars < maxTermVariables {
			t.vars[t.nvars] = idx - 1
			t.nvars++
			if idx > p.expr.maxVar {
				p.expr.maxVar = idx
			}
		}
		p.expr.used |= 1 << idx

	case c == 0:
		return p.fail("expected a term")

	case c == ')':
		return p.fail("unmatched parenthesis")

	default:
		return p.fail("unexpected character " + strconv.QuoteRune(rune(c)))
	}
	return nil
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	hasDot := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' {
			if hasDot {
				return 0, p.fail("malformed number: second decimal point")
			}
			hasDot = true
		} else if !isDigit(c) {
			break
		}
		p.pos++
	}

	literal := p.src[start:p.pos]
	if literal == "" || literal == "." {
		p.pos = start
		return 0, p.fail("malformed number")
	}
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		p.pos = start
		return 0, p.fail("malformed number " + strconv.Quote(literal))
	}
	return v, nil
}

// parseVariable reads x<digits> and returns the 1-based index.
func (p *parser) parseVariable() (int, error) {
	start := p.pos
	p.pos++ // 'x'
	digits := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == digits {
		p.pos = start
		return 0, p.fail("variable without index")
	}

	name := p.src[start:p.pos]
	idx, err := strconv.Atoi(p.src[digits:p.pos])
	if err != nil || idx < 1 || idx > MaxUnknowns {
		p.pos = start
		return 0, p.fail("variable " + name + " outside x1..x10")
	}
	return idx, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
