package query

import "fmt"

// node is a parsed expression.
type node interface {
	offset() int
}

type numberLit struct {
	pos int
	val float64
}

type boolLit struct {
	pos int
	val bool
}

type ident struct {
	pos  int
	name string
}

type unaryExpr struct {
	pos int
	op  tokenKind // tokMinus, tokPlus or tokNot
	x   node
}

type binaryExpr struct {
	pos  int
	op   tokenKind
	l, r node
}

// compareChain is a < b <= c ..., meaning (a<b) & (b<=c).
type compareChain struct {
	pos      int
	operands []node
	ops      []tokenKind
}

type callExpr struct {
	pos  int
	fn   string
	args []node
}

func (n *numberLit) offset() int    { return n.pos }
func (n *boolLit) offset() int      { return n.pos }
func (n *ident) offset() int        { return n.pos }
func (n *unaryExpr) offset() int    { return n.pos }
func (n *binaryExpr) offset() int   { return n.pos }
func (n *compareChain) offset() int { return n.pos }
func (n *callExpr) offset() int     { return n.pos }

type parser struct {
	toks []token
	i    int
}

// parse parses a complete expression.
func parse(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, syntaxErr(t.pos, fmt.Sprintf("unexpected %q", t.text))
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) parseOr() (node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		op := p.next()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{pos: op.pos, op: tokOr, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseAnd() (node, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		op := p.next()
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{pos: op.pos, op: tokAnd, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseNot() (node, error) {
	if t := p.peek(); t.kind == tokNot {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{pos: t.pos, op: tokNot, x: x}, nil
	}
	return p.parseCompare()
}

func isCompareOp(k tokenKind) bool {
	switch k {
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
		return true
	}
	return false
}

func (p *parser) parseCompare() (node, error) {
	first, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if !isCompareOp(p.peek().kind) {
		return first, nil
	}
	chain := &compareChain{pos: first.offset(), operands: []node{first}}
	for isCompareOp(p.peek().kind) {
		op := p.next()
		r, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		chain.ops = append(chain.ops, op.kind)
		chain.operands = append(chain.operands, r)
	}
	return chain, nil
}

func (p *parser) parseSum() (node, error) {
	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for k := p.peek().kind; k == tokPlus || k == tokMinus; k = p.peek().kind {
		op := p.next()
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{pos: op.pos, op: op.kind, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseTerm() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for k := p.peek().kind; k == tokStar || k == tokSlash || k == tokPercent; k = p.peek().kind {
		op := p.next()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{pos: op.pos, op: op.kind, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseUnary() (node, error) {
	if t := p.peek(); t.kind == tokMinus || t.kind == tokPlus {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{pos: t.pos, op: t.kind, x: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokPow {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binaryExpr{pos: t.pos, op: tokPow, l: base, r: exp}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &numberLit{pos: t.pos, val: t.num}, nil
	case tokTrue:
		return &boolLit{pos: t.pos, val: true}, nil
	case tokFalse:
		return &boolLit{pos: t.pos, val: false}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		return &ident{pos: t.pos, name: t.text}, nil
	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, syntaxErr(c.pos, "expected )")
		}
		return x, nil
	case tokEOF:
		return nil, syntaxErr(t.pos, "unexpected end of expression")
	default:
		return nil, syntaxErr(t.pos, fmt.Sprintf("unexpected %q", t.text))
	}
}

func (p *parser) parseCall(name token) (node, error) {
	p.next() // (
	if _, ok := functions[name.text]; !ok {
		return nil, fmt.Errorf("%w %q at offset %d", ErrUnknownFunction, name.text, name.pos)
	}
	call := &callExpr{pos: name.pos, fn: name.text}
	if p.peek().kind == tokRParen {
		return nil, syntaxErr(name.pos, name.text+"() takes exactly one argument")
	}
	arg, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	call.args = append(call.args, arg)
	if c := p.next(); c.kind != tokRParen {
		return nil, syntaxErr(c.pos, "expected ) after function argument")
	}
	return call, nil
}
