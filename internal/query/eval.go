package query

import (
	"fmt"
	"math"

	"github.com/papapumpkin/qadash/internal/catalog"
)

// function is a built-in callable. Exactly one of num or pred is set.
type function struct {
	num  func(float64) float64
	pred func(float64) bool
}

// functions are the built-ins available in predicate text.
var functions = map[string]function{
	"abs":      {num: math.Abs},
	"isnan":    {pred: math.IsNaN},
	"isfinite": {pred: func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }},
}

// bound is a node compiled against one table. Exactly one of num or cond is
// set; the other field says what the expression yields per row.
type bound struct {
	num  func(row int) float64
	cond func(row int) bool
}

func (b bound) isBool() bool { return b.cond != nil }

// asNum reads booleans as 0 and 1 so arithmetic on flags works.
func (b bound) asNum() func(int) float64 {
	if b.num != nil {
		return b.num
	}
	cond := b.cond
	return func(r int) float64 {
		if cond(r) {
			return 1
		}
		return 0
	}
}

// bind compiles n into per-row closures over t's columns.
func bind(n node, t *catalog.Table) (bound, error) {
	switch n := n.(type) {
	case *numberLit:
		v := n.val
		return bound{num: func(int) float64 { return v }}, nil

	case *boolLit:
		v := n.val
		return bound{cond: func(int) bool { return v }}, nil

	case *ident:
		col, ok := t.Column(n.name)
		if !ok {
			return bound{}, fmt.Errorf("%w %q", ErrUnknownColumn, n.name)
		}
		if col.Kind == catalog.KindBool {
			vals := col.Bools
			return bound{cond: func(r int) bool { return vals[r] }}, nil
		}
		vals := col.Floats
		return bound{num: func(r int) float64 { return vals[r] }}, nil

	case *unaryExpr:
		return bindUnary(n, t)

	case *binaryExpr:
		return bindBinary(n, t)

	case *compareChain:
		return bindChain(n, t)

	case *callExpr:
		return bindCall(n, t)
	}
	return bound{}, fmt.Errorf("%w: unsupported expression at offset %d", ErrSyntax, n.offset())
}

func bindUnary(n *unaryExpr, t *catalog.Table) (bound, error) {
	x, err := bind(n.x, t)
	if err != nil {
		return bound{}, err
	}
	switch n.op {
	case tokNot:
		if !x.isBool() {
			return bound{}, fmt.Errorf("%w: ~ needs a boolean operand at offset %d", ErrType, n.pos)
		}
		cond := x.cond
		return bound{cond: func(r int) bool { return !cond(r) }}, nil
	case tokMinus:
		f := x.asNum()
		return bound{num: func(r int) float64 { return -f(r) }}, nil
	default:
		return bound{num: x.asNum()}, nil
	}
}

func bindBinary(n *binaryExpr, t *catalog.Table) (bound, error) {
	l, err := bind(n.l, t)
	if err != nil {
		return bound{}, err
	}
	r, err := bind(n.r, t)
	if err != nil {
		return bound{}, err
	}

	if n.op == tokAnd || n.op == tokOr {
		if !l.isBool() || !r.isBool() {
			return bound{}, fmt.Errorf("%w: logical operator needs boolean operands at offset %d", ErrType, n.pos)
		}
		a, b := l.cond, r.cond
		if n.op == tokAnd {
			return bound{cond: func(i int) bool { return a(i) && b(i) }}, nil
		}
		return bound{cond: func(i int) bool { return a(i) || b(i) }}, nil
	}

	a, b := l.asNum(), r.asNum()
	var f func(int) float64
	switch n.op {
	case tokPlus:
		f = func(i int) float64 { return a(i) + b(i) }
	case tokMinus:
		f = func(i int) float64 { return a(i) - b(i) }
	case tokStar:
		f = func(i int) float64 { return a(i) * b(i) }
	case tokSlash:
		f = func(i int) float64 { return a(i) / b(i) }
	case tokPercent:
		f = func(i int) float64 { return pyMod(a(i), b(i)) }
	case tokPow:
		f = func(i int) float64 { return math.Pow(a(i), b(i)) }
	default:
		return bound{}, fmt.Errorf("%w: unexpected operator at offset %d", ErrSyntax, n.pos)
	}
	return bound{num: f}, nil
}

// pyMod is floored modulo: the result takes the sign of the divisor.
func pyMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func bindChain(n *compareChain, t *catalog.Table) (bound, error) {
	operands := make([]bound, len(n.operands))
	for i, o := range n.operands {
		b, err := bind(o, t)
		if err != nil {
			return bound{}, err
		}
		operands[i] = b
	}

	links := make([]func(int) bool, len(n.ops))
	for i, op := range n.ops {
		link, err := compareOp(op, operands[i], operands[i+1])
		if err != nil {
			return bound{}, fmt.Errorf("%w at offset %d", err, n.operands[i+1].offset())
		}
		links[i] = link
	}
	if len(links) == 1 {
		return bound{cond: links[0]}, nil
	}
	return bound{cond: func(r int) bool {
		for _, link := range links {
			if !link(r) {
				return false
			}
		}
		return true
	}}, nil
}

func compareOp(op tokenKind, l, r bound) (func(int) bool, error) {
	if l.isBool() && r.isBool() {
		a, b := l.cond, r.cond
		switch op {
		case tokEq:
			return func(i int) bool { return a(i) == b(i) }, nil
		case tokNe:
			return func(i int) bool { return a(i) != b(i) }, nil
		}
	}

	// NaN compares false under every operator except !=.
	a, b := l.asNum(), r.asNum()
	switch op {
	case tokEq:
		return func(i int) bool { return a(i) == b(i) }, nil
	case tokNe:
		return func(i int) bool { return a(i) != b(i) }, nil
	case tokLt:
		return func(i int) bool { return a(i) < b(i) }, nil
	case tokLe:
		return func(i int) bool { return a(i) <= b(i) }, nil
	case tokGt:
		return func(i int) bool { return a(i) > b(i) }, nil
	case tokGe:
		return func(i int) bool { return a(i) >= b(i) }, nil
	}
	return nil, fmt.Errorf("%w: unknown comparison", ErrSyntax)
}

func bindCall(n *callExpr, t *catalog.Table) (bound, error) {
	fn := functions[n.fn]
	arg, err := bind(n.args[0], t)
	if err != nil {
		return bound{}, err
	}
	x := arg.asNum()
	if fn.pred != nil {
		pred := fn.pred
		return bound{cond: func(r int) bool { return pred(x(r)) }}, nil
	}
	num := fn.num
	return bound{num: func(r int) float64 { return num(x(r)) }}, nil
}
