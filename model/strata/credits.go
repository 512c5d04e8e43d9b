package strata

import "fmt"

// Credits is the platform's internal fee-accounting unit.
type Credits uint64

// ErrCreditsOverflow is returned by checked credit arithmetic. Overflow on
// credits is always a hard error: wrapping silently would let two nodes
// disagree on a balance.
type ErrCreditsOverflow struct {
	A, B Credits
	Op   string
}

func (e ErrCreditsOverflow) Error() string {
	return fmt.Sprintf("credits overflow: %d %s %d", e.A, e.Op, e.B)
}

// CheckedAdd returns a+b, erroring on overflow.
func (c Credits) CheckedAdd(other Credits) (Credits, error) {
	sum := c + other
	if sum < c {
		return 0, ErrCreditsOverflow{A: c, B: other, Op: "+"}
	}
	return sum, nil
}

// CheckedSub returns a-b, erroring on underflow.
func (c Credits) CheckedSub(other Credits) (Credits, error) {
	if other > c {
		return 0, ErrCreditsOverflow{A: c, B: other, Op: "-"}
	}
	return c - other, nil
}

// CheckedMul returns a*b, erroring on overflow.
func (c Credits) CheckedMul(other Credits) (Credits, error) {
	if c == 0 || other == 0 {
		return 0, nil
	}
	prod := c * other
	if prod/c != other {
		return 0, ErrCreditsOverflow{A: c, B: other, Op: "*"}
	}
	return prod, nil
}
