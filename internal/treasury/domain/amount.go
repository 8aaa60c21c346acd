// Package domain holds the pure treasury types and arithmetic.
//
// Amounts are unsigned fixed-point values with 18 decimal places, carried as
// *big.Int. All arithmetic floors, and every helper treats its inputs as
// immutable.
package domain

import (
	"fmt"
	"math/big"
)

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10000

// MaxProtocolFeeBps caps the protocol fee at 5%.
const MaxProtocolFeeBps = 500

// Scale is the fixed-point unit: one whole token is 1e18.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Zero returns a fresh zero-valued amount.
func Zero() *big.Int {
	return new(big.Int)
}

// Clone returns an independent copy of v, treating nil as zero.
func Clone(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// ValidAmount reports whether v is a usable non-negative amount.
func ValidAmount(v *big.Int) bool {
	return v != nil && v.Sign() >= 0
}

// ParseAmount parses a base-10 amount string, rejecting negatives.
func ParseAmount(value string) (*big.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", value)
	}
	if parsed.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", value)
	}
	return parsed, nil
}

// FormatAmount renders an amount as a base-10 string, treating nil as zero.
func FormatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// ApplyBps returns floor(amount * bps / 10000).
func ApplyBps(amount *big.Int, bps uint32) *big.Int {
	if amount == nil || amount.Sign() <= 0 || bps == 0 {
		return new(big.Int)
	}
	product := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return product.Div(product, big.NewInt(BpsDenominator))
}

// Min returns a copy of the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return Clone(a)
	}
	return Clone(b)
}

// Isqrt returns floor(sqrt(x)) via the Babylonian iteration.
//
// The loop starts at (x+1)/2 and halves the error each step, so it converges
// in O(log x) iterations. The result feeds minting, so the exact sequence of
// integer divisions matters: same input, same output, on every platform.
func Isqrt(x *big.Int) *big.Int {
	if x == nil || x.Sign() <= 0 {
		return new(big.Int)
	}
	one := big.NewInt(1)
	if x.Cmp(big.NewInt(3)) <= 0 {
		return one
	}

	z := new(big.Int).Add(x, one)
	z.Rsh(z, 1)
	y := new(big.Int).Set(x)
	for z.Cmp(y) < 0 {
		y.Set(z)
		quot := new(big.Int).Div(x, z)
		z.Add(quot, z)
		z.Rsh(z, 1)
	}
	return y
}
