// Package price turns loosely formatted catalog price labels into numbers.
package price

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Alturino/journey/cart/pkg/model"
)

// Parse keeps only ASCII digits and '.' from label and reads the rest as a
// decimal. Anything that does not parse, including an empty remainder, is
// zero. Signs are stripped along with everything else, so the result is
// never negative.
func Parse(label string) decimal.Decimal {
	var b strings.Builder
	for _, r := range label {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Total sums Parse(price) times the guest count of every item.
func Total(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(Parse(item.Price).Mul(decimal.NewFromInt(int64(item.GuestCount()))))
	}
	return total
}
