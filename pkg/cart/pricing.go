package cart

import "strings"

// Promo codes are a closed, case-insensitive table applied at
// checkout. A discount never exceeds the subtotal.

// Discount returns the discount a promo code grants on a subtotal.
// Unrecognized codes grant nothing.
func Discount(code string, subtotal float64) float64 {
	var discount float64
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "SAVE10":
		discount = subtotal * 0.10
	case "LESS20":
		discount = 20.0
	default:
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// FinalTotal computes the payable amount: subtotal minus discount plus
// delivery fee, floored at zero.
func FinalTotal(subtotal, discount, fee float64) float64 {
	total := subtotal - discount + fee
	if total < 0 {
		return 0
	}
	return total
}
