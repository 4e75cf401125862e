package utils

import "strconv"

// FormatPrice formats a price the way the storefront shows it: "$" followed by the shortest decimal form
func FormatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64)
}
