package helpers

import "fmt"

// FormatEuro formats an amount as euros with thousand separators and two
// decimal places, the way invoices leave the office ("€ 1.234,56").
func FormatEuro(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	// Convert to string and add thousand separators
	str := fmt.Sprintf("%d", whole)
	length := len(str)

	var result string
	if length <= 3 {
		result = str
	} else {
		for i, digit := range str {
			if i > 0 && (length-i)%3 == 0 {
				result += "."
			}
			result += string(digit)
		}
	}

	if negative {
		return fmt.Sprintf("€ -%s,%02d", result, frac)
	}
	return fmt.Sprintf("€ %s,%02d", result, frac)
}
