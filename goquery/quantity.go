package goquery

import (
	"strconv"
	"strings"

	"github.com/fwojciec/gridscrape"
)

// ParseQuantity reads the integer at the start of the first
// whitespace-delimited token of s. Trailing units attached to the number
// are ignored, so "12U spare" and "12HP" both yield 12. Text without a
// leading integer, or with a decimal number, yields Unknown.
func ParseQuantity(s string) gridscrape.Quantity {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return gridscrape.Unknown
	}
	token := fields[0]

	end := 0
	if token[0] == '+' || token[0] == '-' {
		end = 1
	}
	digits := end
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == digits {
		return gridscrape.Unknown
	}
	// "1.5" or "1,5" is not an integer quantity.
	if end+1 < len(token) && (token[end] == '.' || token[end] == ',') && isDigit(token[end+1]) {
		return gridscrape.Unknown
	}

	n, err := strconv.Atoi(token[:end])
	if err != nil {
		return gridscrape.Unknown
	}
	return gridscrape.Known(n)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
