package browser

import "strings"

// IsXPath reports whether sel is an XPath expression.
func IsXPath(sel string) bool {
	return strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "(")
}
