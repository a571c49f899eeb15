package symbols

import (
	"strings"
)

// exchange prefixes stripped from pasted symbols
var exchangePrefixes = []string{"NASDAQ:", "NYSE:"}

// Parse splits bulk input on commas, semicolons, tabs and newlines into
// uppercase symbols. Exchange prefixes are removed and duplicates dropped,
// keeping first occurrence order.
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', '\t', '\n', '\r':
			return true
		}
		return false
	})

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		sym := Normalize(f)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// Normalize uppercases a symbol and strips a known exchange prefix
func Normalize(sym string) string {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	for _, prefix := range exchangePrefixes {
		sym = strings.TrimPrefix(sym, prefix)
	}
	return strings.TrimSpace(sym)
}

// IsValidSymbol checks if a symbol looks like a standard ticker
func IsValidSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 10 {
		return false
	}
	for _, c := range symbol {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '.' || c == '-') {
			return false
		}
	}
	return true
}
