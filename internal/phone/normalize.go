// Package phone reformats loosely typed contact numbers for the messaging provider.
package phone

import "strings"

// Normalize turns a contact number into "+<digits>" form. It is a best-effort
// reformat, not a validator:
//
//	""              -> ""
//	"63-9171234567" -> "+639171234567" (split on the first dash only)
//	"+639171234567" -> unchanged
//	"639171234567"  -> "+639171234567"
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if country, rest, ok := strings.Cut(raw, "-"); ok {
		return "+" + strings.TrimPrefix(country, "+") + rest
	}
	if strings.HasPrefix(raw, "+") {
		return raw
	}
	return "+" + raw
}
