package consolidate

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/campaign-ledger/internal/recognize"
)

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps digits only.
func NormalizePhone(phone string) string {
	return recognize.Digits(phone)
}

// NormalizeName folds a display name into its comparison key:
// "A. Anderson", "a anderson" and "A  ANDERSON" share one key.
func NormalizeName(name string) string {
	s := cases.Fold().String(norm.NFKC.String(name))
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsPunct(r):
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
