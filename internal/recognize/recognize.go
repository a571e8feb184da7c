// Package recognize holds stateless line recognizers shared by the format
// parsers. Every function is total: it never panics and reports a miss with ok=false.
package recognize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	reEmail    = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[A-Za-z]{2,}`)
	reEmailEnd = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)
	rePhone    = regexp.MustCompile(`^[\d\-() ]+$`)
	reInteger  = regexp.MustCompile(`^\d+$`)
	reProduct  = regexp.MustCompile(`^(.*\S)\s*\(([^()]+)\)$`)
	reMoney    = regexp.MustCompile(`^-?\$?\s?(\d{1,3}(,\d{3})+|\d+)(\.\d{1,2})?$`)
	reNameChar = regexp.MustCompile(`^[\p{L}][\p{L}\p{M} .'\-]*$`)
)

// Email returns the address found in line.
func Email(line string) (string, bool) {
	m := reEmail.FindString(line)
	if m == "" {
		return "", false
	}
	m = strings.Trim(m, "<>(),;:")
	if !reEmailEnd.MatchString(m) {
		return "", false
	}
	return m, true
}

// Phone matches a line made only of digits and separators with 10 or 11 digits.
// Lines carrying a currency marker or the order word are rejected.
func Phone(line, orderWord string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" || strings.Contains(s, "$") {
		return "", false
	}
	if orderWord != "" && strings.Contains(s, orderWord) {
		return "", false
	}
	if !rePhone.MatchString(s) {
		return "", false
	}
	n := len(Digits(s))
	if n < 10 || n > 11 {
		return "", false
	}
	return s, true
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OrderID matches "<label> <digits>" and returns the digits.
func OrderID(line, label string) (string, bool) {
	rest, ok := LabeledValue(line, label)
	if !ok {
		return "", false
	}
	rest = strings.TrimPrefix(rest, "#")
	if !reInteger.MatchString(rest) {
		return "", false
	}
	return rest, true
}

// LabeledValue returns the trimmed remainder of a line starting with label.
func LabeledValue(line, label string) (string, bool) {
	s := strings.TrimSpace(line)
	if label == "" || !strings.HasPrefix(s, label) {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(s, label))
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Status matches a line that is exactly one of the configured tokens,
// ignoring case. It returns the boolean the token stands for.
func Status(line string, trueTokens, falseTokens []string) (bool, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return false, false
	}
	for _, t := range trueTokens {
		if strings.EqualFold(s, t) {
			return true, true
		}
	}
	for _, t := range falseTokens {
		if strings.EqualFold(s, t) {
			return false, true
		}
	}
	return false, false
}

// MaxQuantity bounds any quantity read from a document.
const MaxQuantity = 100000

// StandaloneQuantity matches a line that is purely a non-negative integer
// no larger than MaxQuantity.
func StandaloneQuantity(line string) (int, bool) {
	s := strings.TrimSpace(line)
	if !reInteger.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxQuantity {
		return 0, false
	}
	return n, true
}

// Quantity converts a numeric field to a quantity under the same rules as
// StandaloneQuantity.
func Quantity(d decimal.Decimal) (int, bool) {
	if !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// Product matches "ProductName (SKU)".
func Product(line string) (name, sku string, ok bool) {
	m := reProduct.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	name = strings.TrimSpace(m[1])
	sku = strings.TrimSpace(m[2])
	if name == "" || sku == "" {
		return "", "", false
	}
	return name, sku, true
}

// Money parses a standalone amount such as "15.99", "$1,234.56" or "12".
func Money(line string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(line)
	if !reMoney.MatchString(s) {
		return decimal.Decimal{}, false
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// NumericFields returns every whitespace separated token of line that parses
// as money, in order. Non-numeric tokens such as labels are skipped.
func NumericFields(line string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, tok := range strings.Fields(line) {
		if d, ok := Money(tok); ok {
			out = append(out, d)
		}
	}
	return out
}

// LabeledCount matches "<label> N [STATUS]", e.g. "# OF BOXES: 5  PAID".
// status is the trailing token, empty when absent.
func LabeledCount(line, label string) (count int, status string, ok bool) {
	rest, found := LabeledValue(line, label)
	if !found {
		return 0, "", false
	}
	fields := strings.Fields(rest)
	n, isInt := StandaloneQuantity(fields[0])
	if !isInt {
		return 0, "", false
	}
	if len(fields) > 1 {
		status = strings.Join(fields[1:], " ")
	}
	return n, status, true
}

// NameCandidate accepts lines made of letters, spaces, periods, apostrophes
// and hyphens, starting with a letter. "A. Anderson" and "CAROL CARTER" pass;
// product lines, amounts and labeled lines do not.
func NameCandidate(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || !reNameChar.MatchString(s) {
		return false
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}
