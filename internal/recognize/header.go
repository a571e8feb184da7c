package recognize

import (
	"regexp"
	"strings"
)

// CompositeHeader is the parsed form of "Buyer (Order #123, Seller Name: Seller)".
type CompositeHeader struct {
	Buyer   string
	OrderID string
	Seller  string
}

// HeaderMatcher recognizes composite record headers built from two labels.
type HeaderMatcher struct {
	re *regexp.Regexp
}

// NewHeaderMatcher compiles a matcher for the given order and seller labels,
// e.g. "Order #" and "Seller Name:".
func NewHeaderMatcher(orderLabel, sellerLabel string) *HeaderMatcher {
	pattern := `^(.*\S)\s*\(\s*` + regexp.QuoteMeta(orderLabel) + `\s*(\d+)\s*,\s*` +
		regexp.QuoteMeta(sellerLabel) + `\s*(.*\S)\s*\)$`
	return &HeaderMatcher{re: regexp.MustCompile(pattern)}
}

// Match extracts buyer, order id and seller in one pass.
func (h *HeaderMatcher) Match(line string) (CompositeHeader, bool) {
	if h == nil || h.re == nil {
		return CompositeHeader{}, false
	}
	m := h.re.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return CompositeHeader{}, false
	}
	return CompositeHeader{
		Buyer:   strings.TrimSpace(m[1]),
		OrderID: m[2],
		Seller:  strings.TrimSpace(m[3]),
	}, true
}
