package parser

import (
	"strings"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
)

// Strategy is how a document is cut into order blocks.
type Strategy string

const (
	// StrategySection splits on a repeated section header and stops at a summary header.
	StrategySection Strategy = "section"
	// StrategyRecord splits on page breaks or a record marker line.
	StrategyRecord Strategy = "record"
)

// TokenSet is the literal vocabulary of one source format. Matching of
// headers and labels is case-sensitive and whitespace-collapsed; status
// tokens are matched case-insensitively.
type TokenSet struct {
	Format   constants.Format `json:"format"`
	Strategy Strategy         `json:"strategy"`

	// section strategy
	SectionHeader string `json:"section_header,omitempty"`
	SummaryHeader string `json:"summary_header,omitempty"`
	OrderIDLabel  string `json:"order_id_label,omitempty"`
	CountLabel    string `json:"count_label,omitempty"`

	// record strategy
	RecordMarker      string `json:"record_marker,omitempty"`
	HeaderOrderLabel  string `json:"header_order_label,omitempty"`
	HeaderSellerLabel string `json:"header_seller_label,omitempty"`
	PhoneLabel        string `json:"phone_label,omitempty"`
	PriceLabel        string `json:"price_label,omitempty"`

	// shared
	OrderWord    string   `json:"order_word,omitempty"`
	ColumnHeader string   `json:"column_header,omitempty"`
	PaidTokens   []string `json:"paid_tokens"`
	UnpaidTokens []string `json:"unpaid_tokens"`
}

// JDSweidTokens is the section-delimited supporter report.
func JDSweidTokens() TokenSet {
	return TokenSet{
		Format:        constants.JDSweid,
		Strategy:      StrategySection,
		SectionHeader: "SUPPORTER PRODUCTS ORDERED",
		SummaryHeader: "PRODUCTS ORDERED SUMMARY",
		OrderIDLabel:  "Order ID:",
		CountLabel:    "# OF BOXES:",
		OrderWord:     "Order",
		ColumnHeader:  "QTY UNIT PRICE SUBTOTAL",
		PaidTokens:    []string{"PAID"},
		UnpaidTokens:  []string{"UNPAID"},
	}
}

// LittleCaesarsTokens is the one-record-per-page group delivery report.
func LittleCaesarsTokens() TokenSet {
	return TokenSet{
		Format:            constants.LittleCaesars,
		Strategy:          StrategyRecord,
		RecordMarker:      "Group Delivery",
		HeaderOrderLabel:  "Order #",
		HeaderSellerLabel: "Seller Name:",
		PhoneLabel:        "Phone #:",
		PriceLabel:        "Price:",
		OrderWord:         "Order",
		ColumnHeader:      "PRODUCT NAME QTY PRICE SUBTOTAL",
		PaidTokens:        []string{"YES"},
		UnpaidTokens:      []string{"NO"},
	}
}

// Validate checks that the tokens required by the strategy are present.
func (ts TokenSet) Validate() error {
	v := common.NewValidator().
		Field("format", string(ts.Format), common.Required).
		Field("strategy", string(ts.Strategy), common.OneOf(string(StrategySection), string(StrategyRecord))).
		Field("paid_tokens", ts.PaidTokens, common.NonEmpty).
		Field("unpaid_tokens", ts.UnpaidTokens, common.NonEmpty)

	switch ts.Strategy {
	case StrategySection:
		v.Field("section_header", ts.SectionHeader, common.Required).
			Field("order_id_label", ts.OrderIDLabel, common.Required)
	case StrategyRecord:
		v.Field("header_order_label", ts.HeaderOrderLabel, common.Required).
			Field("header_seller_label", ts.HeaderSellerLabel, common.Required)
	}
	if err := v.Error(); err != nil {
		return common.NewAppError(common.CodeTokenSet, string(ts.Format), err)
	}
	return nil
}

// key collapses whitespace the same way lines.Line.Key does.
func key(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
