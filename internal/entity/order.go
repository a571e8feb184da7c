package entity

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product row of an order. Prices are best-effort.
type LineItem struct {
	ProductName string           `json:"product_name"`
	SKU         string           `json:"sku"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Subtotal    *decimal.Decimal `json:"subtotal,omitempty"`
}

// OrderRecord is one purchase event recovered from a source document.
// CustomerName is the identity subject used for consolidation: the person
// in a section block, or the seller named in a record header.
type OrderRecord struct {
	Document      string     `json:"document"`
	BlockIndex    int        `json:"block_index"`
	OrderID       string     `json:"order_id"`
	CustomerName  string     `json:"customer_name"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	BuyerName     string     `json:"buyer_name,omitempty"`
	BuyerPhone    string     `json:"buyer_phone,omitempty"`
	LineItems     []LineItem `json:"line_items"`
	UnitCount     int        `json:"unit_count"`
	DeclaredUnits *int       `json:"declared_units,omitempty"`
	Paid          bool       `json:"paid"`
	PaymentKnown  bool       `json:"payment_known"`
}

// SumQuantities returns the total quantity across line items.
func SumQuantities(items []LineItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// HasContact reports whether the record carries an identity-grade email or phone.
func (o OrderRecord) HasContact() bool {
	return o.Email != "" || o.Phone != ""
}
