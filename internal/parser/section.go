package parser

import (
	"log/slog"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/diag"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/lines"
	"github.com/joseph-ayodele/campaign-ledger/internal/recognize"
)

// sectionParser handles documents made of repeated header-led sections,
// one order per section, followed by a summary section that is ignored.
type sectionParser struct {
	ts         TokenSet
	sectionKey string
	summaryKey string
	columnKey  string
	logger     *slog.Logger
}

func newSectionParser(ts TokenSet, logger *slog.Logger) *sectionParser {
	return &sectionParser{
		ts:         ts,
		sectionKey: key(ts.SectionHeader),
		summaryKey: key(ts.SummaryHeader),
		columnKey:  key(ts.ColumnHeader),
		logger:     logger,
	}
}

func (p *sectionParser) Format() constants.Format { return p.ts.Format }

func (p *sectionParser) Parse(documentID string, ls []lines.Line) Result {
	col := diag.NewCollector(documentID, p.logger)
	blocks := p.split(ls)

	seen := make(map[string]int)
	var orders []entity.OrderRecord
	for i, b := range blocks {
		rec, ok := p.parseBlock(documentID, i, b, col)
		if !ok {
			continue
		}
		if first, dup := seen[rec.OrderID]; dup {
			col.Add(constants.WarningMalformedBlock, i, []string{rec.OrderID},
				"block %d dropped: order id %s already used by block %d", i, rec.OrderID, first)
			continue
		}
		seen[rec.OrderID] = i
		orders = append(orders, rec)
	}

	if len(orders) == 0 {
		col.Add(constants.WarningEmptyDocument, -1, nil,
			"no valid order blocks found (%d candidate blocks)", len(blocks))
	}
	return Result{Orders: orders, Warnings: col.Warnings()}
}

// split cuts the stream at every section header. Lines before the first
// header are preamble; the summary header ends the scan.
func (p *sectionParser) split(ls []lines.Line) [][]lines.Line {
	var blocks [][]lines.Line
	var cur []lines.Line
	started := false
	for _, l := range ls {
		if p.summaryKey != "" && l.Key == p.summaryKey {
			break
		}
		if l.Key == p.sectionKey {
			if started {
				blocks = append(blocks, cur)
			}
			cur = nil
			started = true
			continue
		}
		if started {
			cur = append(cur, l)
		}
	}
	if started {
		blocks = append(blocks, cur)
	}
	return blocks
}

func (p *sectionParser) parseBlock(documentID string, idx int, b []lines.Line, col *diag.Collector) (entity.OrderRecord, bool) {
	var (
		name, email, phone, orderID string
		items                       []entity.LineItem
		declared                    *int
		paid, paymentKnown          bool
		// set at the order id or column header line; the customer name is
		// the first unclaimed line before it
		inItems bool
	)

	for j := 0; j < len(b); j++ {
		l := b[j]
		if l.Blank {
			continue
		}
		if p.columnKey != "" && l.Key == p.columnKey {
			inItems = true
			continue
		}
		k := l.Key

		if id, ok := recognize.OrderID(k, p.ts.OrderIDLabel); ok {
			if orderID == "" {
				orderID = id
			}
			inItems = true
			continue
		}
		if p.ts.CountLabel != "" {
			if n, status, ok := recognize.LabeledCount(k, p.ts.CountLabel); ok {
				if declared == nil {
					declared = &n
					if v, known := recognize.Status(status, p.ts.PaidTokens, p.ts.UnpaidTokens); known {
						paid, paymentKnown = v, true
					}
				}
				continue
			}
		}
		if e, ok := recognize.Email(k); ok {
			if email == "" {
				email = e
			}
			continue
		}
		if ph, ok := recognize.Phone(k, p.ts.OrderWord); ok {
			if phone == "" {
				phone = ph
			}
			continue
		}
		if !inItems {
			if name == "" {
				name = l.Text
			}
			continue
		}
		if pname, sku, ok := recognize.Product(k); ok {
			item, last, ok := readSectionItem(b, j, pname, sku)
			if !ok {
				col.Add(constants.WarningIncompleteLineItem, idx, []string{orderID},
					"block %d: product %q has no quantity line; item skipped", idx, l.Text)
				continue
			}
			items = append(items, item)
			j = last
			continue
		}
		if v, ok := recognize.Status(k, p.ts.PaidTokens, p.ts.UnpaidTokens); ok {
			if !paymentKnown {
				paid, paymentKnown = v, true
			}
			continue
		}
		// no name line before the order id: accept a late one only if it reads like a name
		if name == "" && recognize.NameCandidate(k) {
			name = l.Text
		}
	}

	v := common.NewValidator().
		Field("order_id", orderID, common.Required).
		Field("customer_name", name, common.Required).
		Field("line_items", items, common.NonEmpty)
	if v.HasErrors() {
		col.Add(constants.WarningMalformedBlock, idx, []string{orderID},
			"block %d dropped: %s", idx, v.ErrorMessage())
		return entity.OrderRecord{}, false
	}

	rec := entity.OrderRecord{
		Document:      documentID,
		BlockIndex:    idx,
		OrderID:       orderID,
		CustomerName:  name,
		Email:         email,
		Phone:         phone,
		LineItems:     items,
		UnitCount:     entity.SumQuantities(items),
		DeclaredUnits: declared,
		Paid:          paid,
		PaymentKnown:  paymentKnown,
	}

	if declared != nil && *declared != rec.UnitCount {
		col.Add(constants.WarningUnitCountMismatch, idx, []string{orderID},
			"order %s: declared %d units but line items sum to %d", orderID, *declared, rec.UnitCount)
	}
	if !rec.HasContact() {
		col.Add(constants.WarningMissingContact, idx, []string{orderID},
			"order %s (%s) has neither email nor phone", orderID, name)
	}
	if !paymentKnown {
		col.Add(constants.WarningMissingPaymentStatus, idx, []string{orderID},
			"order %s has no payment status; treated as unpaid", orderID)
	}
	return rec, true
}

// readSectionItem reads the two-line item convention starting at the product
// line b[at]: the next content line is the quantity, then up to two optional
// amount lines (unit price, subtotal). It returns the index of the last line consumed.
func readSectionItem(b []lines.Line, at int, name, sku string) (entity.LineItem, int, bool) {
	next := nextContent(b, at+1)
	if next < 0 {
		return entity.LineItem{}, at, false
	}
	qty, ok := recognize.StandaloneQuantity(b[next].Key)
	if !ok {
		return entity.LineItem{}, at, false
	}
	item := entity.LineItem{ProductName: name, SKU: sku, Quantity: qty}
	last := next

	if i := nextContent(b, last+1); i >= 0 {
		if d, ok := recognize.Money(b[i].Key); ok {
			item.UnitPrice = &d
			last = i
			if k := nextContent(b, last+1); k >= 0 {
				if d2, ok := recognize.Money(b[k].Key); ok {
					item.Subtotal = &d2
					last = k
				}
			}
		}
	}
	return item, last, true
}

// nextContent returns the index of the first non-blank line at or after from, or -1.
func nextContent(b []lines.Line, from int) int {
	for i := from; i < len(b); i++ {
		if !b[i].Blank {
			return i
		}
	}
	return -1
}
