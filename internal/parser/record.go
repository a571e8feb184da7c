package parser

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/diag"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/lines"
	"github.com/joseph-ayodele/campaign-ledger/internal/recognize"
)

// recordParser handles documents holding one order per page or per marker-led
// record. The seller named in the composite header is the identity subject.
type recordParser struct {
	ts        TokenSet
	markerKey string
	columnKey string
	header    *recognize.HeaderMatcher
	logger    *slog.Logger
}

func newRecordParser(ts TokenSet, logger *slog.Logger) *recordParser {
	return &recordParser{
		ts:        ts,
		markerKey: key(ts.RecordMarker),
		columnKey: key(ts.ColumnHeader),
		header:    recognize.NewHeaderMatcher(ts.HeaderOrderLabel, ts.HeaderSellerLabel),
		logger:    logger,
	}
}

func (p *recordParser) Format() constants.Format { return p.ts.Format }

func (p *recordParser) Parse(documentID string, ls []lines.Line) Result {
	col := diag.NewCollector(documentID, p.logger)
	records := p.split(ls)

	seen := make(map[string]int)
	var orders []entity.OrderRecord
	for i, r := range records {
		rec, ok := p.parseRecord(documentID, i, r, col)
		if !ok {
			continue
		}
		if first, dup := seen[rec.OrderID]; dup {
			col.Add(constants.WarningMalformedBlock, i, []string{rec.OrderID},
				"record %d dropped: order id %s already used by record %d", i, rec.OrderID, first)
			continue
		}
		seen[rec.OrderID] = i
		orders = append(orders, rec)
	}

	if len(orders) == 0 {
		col.Add(constants.WarningEmptyDocument, -1, nil,
			"no valid records found (%d candidate records)", len(records))
	}
	return Result{Orders: orders, Warnings: col.Warnings()}
}

// split starts a new record at every page break and at every marker line.
// The marker itself is not part of the record; records without content are
// dropped, so a page break followed by the marker opens a single record.
func (p *recordParser) split(ls []lines.Line) [][]lines.Line {
	var records [][]lines.Line
	var cur []lines.Line

	flush := func() {
		if hasContent(cur) {
			records = append(records, cur)
		}
		cur = nil
	}

	for _, l := range ls {
		isMarker := p.markerKey != "" && l.Key == p.markerKey
		if l.PageBreak || isMarker {
			flush()
		}
		if isMarker {
			continue
		}
		cur = append(cur, l)
	}
	flush()
	return records
}

func hasContent(ls []lines.Line) bool {
	for _, l := range ls {
		if !l.Blank {
			return true
		}
	}
	return false
}

func (p *recordParser) parseRecord(documentID string, idx int, r []lines.Line, col *diag.Collector) (entity.OrderRecord, bool) {
	first := nextContent(r, 0)
	h, ok := p.header.Match(r[first].Key)
	if !ok {
		col.Add(constants.WarningMalformedBlock, idx, nil,
			"record %d dropped: %q is not a buyer/order/seller header", idx, r[first].Text)
		return entity.OrderRecord{}, false
	}

	var (
		phone              string
		item               *entity.LineItem
		qtyFound           bool
		paid, paymentKnown bool
	)

	for _, l := range r[first+1:] {
		if l.Blank || (p.columnKey != "" && l.Key == p.columnKey) {
			continue
		}
		k := l.Key

		if p.ts.PhoneLabel != "" && strings.HasPrefix(k, p.ts.PhoneLabel) {
			if v, ok := recognize.LabeledValue(k, p.ts.PhoneLabel); ok {
				if ph, ok := recognize.Phone(v, p.ts.OrderWord); ok && phone == "" {
					phone = ph
				}
			}
			continue
		}
		if p.isPriceLine(k, item != nil) {
			if item == nil {
				continue
			}
			if qtyFound {
				col.Add(constants.WarningIncompleteLineItem, idx, []string{h.OrderID},
					"record %d: extra price line %q ignored", idx, l.Text)
				continue
			}
			qty, price, subtotal, status, ok := p.readPriceLine(k)
			if !ok {
				col.Add(constants.WarningIncompleteLineItem, idx, []string{h.OrderID},
					"record %d: price line %q has no usable quantity", idx, l.Text)
				continue
			}
			item.Quantity = qty
			item.UnitPrice = price
			item.Subtotal = subtotal
			qtyFound = true
			if status != nil && !paymentKnown {
				paid, paymentKnown = *status, true
			}
			continue
		}
		if name, sku, ok := recognize.Product(k); ok {
			if item != nil {
				col.Add(constants.WarningIncompleteLineItem, idx, []string{h.OrderID},
					"record %d: extra product line %q ignored", idx, l.Text)
				continue
			}
			item = &entity.LineItem{ProductName: name, SKU: sku}
			continue
		}
		if v, ok := recognize.Status(k, p.ts.PaidTokens, p.ts.UnpaidTokens); ok {
			if !paymentKnown {
				paid, paymentKnown = v, true
			}
			continue
		}
	}

	if item == nil || !qtyFound {
		col.Add(constants.WarningMalformedBlock, idx, []string{h.OrderID},
			"record %d dropped: order %s has no product with a quantity", idx, h.OrderID)
		return entity.OrderRecord{}, false
	}

	rec := entity.OrderRecord{
		Document:     documentID,
		BlockIndex:   idx,
		OrderID:      h.OrderID,
		CustomerName: h.Seller,
		BuyerName:    h.Buyer,
		BuyerPhone:   phone,
		LineItems:    []entity.LineItem{*item},
		UnitCount:    item.Quantity,
		Paid:         paid,
		PaymentKnown: paymentKnown,
	}

	if phone == "" {
		col.Add(constants.WarningMissingContact, idx, []string{h.OrderID},
			"order %s (buyer %s) has no phone line", h.OrderID, h.Buyer)
	}
	if !paymentKnown {
		col.Add(constants.WarningMissingPaymentStatus, idx, []string{h.OrderID},
			"order %s has no payment status; treated as unpaid", h.OrderID)
	}
	return rec, true
}

// isPriceLine accepts the labeled price line, or once a product has been
// seen, any line with at least two numeric fields.
func (p *recordParser) isPriceLine(k string, afterProduct bool) bool {
	if p.ts.PriceLabel != "" && strings.HasPrefix(k, p.ts.PriceLabel) {
		return true
	}
	return afterProduct && len(recognize.NumericFields(k)) >= 2
}

// readPriceLine reads "Price: $10.99 3 $32.97 $32.97 [YES|NO]". The quantity
// is the second numeric field; the first is the unit price and the third the
// subtotal.
func (p *recordParser) readPriceLine(k string) (qty int, price, subtotal *decimal.Decimal, status *bool, ok bool) {
	fields := recognize.NumericFields(k)
	if len(fields) < 2 {
		return 0, nil, nil, nil, false
	}
	qty, ok = recognize.Quantity(fields[1])
	if !ok {
		return 0, nil, nil, nil, false
	}
	unit := fields[0]
	price = &unit
	if len(fields) > 2 {
		sub := fields[2]
		subtotal = &sub
	}

	toks := strings.Fields(k)
	if v, known := recognize.Status(toks[len(toks)-1], p.ts.PaidTokens, p.ts.UnpaidTokens); known {
		status = &v
	}
	return qty, price, subtotal, status, true
}
