// Package consolidate merges order records into customers by email, then
// phone, then normalized name. Records are processed strictly in input order.
package consolidate

import (
	"log/slog"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/diag"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
)

// Result is the output of a consolidation pass.
type Result struct {
	Customers []entity.Customer
	Warnings  []entity.Warning
}

// Engine is the stateful consolidation scan. It is not safe for concurrent use.
type Engine struct {
	customers []*entity.Customer
	byEmail   map[string]int
	byPhone   map[string]int
	byName    map[string]int
	diag      *diag.Collector
	logger    *slog.Logger
}

type matchKind string

const (
	matchNone  matchKind = ""
	matchEmail matchKind = "email"
	matchPhone matchKind = "phone"
	matchName  matchKind = "name"
)

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		byEmail: make(map[string]int),
		byPhone: make(map[string]int),
		byName:  make(map[string]int),
		diag:    diag.NewCollector("", logger),
		logger:  logger,
	}
}

// Consolidate runs a fresh engine over orders.
func Consolidate(orders []entity.OrderRecord, logger *slog.Logger) Result {
	e := NewEngine(logger)
	for _, o := range orders {
		e.Add(o)
	}
	res := e.Result()
	e.logger.Info("consolidation complete",
		"orders", len(orders),
		"customers", len(res.Customers),
		"warnings", len(res.Warnings),
	)
	return res
}

// Add assigns rec to an existing customer or creates a new one.
func (e *Engine) Add(rec entity.OrderRecord) {
	email := NormalizeEmail(rec.Email)
	phone := NormalizePhone(rec.Phone)
	name := NormalizeName(rec.CustomerName)

	idx, via := e.match(email, phone, name)
	if via == matchNone {
		idx = len(e.customers)
		e.customers = append(e.customers, &entity.Customer{CanonicalName: rec.CustomerName})
	} else if via == matchName {
		c := e.customers[idx]
		e.diag.AddIn(rec.Document, constants.WarningNameOnlyMatch, rec.BlockIndex,
			[]string{c.Orders[0].OrderID, rec.OrderID},
			"order %s (%s) merged into %q by name only; first order %s",
			rec.OrderID, rec.CustomerName, c.CanonicalName, c.Orders[0].OrderID)
	}

	c := e.customers[idx]
	c.Orders = append(c.Orders, rec)
	c.TotalUnits += rec.UnitCount
	c.Names = appendDistinct(c.Names, rec.CustomerName)
	if email != "" {
		c.Emails = appendDistinct(c.Emails, email)
		e.index(e.byEmail, email, idx, rec, "email")
	}
	if phone != "" {
		c.Phones = appendDistinct(c.Phones, phone)
		e.index(e.byPhone, phone, idx, rec, "phone")
	}
	if name != "" {
		if _, ok := e.byName[name]; !ok {
			e.byName[name] = idx
		}
	}

	e.logger.Debug("order consolidated",
		"order_id", rec.OrderID,
		"document", rec.Document,
		"customer", c.CanonicalName,
		"via", string(via),
	)
}

// match applies the priority email > phone > name. The first key present on
// the record that hits an existing customer decides, even when a lower
// priority key points somewhere else.
func (e *Engine) match(email, phone, name string) (int, matchKind) {
	if email != "" {
		if i, ok := e.byEmail[email]; ok {
			return i, matchEmail
		}
	}
	if phone != "" {
		if i, ok := e.byPhone[phone]; ok {
			return i, matchPhone
		}
	}
	if name != "" {
		if i, ok := e.byName[name]; ok {
			return i, matchName
		}
	}
	return -1, matchNone
}

// index points value at customer idx unless another customer already owns
// it, in which case the earlier owner is kept and the conflict reported.
func (e *Engine) index(m map[string]int, value string, idx int, rec entity.OrderRecord, field string) {
	owner, ok := m[value]
	if !ok {
		m[value] = idx
		return
	}
	if owner == idx {
		return
	}
	other := e.customers[owner]
	e.diag.AddIn(rec.Document, constants.WarningContactConflict, rec.BlockIndex,
		[]string{rec.OrderID, other.Orders[0].OrderID},
		"order %s %s %s already belongs to %q; lookups keep pointing there",
		rec.OrderID, field, value, other.CanonicalName)
}

// Result snapshots the customers in first-appearance order.
func (e *Engine) Result() Result {
	out := make([]entity.Customer, len(e.customers))
	for i, c := range e.customers {
		cp := *c
		cp.Names = append([]string(nil), c.Names...)
		cp.Emails = append([]string(nil), c.Emails...)
		cp.Phones = append([]string(nil), c.Phones...)
		cp.Orders = append([]entity.OrderRecord(nil), c.Orders...)
		out[i] = cp
	}
	return Result{Customers: out, Warnings: e.diag.Warnings()}
}

func appendDistinct(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}
