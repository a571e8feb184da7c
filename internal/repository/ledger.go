package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
)

// DocumentSummary is the per-document line of a run.
type DocumentSummary struct {
	DocumentID string `db:"document_id"`
	Format     string `db:"format"`
	HashHex    string `db:"hash_hex"`
	Orders     int    `db:"orders"`
	Warnings   int    `db:"warnings"`
}

// Run is one batch as persisted.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  []DocumentSummary
	Customers  []entity.Customer
	Warnings   []entity.Warning
}

// RunSummary is the ledger_runs row.
type RunSummary struct {
	ID         string `db:"id"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
	Documents  int    `db:"documents"`
	Orders     int    `db:"orders"`
	Customers  int    `db:"customers"`
	Warnings   int    `db:"warnings"`
}

type LedgerRepository interface {
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*RunSummary, error)
	ListDocuments(ctx context.Context, runID uuid.UUID) ([]DocumentSummary, error)
	ListCustomers(ctx context.Context, runID uuid.UUID) ([]entity.Customer, error)
	ListWarnings(ctx context.Context, runID uuid.UUID) ([]entity.Warning, error)
}

type ledgerRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewLedgerRepository(db *sqlx.DB, logger *slog.Logger) LedgerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerRepository{db: db, logger: logger}
}

type documentRow struct {
	RunID    string `db:"run_id"`
	Position int    `db:"position"`
	DocumentSummary
}

type customerRow struct {
	ID            string `db:"id"`
	RunID         string `db:"run_id"`
	Position      int    `db:"position"`
	CanonicalName string `db:"canonical_name"`
	NamesJSON     string `db:"names_json"`
	EmailsJSON    string `db:"emails_json"`
	PhonesJSON    string `db:"phones_json"`
	TotalUnits    int    `db:"total_units"`
	PaidUnits     int    `db:"paid_units"`
}

type orderRow struct {
	RunID         string        `db:"run_id"`
	CustomerID    string        `db:"customer_id"`
	Position      int           `db:"position"`
	Document      string        `db:"document"`
	BlockIndex    int           `db:"block_index"`
	OrderID       string        `db:"order_id"`
	CustomerName  string        `db:"customer_name"`
	Email         string        `db:"email"`
	Phone         string        `db:"phone"`
	BuyerName     string        `db:"buyer_name"`
	BuyerPhone    string        `db:"buyer_phone"`
	UnitCount     int           `db:"unit_count"`
	DeclaredUnits sql.NullInt64 `db:"declared_units"`
	Paid          int           `db:"paid"`
	PaymentKnown  int           `db:"payment_known"`
	ItemsJSON     string        `db:"items_json"`
}

type warningRow struct {
	RunID        string `db:"run_id"`
	Seq          int    `db:"seq"`
	Kind         string `db:"kind"`
	Document     string `db:"document"`
	BlockIndex   int    `db:"block_index"`
	OrderIDsJSON string `db:"order_ids_json"`
	Message      string `db:"message"`
}

const (
	insertRun = `INSERT INTO ledger_runs (id, started_at, finished_at, documents, orders, customers, warnings)
		VALUES (:id, :started_at, :finished_at, :documents, :orders, :customers, :warnings)`
	insertDocument = `INSERT INTO ledger_documents (run_id, position, document_id, format, hash_hex, orders, warnings)
		VALUES (:run_id, :position, :document_id, :format, :hash_hex, :orders, :warnings)`
	insertCustomer = `INSERT INTO ledger_customers (id, run_id, position, canonical_name, names_json, emails_json, phones_json, total_units, paid_units)
		VALUES (:id, :run_id, :position, :canonical_name, :names_json, :emails_json, :phones_json, :total_units, :paid_units)`
	insertOrder = `INSERT INTO ledger_orders (run_id, customer_id, position, document, block_index, order_id, customer_name, email, phone,
			buyer_name, buyer_phone, unit_count, declared_units, paid, payment_known, items_json)
		VALUES (:run_id, :customer_id, :position, :document, :block_index, :order_id, :customer_name, :email, :phone,
			:buyer_name, :buyer_phone, :unit_count, :declared_units, :paid, :payment_known, :items_json)`
	insertWarning = `INSERT INTO ledger_warnings (run_id, seq, kind, document, block_index, order_ids_json, message)
		VALUES (:run_id, :seq, :kind, :document, :block_index, :order_ids_json, :message)`
)

// SaveRun writes the whole run in one transaction.
func (r *ledgerRepository) SaveRun(ctx context.Context, run Run) (err error) {
	if run.ID == uuid.Nil {
		return fmt.Errorf("%w: run id is required", common.ErrInvalidInput)
	}
	runID := run.ID.String()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return common.WrapError(errors.Join(common.ErrDatabase, err), "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	orders := 0
	for _, c := range run.Customers {
		orders += len(c.Orders)
	}
	summary := RunSummary{
		ID:         runID,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339Nano),
		FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339Nano),
		Documents:  len(run.Documents),
		Orders:     orders,
		Customers:  len(run.Customers),
		Warnings:   len(run.Warnings),
	}
	if _, err = tx.NamedExecContext(ctx, insertRun, summary); err != nil {
		return r.fail("insert run", runID, err)
	}

	for i, d := range run.Documents {
		row := documentRow{RunID: runID, Position: i, DocumentSummary: d}
		if _, err = tx.NamedExecContext(ctx, insertDocument, row); err != nil {
			return r.fail("insert document", runID, err)
		}
	}

	for i, c := range run.Customers {
		crow := customerRow{
			ID:            uuid.NewString(),
			RunID:         runID,
			Position:      i,
			CanonicalName: c.CanonicalName,
			NamesJSON:     mustJSON(c.Names),
			EmailsJSON:    mustJSON(c.Emails),
			PhonesJSON:    mustJSON(c.Phones),
			TotalUnits:    c.TotalUnits,
			PaidUnits:     c.PaidUnits(),
		}
		if _, err = tx.NamedExecContext(ctx, insertCustomer, crow); err != nil {
			return r.fail("insert customer", runID, err)
		}
		for j, o := range c.Orders {
			if _, err = tx.NamedExecContext(ctx, insertOrder, toOrderRow(runID, crow.ID, j, o)); err != nil {
				return r.fail("insert order "+o.OrderID, runID, err)
			}
		}
	}

	for i, w := range run.Warnings {
		wrow := warningRow{
			RunID:        runID,
			Seq:          i,
			Kind:         string(w.Kind),
			Document:     w.Document,
			BlockIndex:   w.BlockIndex,
			OrderIDsJSON: mustJSON(w.OrderIDs),
			Message:      w.Message,
		}
		if _, err = tx.NamedExecContext(ctx, insertWarning, wrow); err != nil {
			return r.fail("insert warning", runID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return r.fail("commit", runID, err)
	}
	r.logger.Info("run saved",
		"run_id", runID,
		"documents", summary.Documents,
		"customers", summary.Customers,
		"orders", summary.Orders,
		"warnings", summary.Warnings,
	)
	return nil
}

func (r *ledgerRepository) GetRun(ctx context.Context, id uuid.UUID) (*RunSummary, error) {
	var s RunSummary
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT * FROM ledger_runs WHERE id = ?`), id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, r.fail("get run", id.String(), err)
	}
	return &s, nil
}

func (r *ledgerRepository) ListDocuments(ctx context.Context, runID uuid.UUID) ([]DocumentSummary, error) {
	var rows []documentRow
	q := r.db.Rebind(`SELECT * FROM ledger_documents WHERE run_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &rows, q, runID.String()); err != nil {
		return nil, r.fail("list documents", runID.String(), err)
	}
	out := make([]DocumentSummary, len(rows))
	for i, row := range rows {
		out[i] = row.DocumentSummary
	}
	return out, nil
}

// ListCustomers rebuilds the run's customers with their orders, in
// first-appearance order.
func (r *ledgerRepository) ListCustomers(ctx context.Context, runID uuid.UUID) ([]entity.Customer, error) {
	var crows []customerRow
	q := r.db.Rebind(`SELECT * FROM ledger_customers WHERE run_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &crows, q, runID.String()); err != nil {
		return nil, r.fail("list customers", runID.String(), err)
	}

	var orows []orderRow
	q = r.db.Rebind(`SELECT * FROM ledger_orders WHERE run_id = ? ORDER BY customer_id, position`)
	if err := r.db.SelectContext(ctx, &orows, q, runID.String()); err != nil {
		return nil, r.fail("list orders", runID.String(), err)
	}
	byCustomer := make(map[string][]entity.OrderRecord)
	for _, o := range orows {
		rec, err := fromOrderRow(o)
		if err != nil {
			return nil, r.fail("decode order "+o.OrderID, runID.String(), err)
		}
		byCustomer[o.CustomerID] = append(byCustomer[o.CustomerID], rec)
	}

	out := make([]entity.Customer, 0, len(crows))
	for _, c := range crows {
		cust := entity.Customer{
			CanonicalName: c.CanonicalName,
			Orders:        byCustomer[c.ID],
			TotalUnits:    c.TotalUnits,
		}
		if err := decodeJSON(c.NamesJSON, &cust.Names); err != nil {
			return nil, r.fail("decode names", runID.String(), err)
		}
		if err := decodeJSON(c.EmailsJSON, &cust.Emails); err != nil {
			return nil, r.fail("decode emails", runID.String(), err)
		}
		if err := decodeJSON(c.PhonesJSON, &cust.Phones); err != nil {
			return nil, r.fail("decode phones", runID.String(), err)
		}
		out = append(out, cust)
	}
	return out, nil
}

func (r *ledgerRepository) ListWarnings(ctx context.Context, runID uuid.UUID) ([]entity.Warning, error) {
	var rows []warningRow
	q := r.db.Rebind(`SELECT * FROM ledger_warnings WHERE run_id = ? ORDER BY seq`)
	if err := r.db.SelectContext(ctx, &rows, q, runID.String()); err != nil {
		return nil, r.fail("list warnings", runID.String(), err)
	}
	out := make([]entity.Warning, len(rows))
	for i, w := range rows {
		out[i] = entity.Warning{
			Kind:       constants.WarningKind(w.Kind),
			Document:   w.Document,
			BlockIndex: w.BlockIndex,
			Message:    w.Message,
		}
		if err := decodeJSON(w.OrderIDsJSON, &out[i].OrderIDs); err != nil {
			return nil, r.fail("decode warning", runID.String(), err)
		}
	}
	return out, nil
}

func (r *ledgerRepository) fail(op, runID string, err error) error {
	r.logger.Error("ledger repository failure", "op", op, "run_id", runID, "error", err)
	return common.WrapError(errors.Join(common.ErrDatabase, err), op)
}

func toOrderRow(runID, customerID string, position int, o entity.OrderRecord) orderRow {
	row := orderRow{
		RunID:        runID,
		CustomerID:   customerID,
		Position:     position,
		Document:     o.Document,
		BlockIndex:   o.BlockIndex,
		OrderID:      o.OrderID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Phone:        o.Phone,
		BuyerName:    o.BuyerName,
		BuyerPhone:   o.BuyerPhone,
		UnitCount:    o.UnitCount,
		Paid:         boolToInt(o.Paid),
		PaymentKnown: boolToInt(o.PaymentKnown),
		ItemsJSON:    mustJSON(o.LineItems),
	}
	if o.DeclaredUnits != nil {
		row.DeclaredUnits = sql.NullInt64{Int64: int64(*o.DeclaredUnits), Valid: true}
	}
	return row
}

func fromOrderRow(row orderRow) (entity.OrderRecord, error) {
	o := entity.OrderRecord{
		Document:     row.Document,
		BlockIndex:   row.BlockIndex,
		OrderID:      row.OrderID,
		CustomerName: row.CustomerName,
		Email:        row.Email,
		Phone:        row.Phone,
		BuyerName:    row.BuyerName,
		BuyerPhone:   row.BuyerPhone,
		UnitCount:    row.UnitCount,
		Paid:         row.Paid != 0,
		PaymentKnown: row.PaymentKnown != 0,
	}
	if row.DeclaredUnits.Valid {
		n := int(row.DeclaredUnits.Int64)
		o.DeclaredUnits = &n
	}
	if err := decodeJSON(row.ItemsJSON, &o.LineItems); err != nil {
		return entity.OrderRecord{}, err
	}
	return o, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// mustJSON encodes values that are always marshalable (strings, line items).
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal %T: %v", v, err))
	}
	return string(b)
}

func decodeJSON(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
