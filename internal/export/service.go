package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/repository"
)

const (
	SheetCustomers = "Customers"
	SheetOrders    = "Orders"
	SheetWarnings  = "Warnings"
)

// Service is a tiny façade over the ledger repository that produces XLSX bytes.
type Service struct {
	repo   repository.LedgerRepository
	logger *slog.Logger
}

func NewService(repo repository.LedgerRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportRunXLSX loads a stored run and renders it.
func (s *Service) ExportRunXLSX(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	if _, err := s.repo.GetRun(ctx, runID); err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	customers, err := s.repo.ListCustomers(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	warnings, err := s.repo.ListWarnings(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	return s.LedgerXLSX(customers, warnings)
}

// LedgerXLSX renders customers, their orders and the warnings into one workbook.
func (s *Service) LedgerXLSX(customers []entity.Customer, warnings []entity.Warning) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetCustomers); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetOrders, SheetWarnings} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(SheetCustomers)
	f.SetActiveSheet(activeIndex)

	writeRow(f, SheetCustomers, 1, []any{
		"Customer", "Names Seen", "Emails", "Phones", "Orders", "Order IDs", "Total Units", "Paid Units",
	})
	writeRow(f, SheetOrders, 1, []any{
		"Customer", "Document", "Order ID", "Name As Written", "Email", "Phone",
		"Buyer", "Buyer Phone", "Items", "Units", "Declared Units", "Paid",
	})
	writeRow(f, SheetWarnings, 1, []any{"Kind", "Document", "Block", "Order IDs", "Message"})

	orderRow := 2
	for i, c := range customers {
		writeRow(f, SheetCustomers, i+2, []any{
			c.CanonicalName,
			strings.Join(c.Names, "; "),
			strings.Join(c.Emails, "; "),
			strings.Join(c.Phones, "; "),
			len(c.Orders),
			strings.Join(c.OrderIDs(), ", "),
			c.TotalUnits,
			c.PaidUnits(),
		})
		for _, o := range c.Orders {
			declared := ""
			if o.DeclaredUnits != nil {
				declared = strconv.Itoa(*o.DeclaredUnits)
			}
			writeRow(f, SheetOrders, orderRow, []any{
				c.CanonicalName,
				o.Document,
				o.OrderID,
				o.CustomerName,
				o.Email,
				o.Phone,
				o.BuyerName,
				o.BuyerPhone,
				describeItems(o.LineItems),
				o.UnitCount,
				declared,
				paidLabel(o),
			})
			orderRow++
		}
	}

	for i, w := range warnings {
		block := ""
		if w.BlockIndex >= 0 {
			block = strconv.Itoa(w.BlockIndex)
		}
		writeRow(f, SheetWarnings, i+2, []any{
			string(w.Kind), w.Document, block, strings.Join(w.OrderIDs, ", "), truncate(w.Message, 240),
		})
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetCustomers, "A", "A", 24)
	_ = f.SetColWidth(SheetCustomers, "B", "D", 36)
	_ = f.SetColWidth(SheetOrders, "A", "H", 20)
	_ = f.SetColWidth(SheetOrders, "I", "I", 48)
	_ = f.SetColWidth(SheetWarnings, "A", "A", 24)
	_ = f.SetColWidth(SheetWarnings, "E", "E", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("ledger xlsx written",
		"customers", len(customers),
		"orders", orderRow-2,
		"warnings", len(warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func describeItems(items []entity.LineItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%d x %s (%s)", it.Quantity, it.ProductName, it.SKU)
	}
	return strings.Join(parts, "; ")
}

func paidLabel(o entity.OrderRecord) string {
	switch {
	case !o.PaymentKnown:
		return "UNKNOWN"
	case o.Paid:
		return "PAID"
	default:
		return "UNPAID"
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
