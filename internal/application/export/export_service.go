// Package export renders list endpoints as XLSX workbooks.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	partnerapp "github.com/erp/distribution/internal/application/partner"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxRows caps a single export
	MaxRows    = 10000
	exportPage = 100
	dateLayout = "2006-01-02"
)

// CustomerLister lists customers a page at a time
type CustomerLister interface {
	List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error)
}

// OrderLister lists orders a page at a time
type OrderLister interface {
	List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter) ([]tradeapp.OrderResponse, int64, error)
}

// Service builds customer and order workbooks
type Service struct {
	customers CustomerLister
	orders    OrderLister
	caser     cases.Caser
}

// NewService creates a new export Service
func NewService(customers CustomerLister, orders OrderLister) *Service {
	return &Service{
		customers: customers,
		orders:    orders,
		caser:     cases.Title(language.English),
	}
}

var customerColumns = []string{"code", "name", "type", "status", "phone", "email", "address", "credit_limit", "balance", "created_at"}

// Customers writes every customer matching filter to w
func (s *Service) Customers(ctx context.Context, tenantID uuid.UUID, filter partnerapp.CustomerListFilter, w io.Writer) (int, error) {
	var rows [][]any
	for page := 1; len(rows) < MaxRows; page++ {
		filter.Page, filter.PageSize, filter.Limit, filter.Offset = page, exportPage, 0, 0
		items, total, err := s.customers.List(ctx, tenantID, filter)
		if err != nil {
			return 0, err
		}
		for _, c := range items {
			rows = append(rows, []any{
				c.Code, c.Name, c.Type, c.Status, c.Phone, c.Email, c.Address,
				c.CreditLimit.InexactFloat64(), c.Balance.InexactFloat64(),
				c.CreatedAt.Format(dateLayout),
			})
		}
		if len(items) < exportPage || int64(len(rows)) >= total {
			break
		}
	}
	return len(rows), s.write(w, "Customers", customerColumns, rows)
}

var orderColumns = []string{"order_number", "order_date", "customer_id", "order_status", "payment_status", "subtotal", "discount_amount", "tax_amount", "total_amount"}

// Orders writes every order matching filter to w
func (s *Service) Orders(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter, w io.Writer) (int, error) {
	var rows [][]any
	for page := 1; len(rows) < MaxRows; page++ {
		filter.Page, filter.PageSize, filter.Limit, filter.Offset = page, exportPage, 0, 0
		items, total, err := s.orders.List(ctx, tenantID, filter)
		if err != nil {
			return 0, err
		}
		for _, o := range items {
			rows = append(rows, []any{
				o.OrderNumber, o.OrderDate.Format(dateLayout), o.CustomerID.String(),
				o.OrderStatus, o.PaymentStatus,
				o.Subtotal.InexactFloat64(), o.DiscountAmount.InexactFloat64(),
				o.TaxAmount.InexactFloat64(), o.TotalAmount.InexactFloat64(),
			})
		}
		if len(items) < exportPage || int64(len(rows)) >= total {
			break
		}
	}
	return len(rows), s.write(w, "Orders", orderColumns, rows)
}

// Label turns a snake_case column into a title-cased header
func (s *Service) Label(column string) string {
	return s.caser.String(strings.ReplaceAll(column, "_", " "))
}

func (s *Service) write(w io.Writer, sheet string, columns []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}
	if err := sw.SetColWidth(1, len(columns), 18); err != nil {
		return err
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: s.Label(c)}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
