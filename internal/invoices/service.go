package invoices

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meetpadmani/hennyenterpricebackend/internal/database"
	"github.com/meetpadmani/hennyenterpricebackend/internal/inventory"
	"github.com/meetpadmani/hennyenterpricebackend/internal/logger"
	"github.com/meetpadmani/hennyenterpricebackend/internal/models"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidStatus    = errors.New("invalid status")
)

// ItemInput is one requested line of a new invoice. Price and tax are not
// accepted from the client; they are snapshotted from the product.
type ItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateInput struct {
	CustomerID  uint        `json:"customerId" binding:"required"`
	Items       []ItemInput `json:"items" binding:"required,min=1,dive"`
	Subtotal    float64     `json:"subtotal" binding:"min=0"`
	TaxTotal    float64     `json:"taxTotal" binding:"min=0"`
	Discount    float64     `json:"discount" binding:"min=0"`
	GrandTotal  float64     `json:"grandTotal" binding:"min=0"`
	Status      string      `json:"status" binding:"omitempty,oneof=PAID UNPAID PENDING"`
	InvoiceDate *time.Time  `json:"invoiceDate"`
}

type Filter struct {
	Search     string
	Status     string
	CustomerID uint
	StartDate  *time.Time
	EndDate    *time.Time
}

type Stats struct {
	TotalInvoices   int64   `json:"totalInvoices"`
	TodayInvoices   int64   `json:"todayInvoices"`
	TotalSales      float64 `json:"totalSales"`
	TodaySales      float64 `json:"todaySales"`
	PendingPayments float64 `json:"pendingPayments"`
}

// Service runs the invoice workflow: validate line items against inventory,
// reserve stock, mint the invoice number, persist. Deletion is the
// compensating path that puts stock back.
type Service struct {
	db     *gorm.DB
	ledger *inventory.Ledger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, ledger: inventory.NewLedger(db)}
}

// Create builds and persists a new invoice.
//
// Stock is enforced by the ledger's conditional decrement, not by the
// pre-flight check: if a concurrent invoice consumes stock between the
// two steps, the reservation fails and every reservation already applied
// for this call is released before the error is returned.
func (s *Service) Create(input CreateInput) (*models.Invoice, error) {
	var customer models.Customer
	if err := s.db.First(&customer, input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	// Validating: resolve every product and fast-fail on obvious shortfalls,
	// snapshotting name/price/rate for the frozen line items.
	items := make([]models.InvoiceItem, 0, len(input.Items))
	for _, in := range input.Items {
		product, err := s.ledger.CheckAvailability(in.ProductID, in.Quantity)
		if err != nil {
			return nil, err
		}
		lineNet := product.Price * float64(in.Quantity)
		gstAmount := lineNet * product.GSTRate / 100
		items = append(items, models.InvoiceItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
			Price:       product.Price,
			GSTRate:     product.GSTRate,
			GSTAmount:   gstAmount,
			Total:       lineNet + gstAmount,
		})
	}

	// Reserving: atomic per-item decrements. On a mid-list failure the
	// earlier reservations are compensated before returning.
	for i, item := range items {
		if err := s.ledger.Reserve(item.ProductID, item.Quantity); err != nil {
			s.rollbackReservations(items[:i])
			return nil, err
		}
	}

	// Numbering: the counter advances even if the insert below fails,
	// leaving a gap. Gaps are fine, duplicate numbers are not.
	seq, err := database.NextSequence(s.db, "invoice")
	if err != nil {
		s.rollbackReservations(items)
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusUnpaid
	}
	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	invoice := models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%06d", seq),
		CustomerID:    input.CustomerID,
		Items:         items,
		Subtotal:      input.Subtotal,
		TaxTotal:      input.TaxTotal,
		Discount:      input.Discount,
		GrandTotal:    input.GrandTotal,
		Status:        status,
		InvoiceDate:   invoiceDate,
	}

	if err := s.db.Create(&invoice).Error; err != nil {
		s.rollbackReservations(items)
		return nil, err
	}

	return s.Get(invoice.ID)
}

// rollbackReservations releases stock for already-reserved items after a
// later step failed. Best effort: a release that fails is logged loudly,
// never swallowed, since there is no transaction spanning the whole workflow.
func (s *Service) rollbackReservations(items []models.InvoiceItem) {
	log := logger.WithComponent("invoice-workflow")
	for _, item := range items {
		if err := s.ledger.Release(item.ProductID, item.Quantity); err != nil {
			log.Error().Err(err).
				Uint("productId", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("failed to roll back stock reservation")
		}
	}
}

// Get returns one invoice with customer and line-item products resolved.
func (s *Service) Get(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Customer").Preload("Items.Product").First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateStatus transitions an invoice between PAID, UNPAID and PENDING.
// No inventory side effects.
func (s *Service) UpdateStatus(id uint, status string) (*models.Invoice, error) {
	switch status {
	case models.StatusPaid, models.StatusUnpaid, models.StatusPending:
	default:
		return nil, ErrInvalidStatus
	}

	var invoice models.Invoice
	if err := s.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&invoice).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes an invoice and restores the stock its line items reserved.
// A line whose product has since been deleted is skipped; that is not a
// failure of the deletion.
func (s *Service) Delete(id uint) error {
	var invoice models.Invoice
	err := s.db.Preload("Items").First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvoiceNotFound
	}
	if err != nil {
		return err
	}

	log := logger.WithComponent("invoice-workflow")
	for _, item := range invoice.Items {
		err := s.ledger.Release(item.ProductID, item.Quantity)
		if errors.Is(err, inventory.ErrProductNotFound) {
			log.Warn().
				Uint("productId", item.ProductID).
				Str("invoice", invoice.InvoiceNumber).
				Msg("skipping stock release for deleted product")
			continue
		}
		if err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, invoice.ID).Error
	})
}

// List returns invoices matching the filter, newest first.
func (s *Service) List(filter Filter) ([]models.Invoice, error) {
	query := s.db.Preload("Customer").Preload("Items")

	if filter.Search != "" {
		query = query.Where("invoice_number LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.StartDate != nil {
		query = query.Where("invoice_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("invoice_date <= ?", *filter.EndDate)
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetStats aggregates the dashboard numbers. "Today" starts at local midnight.
func (s *Service) GetStats() (*Stats, error) {
	var stats Stats

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := s.db.Model(&models.Invoice{}).Count(&stats.TotalInvoices).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).
		Where("invoice_date >= ?", midnight).
		Count(&stats.TodayInvoices).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&stats.TotalSales).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).
		Where("invoice_date >= ?", midnight).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&stats.TodaySales).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).
		Where("status IN ?", []string{models.StatusUnpaid, models.StatusPending}).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
