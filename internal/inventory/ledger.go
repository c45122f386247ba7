package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetpadmani/hennyenterpricebackend/internal/models"
)

// ErrProductNotFound is returned when a ledger operation references a
// product that does not exist.
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports a reservation that would take stock below zero.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// Ledger owns all stock mutations. Reserve and Release are single atomic
// UPDATEs at the database, so the service stays correct when running as
// multiple stateless instances - no in-process locking is involved.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CheckAvailability resolves the product and confirms stock covers the
// requested quantity. This is a pre-flight check only; Reserve is the
// enforcement point under concurrency.
func (l *Ledger) CheckAvailability(productID uint, quantity int) (*models.Product, error) {
	var product models.Product
	if err := l.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   quantity,
		}
	}
	return &product, nil
}

// Reserve decrements stock by quantity, conditioned on enough stock remaining
// at the moment the UPDATE applies. A separate check-then-decrement would let
// two concurrent invoices overdraw the same stock; the WHERE clause closes
// that race.
func (l *Ledger) Reserve(productID uint, quantity int) error {
	res := l.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the product is gone or stock ran out. Re-read to tell which.
		var product models.Product
		if err := l.db.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		return &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   quantity,
		}
	}
	return nil
}

// Release puts quantity back on the shelf. Used to compensate a reservation
// when invoice creation fails partway, and when an invoice is deleted.
func (l *Ledger) Release(productID uint, quantity int) error {
	res := l.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
