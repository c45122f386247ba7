package models

import (
	"time"
)

// User - the single admin (plus any staff accounts created later)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:120" json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never returned in JSON
	Role      string    `gorm:"size:20;default:admin" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Company - singleton business profile printed on invoices
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	GSTNumber string    `json:"gstNumber"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	GSTNumber string    `json:"gstNumber"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product - the inventory. SKU and barcode are optional but unique when set,
// so they are nullable columns (multiple NULLs pass the unique index).
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	SKU       *string   `gorm:"uniqueIndex;size:64" json:"sku"`
	Barcode   *string   `gorm:"uniqueIndex;size:64" json:"barcode"`
	Price     float64   `json:"price"`
	GSTRate   float64   `json:"gstRate"`
	Stock     int       `json:"stock"` // never negative, mutated by the inventory ledger only
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Invoice statuses
const (
	StatusPaid    = "PAID"
	StatusUnpaid  = "UNPAID"
	StatusPending = "PENDING"
)

// Invoice - immutable once created, except status updates and deletion
type Invoice struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"uniqueIndex;size:20" json:"invoiceNumber"`
	CustomerID    uint          `gorm:"index" json:"customerId"`
	Customer      Customer      `json:"customer"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
	Subtotal      float64       `json:"subtotal"`
	TaxTotal      float64       `json:"taxTotal"`
	Discount      float64       `json:"discount"`
	GrandTotal    float64       `json:"grandTotal"`
	Status        string        `gorm:"index;size:10;default:UNPAID" json:"status"`
	InvoiceDate   time.Time     `gorm:"index" json:"invoiceDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// InvoiceItem - one line of an invoice. Name, price and GST rate are frozen
// at creation time; later product edits do not touch historical invoices.
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	InvoiceID   uint    `gorm:"index" json:"invoiceId"`
	ProductID   uint    `json:"productId"`
	Product     Product `json:"product"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	GSTRate     float64 `json:"gstRate"`
	GSTAmount   float64 `json:"gstAmount"`
	Total       float64 `json:"total"`
}

// Counter - named sequence row backing invoice numbering
type Counter struct {
	Name string `gorm:"primaryKey;size:64"`
	Seq  int64
}
