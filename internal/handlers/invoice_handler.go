package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/meetpadmani/hennyenterpricebackend/internal/database"
	"github.com/meetpadmani/hennyenterpricebackend/internal/inventory"
	"github.com/meetpadmani/hennyenterpricebackend/internal/invoices"
)

// parseDate accepts "2006-01-02" or full RFC3339 timestamps
func parseDate(s string) *time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// GET /api/invoices?search=&status=&startDate=&endDate=&customerId=
func GetAllInvoices(c *gin.Context) {
	filter := invoices.Filter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if v := c.Query("customerId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.CustomerID = uint(id)
		}
	}
	if v := c.Query("startDate"); v != "" {
		filter.StartDate = parseDate(v)
	}
	if v := c.Query("endDate"); v != "" {
		filter.EndDate = parseDate(v)
	}

	result, err := invoices.NewService(database.DB).List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/invoices/stats
func GetDashboardStats(c *gin.Context) {
	stats, err := invoices.NewService(database.DB).GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/invoices/:id
func GetInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice ID"})
		return
	}

	invoice, err := invoices.NewService(database.DB).Get(uint(id))
	if err != nil {
		if errors.Is(err, invoices.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// POST /api/invoices - runs the full workflow: validate stock, reserve,
// number, persist
func CreateInvoice(c *gin.Context) {
	var input invoices.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice payload"})
		return
	}

	invoice, err := invoices.NewService(database.DB).Create(input)
	if err != nil {
		var stockErr *inventory.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Insufficient stock for " + stockErr.ProductName +
					". Available: " + strconv.Itoa(stockErr.Available) +
					", Requested: " + strconv.Itoa(stockErr.Requested),
			})
		case errors.Is(err, inventory.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		case errors.Is(err, invoices.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		default:
			log.Error().Err(err).Msg("invoice creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Invoice created", "invoice": invoice})
}

// PATCH /api/invoices/:id/status
func UpdateInvoiceStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	invoice, err := invoices.NewService(database.DB).UpdateStatus(uint(id), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, invoices.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		case errors.Is(err, invoices.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
		default:
			log.Error().Err(err).Msg("invoice status update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice status updated", "invoice": invoice})
}

// DELETE /api/invoices/:id - compensating operation, restores reserved stock
func DeleteInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice ID"})
		return
	}

	if err := invoices.NewService(database.DB).Delete(uint(id)); err != nil {
		if errors.Is(err, invoices.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		log.Error().Err(err).Msg("invoice deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted and stock restored"})
}
