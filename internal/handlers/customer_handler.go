package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/meetpadmani/hennyenterpricebackend/internal/database"
	"github.com/meetpadmani/hennyenterpricebackend/internal/models"
)

type CustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Address   string `json:"address"`
	GSTNumber string `json:"gstNumber"`
}

// GET /api/customers?search=
func GetAllCustomers(c *gin.Context) {
	query := database.DB.Order("created_at desc")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GET /api/customers/:id
func GetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// POST /api/customers
func CreateCustomer(c *gin.Context) {
	var input CustomerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and phone are required"})
		return
	}

	customer := models.Customer{
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     strings.ToLower(input.Email),
		Address:   input.Address,
		GSTNumber: strings.ToUpper(input.GSTNumber),
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer created", "customer": customer})
}

// PUT /api/customers/:id
func UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	var input CustomerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and phone are required"})
		return
	}

	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Email = strings.ToLower(input.Email)
	customer.Address = input.Address
	customer.GSTNumber = strings.ToUpper(input.GSTNumber)

	if err := database.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated", "customer": customer})
}

// DELETE /api/customers/:id
func DeleteCustomer(c *gin.Context) {
	res := database.DB.Delete(&models.Customer{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
