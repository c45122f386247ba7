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

type ProductRequest struct {
	Name    string  `json:"name" binding:"required"`
	SKU     string  `json:"sku"`
	Barcode string  `json:"barcode"`
	Price   float64 `json:"price" binding:"min=0"`
	GSTRate float64 `json:"gstRate" binding:"min=0,max=100"`
	Stock   int     `json:"stock" binding:"min=0"`
}

// Empty SKU/barcode is stored as NULL so the unique index only applies to
// real values.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// GET /api/products?search=
func GetAllProducts(c *gin.Context) {
	query := database.DB.Order("created_at desc")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR barcode LIKE ?", like, like, like)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GET /api/products/barcode/:barcode - scanner lookup at the counter
func GetProductByBarcode(c *gin.Context) {
	var product models.Product
	if err := database.DB.Where("barcode = ?", c.Param("barcode")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// POST /api/products
func CreateProduct(c *gin.Context) {
	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	product := models.Product{
		Name:    input.Name,
		SKU:     optional(input.SKU),
		Barcode: optional(input.Barcode),
		Price:   input.Price,
		GSTRate: input.GSTRate,
		Stock:   input.Stock,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "SKU or Barcode already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// PUT /api/products/:id
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	product.Name = input.Name
	product.SKU = optional(input.SKU)
	product.Barcode = optional(input.Barcode)
	product.Price = input.Price
	product.GSTRate = input.GSTRate
	product.Stock = input.Stock

	if err := database.DB.Save(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "SKU or Barcode already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DELETE /api/products/:id
func DeleteProduct(c *gin.Context) {
	res := database.DB.Delete(&models.Product{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
