package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/meetpadmani/hennyenterpricebackend/internal/database"
	"github.com/meetpadmani/hennyenterpricebackend/internal/models"
	"github.com/meetpadmani/hennyenterpricebackend/internal/utils"
)

// GET /api/company - returns the profile, creating an empty one on first use
func GetCompanySettings(c *gin.Context) {
	var company models.Company
	err := database.DB.First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := database.DB.Create(&company).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, company)
}

// PUT /api/company - multipart form: text fields plus an optional "logo" image
func UpdateCompanySettings(c *gin.Context) {
	var company models.Company
	err := database.DB.First(&company).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if v, ok := c.GetPostForm("name"); ok {
		company.Name = v
	}
	if v, ok := c.GetPostForm("gstNumber"); ok {
		company.GSTNumber = v
	}
	if v, ok := c.GetPostForm("address"); ok {
		company.Address = v
	}
	if v, ok := c.GetPostForm("phone"); ok {
		company.Phone = v
	}
	if v, ok := c.GetPostForm("email"); ok {
		company.Email = v
	}

	if file, err := c.FormFile("logo"); err == nil {
		filename, err := utils.SaveImage(c, file, cfg.UploadDir)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		company.Logo = cfg.BaseURL + "/uploads/" + filename
	}

	if err := database.DB.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company settings updated", "company": company})
}
