package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxImageSize caps uploaded logos at 5MB
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// SaveImage validates an uploaded image and writes it into dir under a
// random filename. Returns the stored filename.
func SaveImage(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("file too large (max 5MB)")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] || !allowedImageExts[ext] {
		return "", fmt.Errorf("only image files are allowed")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}
