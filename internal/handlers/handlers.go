package handlers

import (
	"github.com/meetpadmani/hennyenterpricebackend/internal/config"
)

var cfg config.Config

// Init hands the loaded configuration to the handler layer (base URL for
// uploaded file links, upload directory).
func Init(c config.Config) {
	cfg = c
}
