package database

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meetpadmani/hennyenterpricebackend/internal/models"
)

var DB *gorm.DB

// Connect opens the MySQL connection and syncs the schema. The retry loop
// covers the common docker-compose case where MySQL is still warming up.
func Connect(dsn string) error {
	var err error
	for i := 0; i < 5; i++ {
		// No FK constraints: products and customers may be deleted while
		// old invoices still reference them; invoice deletion handles the
		// dangling case itself.
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
			TranslateError:                           true,
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("database not ready, retrying in 2s (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return err
	}

	if err := Migrate(DB); err != nil {
		return err
	}
	log.Info().Msg("database connected and schema synced")
	return nil
}

// Migrate syncs the schema. Also used by tests against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Customer{},
		&models.Product{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Counter{},
	)
}
