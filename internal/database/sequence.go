package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetpadmani/hennyenterpricebackend/internal/models"
)

// NextSequence returns the next value of a named counter. The increment and
// read happen under a row lock inside one transaction, so concurrent callers
// are serialized by the database and can never observe the same value. The
// counter advances whether or not the caller's own work later succeeds:
// gaps in invoice numbering are acceptable, duplicates are not.
func NextSequence(db *gorm.DB, name string) (int64, error) {
	var next int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var counter models.Counter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First use of this counter. Two racing callers can both land
			// here; the loser of the insert re-reads under the lock.
			counter = models.Counter{Name: name, Seq: 1}
			if cerr := tx.Create(&counter).Error; cerr != nil {
				if !errors.Is(cerr, gorm.ErrDuplicatedKey) {
					return cerr
				}
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("name = ?", name).
					First(&counter).Error; err != nil {
					return err
				}
			} else {
				next = counter.Seq
				return nil
			}
		} else if err != nil {
			return err
		}

		next = counter.Seq + 1
		return tx.Model(&models.Counter{}).
			Where("name = ?", name).
			Update("seq", next).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
