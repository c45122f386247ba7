package database

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database. The busy timeout and
// immediate transactions let concurrent writers queue instead of failing.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestNextSequenceStrictlyIncreasing(t *testing.T) {
	db := newTestDB(t)

	for want := int64(1); want <= 5; want++ {
		got, err := NextSequence(db, "invoice")
		if err != nil {
			t.Fatalf("NextSequence: %v", err)
		}
		if got != want {
			t.Fatalf("NextSequence = %d, want %d", got, want)
		}
	}
}

func TestNextSequenceIndependentCounters(t *testing.T) {
	db := newTestDB(t)

	if _, err := NextSequence(db, "invoice"); err != nil {
		t.Fatalf("NextSequence(invoice): %v", err)
	}
	if _, err := NextSequence(db, "invoice"); err != nil {
		t.Fatalf("NextSequence(invoice): %v", err)
	}

	got, err := NextSequence(db, "receipt")
	if err != nil {
		t.Fatalf("NextSequence(receipt): %v", err)
	}
	if got != 1 {
		t.Fatalf("fresh counter returned %d, want 1", got)
	}
}

func TestNextSequenceConcurrentCallersGetDistinctValues(t *testing.T) {
	db := newTestDB(t)

	const n = 20
	results := make(chan int64, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := NextSequence(db, "invoice")
			if err != nil {
				errs <- err
				return
			}
			results <- v
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent NextSequence: %v", err)
	}

	seen := make(map[int64]bool, n)
	for v := range results {
		if seen[v] {
			t.Fatalf("duplicate sequence value %d", v)
		}
		seen[v] = true
	}
	// 20 calls must hand out exactly 1..20 with no gaps
	for want := int64(1); want <= n; want++ {
		if !seen[want] {
			t.Fatalf("missing sequence value %d; got %v", want, seen)
		}
	}
}

func TestNextSequenceFormatsInvoiceNumbers(t *testing.T) {
	db := newTestDB(t)

	seq, err := NextSequence(db, "invoice")
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if got := fmt.Sprintf("INV-%06d", seq); got != "INV-000001" {
		t.Fatalf("formatted number = %q, want INV-000001", got)
	}
}
