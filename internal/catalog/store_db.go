package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

type productRow struct {
	ID          int64   `gorm:"primaryKey;autoIncrement:false"`
	Name        string  `gorm:"not null"`
	Category    string  `gorm:"not null;index"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Stock       int64   `gorm:"not null"`
	Rating      float64 `gorm:"not null"`
	Image       string  `gorm:"not null"`
}

func (productRow) TableName() string { return "products" }

func rowFromProduct(p Product) productRow {
	return productRow(p)
}

func (r productRow) product() Product {
	return Product(r)
}

// GormStore persists products in a SQL database. Ids follow the same
// max+1 rule as MemStore, allocated inside the insert transaction.
type GormStore struct {
	mu sync.Mutex
	db *gorm.DB
}

// OpenDB opens a GORM connection for the "postgres" or "sqlite" driver.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// NewGormStore migrates the products table and loads seed when it is empty.
func NewGormStore(ctx context.Context, db *gorm.DB, seed ...Fields) (*GormStore, error) {
	s := &GormStore{db: db}

	if err := db.WithContext(ctx).AutoMigrate(&productRow{}); err != nil {
		return nil, fmt.Errorf("migrate products: %w", err)
	}

	var n int64
	if err := db.WithContext(ctx).Model(&productRow{}).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		for _, f := range seed {
			if _, err := s.Create(ctx, f); err != nil {
				return nil, fmt.Errorf("seed products: %w", err)
			}
		}
	}

	return s, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]Product, error) {
	var rows []productRow

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		q := s.db.WithContext(ctx).Order("id ASC")
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		return q.Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.product())
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	var row productRow

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return row.product(), true, nil
}

func (s *GormStore) Create(ctx context.Context, f Fields) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxID int64
			if err := tx.Model(&productRow{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
				return err
			}

			p = f.product(maxID + 1)
			row := rowFromProduct(p)
			return tx.Create(&row).Error
		})
	})
	if isUniqueViolation(err) {
		return Product{}, ErrConflict
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *GormStore) Update(ctx context.Context, id int64, patch Patch) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		p     Product
		found bool
	)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row productRow
			err := tx.First(&row, "id = ?", id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found = true

			p = row.product()
			patch.Apply(&p)

			cols := patchColumns(patch)
			if len(cols) == 0 {
				return nil
			}
			return tx.Model(&productRow{}).Where("id = ?", id).Updates(cols).Error
		})
	})
	if err != nil {
		return Product{}, false, err
	}
	if !found {
		return Product{}, false, nil
	}
	return p, true, nil
}

func (s *GormStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res := s.db.WithContext(ctx).Delete(&productRow{}, "id = ?", id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// patchColumns maps supplied fields to column updates. A map is used so zero
// values such as stock=0 are written.
func patchColumns(p Patch) map[string]any {
	cols := make(map[string]any, 7)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Stock != nil {
		cols["stock"] = *p.Stock
	}
	if p.Rating != nil {
		cols["rating"] = *p.Rating
	}
	if p.Image != nil {
		cols["image"] = *p.Image
	}
	return cols
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
