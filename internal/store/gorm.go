package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/paytrack/internal/models"
)

// GormStore keeps invoices in a SQL database (postgres or sqlite).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error; err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	return nil
}

func (s *GormStore) SavePayment(ctx context.Context, p *models.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	// sqlite does not enforce foreign keys unless the pragma is on
	var count int64
	if err := db.Model(&models.Invoice{}).Where("id = ?", p.InvoiceID).Count(&count).Error; err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("invoice %d: %w", p.InvoiceID, ErrNotFound)
	}
	if err := db.Create(p).Error; err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *GormStore) LoadInvoiceWithPayments(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load invoice %d: %w", id, err)
	}
	return &inv, nil
}

// DeleteInvoiceCascade deletes children then parent in one transaction so it
// does not depend on the database enforcing ON DELETE CASCADE.
func (s *GormStore) DeleteInvoiceCascade(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("delete payments of invoice %d: %w", id, err)
		}
		res := tx.Delete(&models.Invoice{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete invoice %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// LockInvoice issues a no-op update on the invoice row: a row lock on
// postgres, the database write lock on sqlite.
func (s *GormStore) LockInvoice(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", gorm.Expr("updated_at"))
	if res.Error != nil {
		return fmt.Errorf("lock invoice %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
