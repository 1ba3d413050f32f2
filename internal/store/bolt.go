package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/diewo77/paytrack/internal/models"
)

// Bucket layout:
//
//	invoices/<invoice id>                -> Invoice JSON (without payments)
//	payments/<invoice id>/<payment id>   -> Payment JSON
//
// Keys are big-endian so iteration follows insertion order, and dropping the
// nested bucket of an invoice removes all of its payments at once.
var (
	invoicesBucket = []byte("invoices")
	paymentsBucket = []byte("payments")
)

// BoltStore keeps invoices in a single BoltDB file. Bolt allows one writer at
// a time, so every write is serialized.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database at path and ensures the
// buckets exist.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{invoicesBucket, paymentsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) update(ctx context.Context, fn func(t *boltTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error { return fn(&boltTx{tx: tx}) })
}

func (s *BoltStore) view(ctx context.Context, fn func(t *boltTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error { return fn(&boltTx{tx: tx}) })
}

func (s *BoltStore) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	return s.update(ctx, func(t *boltTx) error { return t.SaveInvoice(ctx, inv) })
}

func (s *BoltStore) SavePayment(ctx context.Context, p *models.Payment) error {
	return s.update(ctx, func(t *boltTx) error { return t.SavePayment(ctx, p) })
}

func (s *BoltStore) LoadInvoiceWithPayments(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.view(ctx, func(t *boltTx) error {
		var err error
		inv, err = t.LoadInvoiceWithPayments(ctx, id)
		return err
	})
	return inv, err
}

func (s *BoltStore) DeleteInvoiceCascade(ctx context.Context, id uint) error {
	return s.update(ctx, func(t *boltTx) error { return t.DeleteInvoiceCascade(ctx, id) })
}

func (s *BoltStore) LockInvoice(ctx context.Context, id uint) error {
	return s.view(ctx, func(t *boltTx) error { return t.LockInvoice(ctx, id) })
}

func (s *BoltStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.update(ctx, func(t *boltTx) error { return fn(t) })
}

// boltTx is a Store bound to one read-write bolt transaction.
type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) SaveInvoice(_ context.Context, inv *models.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	b := t.tx.Bucket(invoicesBucket)
	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	now := time.Now().UTC()
	inv.ID = uint(seq)
	inv.CreatedAt = now
	inv.UpdatedAt = now

	stored := *inv
	stored.Payments = nil
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	return b.Put(itob(inv.ID), data)
}

func (t *boltTx) SavePayment(_ context.Context, p *models.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	key := itob(p.InvoiceID)
	if t.tx.Bucket(invoicesBucket).Get(key) == nil {
		return fmt.Errorf("invoice %d: %w", p.InvoiceID, ErrNotFound)
	}
	payments := t.tx.Bucket(paymentsBucket)
	seq, err := payments.NextSequence()
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	nested, err := payments.CreateBucketIfNotExists(key)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	p.ID = uint(seq)
	p.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nested.Put(itob(p.ID), data)
}

func (t *boltTx) LoadInvoiceWithPayments(_ context.Context, id uint) (*models.Invoice, error) {
	key := itob(id)
	v := t.tx.Bucket(invoicesBucket).Get(key)
	if v == nil {
		return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	var inv models.Invoice
	if err := json.Unmarshal(v, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice %d: %w", id, err)
	}
	nested := t.tx.Bucket(paymentsBucket).Bucket(key)
	if nested == nil {
		return &inv, nil
	}
	err := nested.ForEach(func(_, pv []byte) error {
		var p models.Payment
		if err := json.Unmarshal(pv, &p); err != nil {
			return err
		}
		inv.Payments = append(inv.Payments, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode payments of invoice %d: %w", id, err)
	}
	return &inv, nil
}

func (t *boltTx) DeleteInvoiceCascade(_ context.Context, id uint) error {
	key := itob(id)
	invoices := t.tx.Bucket(invoicesBucket)
	if invoices.Get(key) == nil {
		return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	if err := t.tx.Bucket(paymentsBucket).DeleteBucket(key); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
		return fmt.Errorf("delete payments of invoice %d: %w", id, err)
	}
	return invoices.Delete(key)
}

// LockInvoice only checks existence: the enclosing bolt write transaction is
// already exclusive.
func (t *boltTx) LockInvoice(_ context.Context, id uint) error {
	if t.tx.Bucket(invoicesBucket).Get(itob(id)) == nil {
		return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	return nil
}

func (t *boltTx) Transaction(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func itob(id uint) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
