package db

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/models"
	"github.com/diewo77/paytrack/internal/store"
)

func TestOpenSQLiteAndAutoMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "paytrack.sqlite")}
	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))

	st := store.NewGormStore(gdb)
	ctx := context.Background()
	inv := &models.Invoice{TotalCents: 1000}
	require.NoError(t, st.SaveInvoice(ctx, inv))
	require.NoError(t, st.SavePayment(ctx, &models.Payment{InvoiceID: inv.ID, AmountCents: 10, MethodCode: models.PaymentMethodCash}))

	require.NoError(t, st.DeleteInvoiceCascade(ctx, inv.ID))
	var n int64
	require.NoError(t, gdb.Model(&models.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestOpenSQLiteRejectsInvalidRows(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "paytrack.sqlite")}
	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))

	// check constraints hold even when the model checks are bypassed
	assert.Error(t, gdb.Exec("INSERT INTO invoices (total_cents) VALUES (0)").Error)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: config.DriverBolt})
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on", sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&_foreign_keys=on", sqliteDSN("file:a.db?cache=shared"))
}

func TestOpenPostgresStopsAfterLastAttempt(t *testing.T) {
	var slept []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = orig })

	_, err := Open(config.DatabaseConfig{
		Driver: config.DriverPostgres,
		RawDSN: "host=127.0.0.1 port=1 user=u dbname=d sslmode=disable connect_timeout=1",
	})
	require.Error(t, err)
	assert.Len(t, slept, connectAttempts-1)
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
	require.NoError(t, src.Close())

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_invoices.up.sql")
	require.NoError(t, err)
	for _, want := range []string{
		"CONSTRAINT chk_invoices_total_cents CHECK (total_cents > 0)",
		"CONSTRAINT chk_payments_amount_cents CHECK (amount_cents > 0)",
		"CONSTRAINT chk_payments_method_code CHECK (method_code IN (1, 2, 3))",
		"REFERENCES invoices(id) ON DELETE CASCADE",
	} {
		assert.Contains(t, string(up), want)
	}

	down, err := fs.ReadFile(migrationsFS, "migrations/000001_create_invoices.down.sql")
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE")
}
