package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/paytrack/internal/handlers"
	"github.com/diewo77/paytrack/internal/services"
	"github.com/diewo77/paytrack/internal/validation"
)

func setupBoltEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", filepath.Join(t.TempDir(), "paytrack.bolt"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("MIGRATIONS", "")
	t.Setenv("STRICT_BALANCE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLIInvoiceLifecycle(t *testing.T) {
	setupBoltEnv(t)

	out, err := run(t, "invoice", "create", "--total", "100.00")
	require.NoError(t, err)
	var inv handlers.InvoiceView
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, uint(1), inv.ID)
	assert.Equal(t, int64(10000), inv.TotalCents)

	out, err = run(t, "payment", "record", "1", "--amount", "40.00", "--method", "cash")
	require.NoError(t, err)
	var p handlers.PaymentView
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 1, p.MethodCode)

	out, err = run(t, "invoice", "show", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, "60.00", inv.AmountOwed)
	assert.Len(t, inv.Payments, 1)

	out, err = run(t, "invoice", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "invoice 1 deleted\n", out)

	_, err = run(t, "invoice", "show", "1")
	assert.Error(t, err)
}

func TestCLIRejectsBadInput(t *testing.T) {
	setupBoltEnv(t)

	_, err := run(t, "invoice", "create")
	assert.ErrorIs(t, err, validation.ErrInvalidAmount)
	_, err = run(t, "invoice", "create", "--total", "0")
	assert.ErrorIs(t, err, validation.ErrInvalidAmount)

	_, err = run(t, "invoice", "create", "--total", "10")
	require.NoError(t, err)
	_, err = run(t, "payment", "record", "1", "--amount", "5", "--method", "bitcoin")
	assert.ErrorIs(t, err, validation.ErrInvalidPaymentMethod)
	_, err = run(t, "payment", "record", "x", "--amount", "5", "--method", "cash")
	assert.Error(t, err)
}

func TestCLIStrictBalance(t *testing.T) {
	setupBoltEnv(t)
	t.Setenv("STRICT_BALANCE", "1")

	_, err := run(t, "invoice", "create", "--total", "10")
	require.NoError(t, err)
	_, err = run(t, "payment", "record", "1", "--amount", "10.01", "--method", "check")
	assert.ErrorIs(t, err, services.ErrExceedsBalance)
}

func TestCLIRejectsUnknownDriver(t *testing.T) {
	setupBoltEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := run(t, "migrate")
	assert.Error(t, err)
}
