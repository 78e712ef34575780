package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

func TestPrefixFor(t *testing.T) {
	assert.Equal(t, "PRO", billing.PrefixFor(entity.InvoiceTypeProforma))
	assert.Equal(t, "INV", billing.PrefixFor(entity.InvoiceTypeInvoice))
	assert.Equal(t, "INV", billing.PrefixFor(entity.InvoiceTypeReceipt))
	assert.Equal(t, "INV", billing.PrefixFor(entity.InvoiceTypeFinalInvoice))
}

func TestFormatNumber_RellenaSeisDigitos(t *testing.T) {
	assert.Equal(t, "PRO-2025-000001", billing.FormatNumber("PRO", 2025, 1))
	assert.Equal(t, "INV-2025-123456", billing.FormatNumber("INV", 2025, 123456))
	assert.Equal(t, "INV-2025-1234567", billing.FormatNumber("INV", 2025, 1234567))
}

func TestParseSequence(t *testing.T) {
	seq, ok := billing.ParseSequence("PRO-2025-000042", "PRO", 2025)
	assert.True(t, ok)
	assert.Equal(t, int64(42), seq)

	_, ok = billing.ParseSequence("PRO-2024-000042", "PRO", 2025)
	assert.False(t, ok, "año distinto")

	_, ok = billing.ParseSequence("INV-2025-000042", "PRO", 2025)
	assert.False(t, ok, "prefijo distinto")

	_, ok = billing.ParseSequence("PRO-2025-ABC", "PRO", 2025)
	assert.False(t, ok)
}
