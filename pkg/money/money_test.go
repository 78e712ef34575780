package money_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Vallas-api/pkg/money"
)

func TestFormat_IncluyeMoneda(t *testing.T) {
	f := money.NewFormatter("pt-MZ", "MT")

	out := f.Format(decimal.RequireFromString("34336"))

	assert.True(t, strings.HasSuffix(out, " MT"), out)
	assert.Contains(t, out, "336")
	assert.Equal(t, "MT", f.Currency())
}

func TestNewFormatter_IdiomaInvalidoNoFalla(t *testing.T) {
	f := money.NewFormatter("??", "MT")
	assert.NotEmpty(t, f.Format(decimal.NewFromInt(10)))
}
