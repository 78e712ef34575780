package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// Prefijos de numeración por tipo de documento.
const (
	PrefixProforma = "PRO"
	PrefixInvoice  = "INV"
)

// sequenceDigits ancho mínimo del consecutivo.
const sequenceDigits = 6

// PrefixFor prefijo de numeración para el tipo de factura.
func PrefixFor(t entity.InvoiceType) string {
	if t == entity.InvoiceTypeProforma {
		return PrefixProforma
	}
	return PrefixInvoice
}

// FormatNumber arma el número {PREFIX}-{year}-{secuencia de 6 dígitos}.
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, sequenceDigits, seq)
}

// ParseSequence extrae el consecutivo de un número con el prefijo y año dados.
func ParseSequence(number, prefix string, year int) (int64, bool) {
	head := fmt.Sprintf("%s-%d-", prefix, year)
	if !strings.HasPrefix(number, head) {
		return 0, false
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(number, head), 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
