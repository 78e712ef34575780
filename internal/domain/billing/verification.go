package billing

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VerificationInput datos impresos del documento que entran en la huella.
type VerificationInput struct {
	Number      string
	IssueDate   time.Time
	Amount      decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	IssuerTaxID string
	ClientTaxID string
}

// VerificationCode huella SHA-384 en hexadecimal del documento, impresa en el QR del PDF.
// Cadena (sin separadores): Number + IssueDate(YYYY-MM-DD) + Amount + TaxAmount + TotalAmount +
// IssuerTaxID + ClientTaxID. Montos con punto decimal y 2 decimales; NUIT solo dígitos.
func VerificationCode(in VerificationInput) string {
	chain := strings.Join(strings.Fields(in.Number), "") +
		in.IssueDate.Format("2006-01-02") +
		formatAmount(in.Amount) +
		formatAmount(in.TaxAmount) +
		formatAmount(in.TotalAmount) +
		onlyDigits(in.IssuerTaxID) +
		onlyDigits(in.ClientTaxID)

	hash := sha512.Sum384([]byte(chain))
	return hex.EncodeToString(hash[:])
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
