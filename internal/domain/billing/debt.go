// Package billing contiene las reglas puras de cobro de vallas: cálculo de
// deuda, máquina de estados del ciclo de vida y formato de numeración.
// No accede a persistencia; todo dato entra como instantánea inmutable.
package billing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// Parámetros fiscales del cálculo de deuda.
var (
	TaxRate            = decimal.NewFromFloat(0.16) // IVA
	MonthlyPenaltyRate = decimal.NewFromFloat(0.02) // multa mensual sobre la deuda vencida
)

// daysPerYear aproximación de año usada para contar años de instalación.
const daysPerYear = 365

// DebtInput instantánea de datos para calcular la deuda de una valla.
// PricePerM2 es nil cuando no se pudo resolver tarifa.
type DebtInput struct {
	Billboard  *entity.Billboard
	Payments   []*entity.Payment
	PricePerM2 *decimal.Decimal
}

// DebtSnapshot resultado derivado; nunca se persiste.
type DebtSnapshot struct {
	BillboardID              string
	AnnualRate               decimal.Decimal
	InstallDate              time.Time
	YearsSinceInstall        int64
	TotalOwed                decimal.Decimal
	TotalPaid                decimal.Decimal
	CurrentDebt              decimal.Decimal
	YearsInDebt              int64
	PenaltyAmount            decimal.Decimal
	TaxAmount                decimal.Decimal
	TotalWithPenaltiesAndTax decimal.Decimal
	NextPaymentDue           *time.Time
	// RateUnresolved indica que no hubo tarifa almacenada ni tarifa por zona:
	// la deuda se reporta en cero pero no debe interpretarse como "al día".
	RateUnresolved bool
}

// HasDebt indica deuda pendiente.
func (s DebtSnapshot) HasDebt() bool { return s.CurrentDebt.IsPositive() }

// InDebtThreshold indica si la deuda alcanza al menos un año completo de tarifa.
func (s DebtSnapshot) InDebtThreshold() bool {
	return s.CurrentDebt.IsPositive() && s.YearsInDebt > 0
}

// AnnualRate tarifa anual de la valla: la almacenada si existe y no es cero,
// si no área × precio por m². Devuelve false si no puede determinarse.
func AnnualRate(b *entity.Billboard, pricePerM2 *decimal.Decimal) (decimal.Decimal, bool) {
	if b.HasStoredFee() {
		return b.AnnualFee.Decimal, true
	}
	if pricePerM2 == nil {
		return decimal.Zero, false
	}
	area, ok := b.SurfaceArea()
	if !ok {
		return decimal.Zero, false
	}
	return area.Mul(*pricePerM2), true
}

// YearsSinceInstall años iniciados desde la instalación (aproximación de 365 días), mínimo 1.
func YearsSinceInstall(install, now time.Time) int64 {
	elapsed := now.Sub(install)
	years := int64(math.Ceil(elapsed.Hours() / (24 * daysPerYear)))
	if years < 1 {
		return 1
	}
	return years
}

// NextPaymentDue primer día del mes en curso si hoy es día 1; si no, primer día del mes siguiente.
func NextPaymentDue(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if now.Day() == 1 {
		return first
	}
	return first.AddDate(0, 1, 0)
}

// CalculateDebt calcula la deuda de la valla a la fecha now.
// El redondeo a 2 decimales se aplica solo al presentar el resultado.
func CalculateDebt(in DebtInput, now time.Time) DebtSnapshot {
	b := in.Billboard
	rate, resolved := AnnualRate(b, in.PricePerM2)

	snap := DebtSnapshot{
		BillboardID:    b.ID,
		AnnualRate:     rate,
		InstallDate:    b.InstallDate(),
		RateUnresolved: !resolved,
	}
	snap.YearsSinceInstall = YearsSinceInstall(snap.InstallDate, now)
	snap.TotalOwed = rate.Mul(decimal.NewFromInt(snap.YearsSinceInstall))

	paid := decimal.Zero
	for _, p := range in.Payments {
		if p.Status == entity.PaymentValidated {
			paid = paid.Add(p.Amount)
		}
	}
	snap.TotalPaid = paid

	snap.CurrentDebt = decimal.Max(decimal.Zero, snap.TotalOwed.Sub(paid))

	if rate.IsPositive() {
		snap.YearsInDebt = snap.CurrentDebt.Div(rate).Floor().IntPart()
	}

	snap.PenaltyAmount = decimal.Zero
	if snap.YearsInDebt > 0 {
		months := decimal.NewFromInt(snap.YearsInDebt * 12)
		snap.PenaltyAmount = snap.CurrentDebt.Mul(MonthlyPenaltyRate).Mul(months)
	}
	snap.TaxAmount = snap.CurrentDebt.Add(snap.PenaltyAmount).Mul(TaxRate)
	snap.TotalWithPenaltiesAndTax = snap.CurrentDebt.Add(snap.PenaltyAmount).Add(snap.TaxAmount)

	if snap.HasDebt() {
		due := NextPaymentDue(now)
		snap.NextPaymentDue = &due
	}
	return snap
}
