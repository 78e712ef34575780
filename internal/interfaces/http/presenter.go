package http

import (
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/application/dto"
	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toDebtResponse(b *entity.Billboard, s domainbilling.DebtSnapshot) dto.DebtResponse {
	out := dto.DebtResponse{
		BillboardID:              b.ID,
		Code:                     b.Code,
		Status:                   string(b.Status),
		AnnualRate:               s.AnnualRate.Round(2),
		InstallDate:              s.InstallDate.Format(dateLayout),
		YearsSinceInstall:        s.YearsSinceInstall,
		TotalOwed:                s.TotalOwed.Round(2),
		TotalPaid:                s.TotalPaid.Round(2),
		CurrentDebt:              s.CurrentDebt.Round(2),
		YearsInDebt:              s.YearsInDebt,
		PenaltyAmount:            s.PenaltyAmount.Round(2),
		TaxAmount:                s.TaxAmount.Round(2),
		TotalWithPenaltiesAndTax: s.TotalWithPenaltiesAndTax.Round(2),
		RateUnresolved:           s.RateUnresolved,
	}
	if s.NextPaymentDue != nil {
		out.NextPaymentDue = s.NextPaymentDue.Format(dateLayout)
	}
	return out
}

func toClientDebtResponse(sum *billing.ClientDebtSummary) dto.ClientDebtResponse {
	return dto.ClientDebtResponse{
		ClientID:                 sum.ClientID,
		TotalDebt:                sum.TotalDebt.Round(2),
		TotalWithPenaltiesAndTax: sum.TotalWithPenaltiesAndTax.Round(2),
		BillboardsInDebt:         sum.BillboardsInDebt,
		Billboards: lo.Map(sum.Billboards, func(d billing.BillboardDebt, _ int) dto.DebtResponse {
			return toDebtResponse(d.Billboard, d.Debt)
		}),
	}
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	out := dto.PaymentResponse{
		ID:              p.ID,
		ReferenceNumber: p.ReferenceNumber,
		Amount:          p.Amount,
		Status:          string(p.Status),
		BillboardID:     p.BillboardID,
		ClientID:        p.ClientID,
		ValidatedBy:     p.ValidatedBy,
		RejectionReason: p.RejectionReason,
	}
	if p.ValidatedAt != nil {
		out.ValidatedAt = p.ValidatedAt.Format(time.RFC3339)
	}
	return out
}

func toTransitionResponse(r billing.TransitionResult) dto.TransitionResponse {
	return dto.TransitionResponse{
		BillboardID: r.BillboardID,
		From:        string(r.From),
		To:          string(r.To),
		Changed:     r.Changed,
	}
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		Type:        string(inv.Type),
		Status:      string(inv.Status),
		Amount:      inv.Amount,
		TaxAmount:   inv.TaxAmount,
		TotalAmount: inv.TotalAmount,
		IssueDate:   inv.IssueDate.Format(dateLayout),
		DueDate:     inv.DueDate.Format(dateLayout),
		ClientID:    inv.ClientID,
		BillboardID: inv.BillboardID,
		Notes:       inv.Notes,
	}
}

func toSweepResponse(res reconciliation.SweepResult, err error) dto.SweepResponse {
	out := dto.SweepResponse{
		Sweep:     string(res.Sweep),
		Processed: res.Processed,
		Affected:  res.Affected,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
	}
	if !res.StartedAt.IsZero() {
		out.StartedAt = res.StartedAt.Format(time.RFC3339)
	}
	if !res.FinishedAt.IsZero() {
		out.FinishedAt = res.FinishedAt.Format(time.RFC3339)
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
