package services

import (
	"github.com/shopspring/decimal"
)

// Superannuation is paid by the employer on top of gross and is reported
// on the payslip but never subtracted from net pay. The rate is fixed.
var superRate = decimal.RequireFromString("0.115")

type PayInput struct {
	Hours           float64
	Rate            float64
	Bonus           float64
	TaxPercent      float64
	OtherDeductions float64
}

type PayBreakdown struct {
	Gross float64
	Tax   float64
	Super float64
	Net   float64
}

// CalculatePay computes one pay event:
//
//	gross = hours*rate + bonus - other_deductions
//	tax   = gross * tax_percent/100
//	super = gross * 11.5%
//	net   = gross - tax
//
// Amounts are computed with exact decimal arithmetic and rounded to cents.
func CalculatePay(in PayInput) PayBreakdown {
	hours := decimal.NewFromFloat(in.Hours)
	rate := decimal.NewFromFloat(in.Rate)
	bonus := decimal.NewFromFloat(in.Bonus)
	taxPct := decimal.NewFromFloat(in.TaxPercent)
	other := decimal.NewFromFloat(in.OtherDeductions)

	gross := hours.Mul(rate).Add(bonus).Sub(other).Round(2)
	tax := gross.Mul(taxPct).Div(decimal.NewFromInt(100)).Round(2)
	super := gross.Mul(superRate).Round(2)
	net := gross.Sub(tax)

	return PayBreakdown{
		Gross: gross.InexactFloat64(),
		Tax:   tax.InexactFloat64(),
		Super: super.InexactFloat64(),
		Net:   net.InexactFloat64(),
	}
}
