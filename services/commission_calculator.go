package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

// RoundMoney rounds a monetary amount to two decimal places using
// round-half-to-even.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}

// CalculateCommission computes the commission breakdown for a sale. Pure
// function: no I/O, no side effects. Validation failures return a
// ValidationError and no partial result.
//
// The fee is deducted stream-locally: under the "both" basis each stream
// bears the fee on its own gross amount, which keeps the deduction
// proportional to each stream's contribution. Commission amounts are rounded
// once per role, after summation over streams.
func CalculateCommission(data models.SaleData, rates models.RateConfiguration) (*models.CommissionBreakdown, error) {
	if data.VersementInitial < 0 {
		return nil, utils.NewValidationError("versementInitial must not be negative")
	}
	if data.VersementMensuel < 0 {
		return nil, utils.NewValidationError("versementMensuel must not be negative")
	}
	if data.FraisTaux != nil && (*data.FraisTaux < 0 || *data.FraisTaux > 1) {
		return nil, utils.NewValidationError("fraisTaux must be between 0 and 1")
	}

	fraisSur := data.FraisSur
	if fraisSur == "" {
		fraisSur = models.FraisSurBoth
	}
	switch fraisSur {
	case models.FraisSurInitial, models.FraisSurMensuel, models.FraisSurBoth:
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("fraisSur must be one of initial, mensuel or both, got %q", fraisSur))
	}

	if err := validateRates(rates); err != nil {
		return nil, err
	}

	fraisTaux := rates.DefaultFraisTaux
	if data.FraisTaux != nil {
		fraisTaux = *data.FraisTaux
	}

	versementInitial := decimal.NewFromFloat(data.VersementInitial)
	versementMensuel := decimal.NewFromFloat(data.VersementMensuel)
	feeRate := decimal.NewFromFloat(fraisTaux)

	feeInitial := decimal.Zero
	feeMensuel := decimal.Zero
	if fraisSur == models.FraisSurInitial || fraisSur == models.FraisSurBoth {
		feeInitial = versementInitial.Mul(feeRate)
	}
	if fraisSur == models.FraisSurMensuel || fraisSur == models.FraisSurBoth {
		feeMensuel = versementMensuel.Mul(feeRate)
	}

	netInitial := versementInitial.Sub(feeInitial)
	netMensuel := versementMensuel.Sub(feeMensuel)
	feeTotal := feeInitial.Add(feeMensuel)
	grossBase := versementInitial.Add(versementMensuel)

	breakdown := &models.CommissionBreakdown{
		FraisTaux:    fraisTaux,
		FraisSur:     fraisSur,
		FeeAmount:    feeTotal.RoundBank(2).InexactFloat64(),
		NetInitial:   netInitial.RoundBank(2).InexactFloat64(),
		NetMensuel:   netMensuel.RoundBank(2).InexactFloat64(),
		Organization: roleCommission(rates.Organization, netInitial, netMensuel, grossBase, feeTotal),
		Advisor:      roleCommission(rates.Advisor, netInitial, netMensuel, grossBase, feeTotal),
	}
	return breakdown, nil
}

func roleCommission(rates models.StreamRates, netInitial, netMensuel, grossBase, feeTotal decimal.Decimal) models.RoleCommission {
	initialRate := decimal.NewFromFloat(rates.Initial)
	mensuelRate := decimal.NewFromFloat(rates.Mensuel)

	// Single rounding per role, after summation over streams.
	amount := netInitial.Mul(initialRate).Add(netMensuel.Mul(mensuelRate))

	return models.RoleCommission{
		Amount:      amount.RoundBank(2).InexactFloat64(),
		GrossBase:   grossBase.InexactFloat64(),
		FeeAmount:   feeTotal.RoundBank(2).InexactFloat64(),
		InitialRate: rates.Initial,
		MensuelRate: rates.Mensuel,
	}
}

func validateRates(rates models.RateConfiguration) error {
	if rates.DefaultFraisTaux < 0 || rates.DefaultFraisTaux > 1 {
		return utils.NewValidationError("product default fee rate must be between 0 and 1")
	}
	for _, r := range []float64{
		rates.Organization.Initial, rates.Organization.Mensuel,
		rates.Advisor.Initial, rates.Advisor.Mensuel,
	} {
		if r < 0 || r > 1 {
			return utils.NewValidationError("commission rates must be between 0 and 1")
		}
	}

	// Both beneficiaries draw from the same net base per stream, so their
	// combined rate must not overdraw it.
	one := decimal.NewFromInt(1)
	initialSum := decimal.NewFromFloat(rates.Organization.Initial).Add(decimal.NewFromFloat(rates.Advisor.Initial))
	if initialSum.GreaterThan(one) {
		return utils.NewValidationError("combined initial commission rates must not exceed 1")
	}
	mensuelSum := decimal.NewFromFloat(rates.Organization.Mensuel).Add(decimal.NewFromFloat(rates.Advisor.Mensuel))
	if mensuelSum.GreaterThan(one) {
		return utils.NewValidationError("combined mensuel commission rates must not exceed 1")
	}
	return nil
}
