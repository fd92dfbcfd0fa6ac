package shared

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places stored for amounts
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount half away from zero to two decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// PercentOf returns amount * pct / 100
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// PercentChange returns delta / base * 100 rounded to two places.
// A zero base yields zero when delta is zero and 100 otherwise.
func PercentChange(delta, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		if delta.IsZero() {
			return decimal.Zero
		}
		if delta.IsNegative() {
			return hundred.Neg()
		}
		return hundred
	}
	return delta.Div(base).Mul(hundred).Round(MoneyScale)
}
