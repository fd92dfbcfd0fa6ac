package trade

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput carries a resolved order line before pricing
type LineInput struct {
	ProductID          uuid.UUID
	Quantity           int64
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	TaxPercentage      decimal.Decimal
}

// LineAmounts are the rounded money components of one line
type LineAmounts struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// CalculateLine prices a line: subtotal, then discount, then tax on the discounted amount
func CalculateLine(in LineInput) (LineAmounts, error) {
	if in.ProductID == uuid.Nil {
		return LineAmounts{}, shared.NewValidationError("product_id is required")
	}
	if in.Quantity <= 0 {
		return LineAmounts{}, shared.NewValidationError("quantity must be greater than 0")
	}
	if in.UnitPrice.IsNegative() {
		return LineAmounts{}, shared.NewValidationError("unit_price cannot be negative")
	}
	if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(hundred) {
		return LineAmounts{}, shared.NewValidationError("discount_percentage must be between 0 and 100")
	}
	if in.TaxPercentage.IsNegative() || in.TaxPercentage.GreaterThan(hundred) {
		return LineAmounts{}, shared.NewValidationError("tax_percentage must be between 0 and 100")
	}

	subtotal := shared.RoundMoney(in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity)))
	discount := shared.RoundMoney(shared.PercentOf(subtotal, in.DiscountPercentage))
	taxable := subtotal.Sub(discount)
	tax := shared.RoundMoney(shared.PercentOf(taxable, in.TaxPercentage))
	return LineAmounts{
		Subtotal: subtotal,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}, nil
}
