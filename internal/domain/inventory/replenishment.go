// Package inventory reúne cálculos de dominio sobre niveles de stock.
package inventory

import "github.com/shopspring/decimal"

// Shortfall unidades que faltan para que quantity alcance threshold. Nunca negativo.
func Shortfall(quantity, threshold int64) int64 {
	if quantity >= threshold {
		return 0
	}
	return threshold - quantity
}

// StockValue valor de quantity unidades a unitPrice.
func StockValue(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// RestockValue costo de reponer hasta el umbral al precio unitario actual.
// RestockValue = Shortfall(quantity, threshold) * unitPrice
func RestockValue(quantity, threshold int64, unitPrice decimal.Decimal) decimal.Decimal {
	return StockValue(Shortfall(quantity, threshold), unitPrice)
}
