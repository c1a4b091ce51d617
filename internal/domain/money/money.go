// Package money reúne las reglas numéricas de montos: decimal redondeado a centavos.
package money

import "github.com/shopspring/decimal"

// Places decimales de la moneda.
const Places = 2

// Round redondea a centavos.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative devuelve d o cero si d es negativo.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum suma los montos.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Cents convierte a unidades menores (centavos).
func Cents(d decimal.Decimal) int64 {
	return Round(d).Shift(Places).IntPart()
}

// FromCents construye un monto desde centavos.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -Places)
}
