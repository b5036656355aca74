// Package billing contiene el cálculo puro de totales de documentos de venta
// (ventas y cotizaciones comparten la misma aritmética).
package billing

import "github.com/shopspring/decimal"

// VATRate tasa de IVA fija del negocio (16%).
var VATRate = decimal.NewFromInt(16)

var hundred = decimal.NewFromInt(100)

// LineInput una línea a totalizar: cantidad, precio unitario y porcentajes
// de descuento e impuesto por línea.
type LineInput struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Discount decimal.Decimal // %
	Tax      decimal.Decimal // %
}

// LineTotals resultado del cálculo de una línea.
type LineTotals struct {
	Subtotal decimal.Decimal // Quantity × Price
	Discount decimal.Decimal // Subtotal × Discount%/100
	Tax      decimal.Decimal // (Subtotal − Discount) × Tax%/100
	Total    decimal.Decimal // Subtotal − Discount + Tax
}

// DocumentTotals resultado agregado del documento.
type DocumentTotals struct {
	Subtotal decimal.Decimal // Σ subtotales de línea
	Discount decimal.Decimal // Subtotal × descuento global %/100
	Tax      decimal.Decimal // (Subtotal − Discount) × IVA/100
	Total    decimal.Decimal // Subtotal − Discount + Tax
}

// ComputeLine calcula los montos de una línea, redondeados a 2 decimales.
func ComputeLine(in LineInput) LineTotals {
	subtotal := in.Quantity.Mul(in.Price).Round(2)
	discount := subtotal.Mul(in.Discount).Div(hundred).Round(2)
	tax := subtotal.Sub(discount).Mul(in.Tax).Div(hundred).Round(2)
	return LineTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(tax),
	}
}

// ComputeDocument agrega las líneas y aplica el descuento global y el IVA
// fijo del 16% sobre la base descontada. Invariante:
// Total == Subtotal − Discount + Tax (2 decimales).
func ComputeDocument(lines []LineInput, globalDiscountPct decimal.Decimal) DocumentTotals {
	var subtotal decimal.Decimal
	for _, l := range lines {
		subtotal = subtotal.Add(l.Quantity.Mul(l.Price).Round(2))
	}
	discount := subtotal.Mul(globalDiscountPct).Div(hundred).Round(2)
	tax := subtotal.Sub(discount).Mul(VATRate).Div(hundred).Round(2)
	return DocumentTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(tax),
	}
}
