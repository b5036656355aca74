package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/billing"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// Caso de referencia: 2 × $10 sin descuentos → subtotal 20.00,
// IVA 16% = 3.20, total 23.20.
func TestComputeDocument_CasoReferencia(t *testing.T) {
	out := billing.ComputeDocument([]billing.LineInput{
		{Quantity: dec("2"), Price: dec("10"), Discount: decimal.Zero, Tax: decimal.Zero},
	}, decimal.Zero)

	assert.True(t, out.Subtotal.Equal(dec("20.00")), "subtotal = %s", out.Subtotal)
	assert.True(t, out.Discount.Equal(dec("0")), "descuento = %s", out.Discount)
	assert.True(t, out.Tax.Equal(dec("3.20")), "iva = %s", out.Tax)
	assert.True(t, out.Total.Equal(dec("23.20")), "total = %s", out.Total)
}

// Invariante: Total == Subtotal − Discount + Tax para combinaciones variadas.
func TestComputeDocument_Invariante(t *testing.T) {
	cases := []struct {
		name     string
		lines    []billing.LineInput
		discount decimal.Decimal
	}{
		{"una línea sin descuento", []billing.LineInput{{Quantity: dec("3"), Price: dec("45.50")}}, decimal.Zero},
		{"descuento global 10%", []billing.LineInput{{Quantity: dec("1"), Price: dec("99.99")}}, dec("10")},
		{"varias líneas", []billing.LineInput{
			{Quantity: dec("2"), Price: dec("15.75")},
			{Quantity: dec("0.5"), Price: dec("120")}, // medio metro de cable
			{Quantity: dec("12"), Price: dec("3.33")},
		}, dec("5")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := billing.ComputeDocument(tc.lines, tc.discount)
			expected := out.Subtotal.Sub(out.Discount).Add(out.Tax)
			assert.True(t, out.Total.Equal(expected),
				"total %s != subtotal %s - desc %s + iva %s",
				out.Total, out.Subtotal, out.Discount, out.Tax)
		})
	}
}

// Los montos por línea: descuento sobre el subtotal, impuesto sobre la base
// descontada.
func TestComputeLine(t *testing.T) {
	out := billing.ComputeLine(billing.LineInput{
		Quantity: dec("4"),
		Price:    dec("25"),
		Discount: dec("10"),
		Tax:      dec("16"),
	})
	require.True(t, out.Subtotal.Equal(dec("100")), "subtotal = %s", out.Subtotal)
	assert.True(t, out.Discount.Equal(dec("10")), "descuento = %s", out.Discount)
	// (100 - 10) × 16% = 14.40
	assert.True(t, out.Tax.Equal(dec("14.40")), "impuesto = %s", out.Tax)
	assert.True(t, out.Total.Equal(dec("104.40")), "total = %s", out.Total)
}

// El compra-venta de la compra no lleva descuento: subtotal × 1.16.
func TestComputeDocument_CompraSinDescuento(t *testing.T) {
	// 10 unidades a costo 5 → 50.00 + 8.00 = 58.00
	out := billing.ComputeDocument([]billing.LineInput{
		{Quantity: dec("10"), Price: dec("5")},
	}, decimal.Zero)
	assert.True(t, out.Total.Equal(dec("58.00")), "total = %s", out.Total)
}
