package entity

import "fmt"

// Tipos de documento con consecutivo propio.
const (
	DocTypeSale      = "SALE"
	DocTypePurchase  = "PURCH"
	DocTypeQuotation = "COT"
)

// DocumentSequence es el contador persistente por (tipo, año). El incremento
// se hace con un UPSERT atómico en la base, nunca leyendo el último número.
type DocumentSequence struct {
	DocType    string
	Year       int
	LastNumber int
}

// FormatDocumentNumber produce el consecutivo humano-legible:
// SALE-2026-00001, PURCH-2026-00001, COT-2026-00001. El formato debe
// preservarse exactamente por compatibilidad con datos existentes.
func FormatDocumentNumber(docType string, year, n int) string {
	return fmt.Sprintf("%s-%d-%05d", docType, year, n)
}
