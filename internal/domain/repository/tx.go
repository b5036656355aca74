package repository

// Tx agrupa los repositorios atados a una misma transacción de base de
// datos. Los TxRunner de cada capa de aplicación reciben este paquete en su
// callback: todo lo que se haga con estos repos es commit-o-rollback como
// unidad.
type Tx struct {
	Products   ProductRepository
	Sales      SaleRepository
	Purchases  PurchaseRepository
	Quotations QuotationRepository
	Movements  InventoryMovementRepository
	Sequences  SequenceRepository
}
