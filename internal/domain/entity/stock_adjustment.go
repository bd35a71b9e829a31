package entity

import "time"

// AdjustmentKind tipo de ajuste manual de stock.
type AdjustmentKind string

// Tipos de ajuste.
const (
	AdjustmentAdd    AdjustmentKind = "ADD"    // entrada
	AdjustmentReduce AdjustmentKind = "REDUCE" // salida
)

// Valid indica si el tipo es uno de los conocidos.
func (k AdjustmentKind) Valid() bool {
	return k == AdjustmentAdd || k == AdjustmentReduce
}

// StockAdjustment registro de auditoría de un ajuste manual. Solo se inserta.
type StockAdjustment struct {
	ID            string
	ProductID     string
	QuantityDelta int64 // positivo en ADD, negativo en REDUCE
	Kind          AdjustmentKind
	Reason        string
	CreatedBy     string
	Date          time.Time
}
