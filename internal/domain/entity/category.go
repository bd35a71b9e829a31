package entity

import "time"

// Category representa una categoría de productos.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// CategoryThreshold umbral configurado de stock bajo para una categoría.
type CategoryThreshold struct {
	CategoryID string
	Threshold  int64
}
