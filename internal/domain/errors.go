package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrNestedUnitOfWork = errors.New("ya existe una unidad de trabajo activa en el contexto")

	// ErrIdempotencyMismatch la clave de idempotencia ya se usó con otro carrito.
	// Coincide también con ErrConflict.
	ErrIdempotencyMismatch = fmt.Errorf("%w: clave de idempotencia usada con otro carrito", ErrConflict)
)

// Tipos de fallo del ledger. Es un conjunto cerrado: todo error que devuelven
// CommitSale y RecordAdjustment coincide (errors.Is) con exactamente uno de ellos,
// salvo ErrInvalidInput / ErrConflict que se rechazan antes de abrir la transacción.
var (
	ErrUnknownProduct    = errors.New("producto desconocido")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyCart         = errors.New("carrito vacío")
	ErrPersistence       = errors.New("error de persistencia")
)

// LedgerError fallo tipado del ledger. Kind es uno de los sentinels de arriba;
// ProductID se informa cuando el fallo se refiere a un producto concreto.
type LedgerError struct {
	Kind      error
	ProductID string
	Err       error
}

func (e *LedgerError) Error() string {
	msg := e.Kind.Error()
	if e.ProductID != "" {
		msg = fmt.Sprintf("%s (producto %s)", msg, e.ProductID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is permite errors.Is(err, domain.ErrInsufficientStock) sobre un *LedgerError.
func (e *LedgerError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap expone la causa de bajo nivel (p. ej. el error de pgx).
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// InsufficientStock construye el fallo para un producto sin stock suficiente.
func InsufficientStock(productID string) error {
	return &LedgerError{Kind: ErrInsufficientStock, ProductID: productID}
}

// UnknownProduct construye el fallo para un producto inexistente.
func UnknownProduct(productID string) error {
	return &LedgerError{Kind: ErrUnknownProduct, ProductID: productID}
}

// EmptyCart construye el fallo de carrito vacío.
func EmptyCart() error {
	return &LedgerError{Kind: ErrEmptyCart}
}

// Persistence envuelve un error de infraestructura como ErrPersistence.
// Si err ya es un fallo del ledger o un error de validación, se devuelve tal cual.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConflict) {
		return err
	}
	return &LedgerError{Kind: ErrPersistence, Err: err}
}

// KindOf devuelve el tipo de fallo del ledger de err, o nil si no es uno.
func KindOf(err error) error {
	for _, kind := range []error{ErrUnknownProduct, ErrInsufficientStock, ErrEmptyCart, ErrPersistence} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// ProductIDOf devuelve el producto asociado a un *LedgerError, si lo hay.
func ProductIDOf(err error) (string, bool) {
	var le *LedgerError
	if errors.As(err, &le) && le.ProductID != "" {
		return le.ProductID, true
	}
	return "", false
}
