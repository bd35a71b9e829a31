package http

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal como numérico para que min=0 / gt=0 funcionen.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate parsea el body JSON y aplica las reglas validate. Devuelve nil si es válido.
func bindAndValidate(c *fiber.Ctx, req interface{}) *dto.ErrorResponse {
	if err := c.BodyParser(req); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &dto.ErrorResponse{Code: "VALIDATION", Message: verrs[0].Namespace() + ": " + verrs[0].Tag()}
		}
		return &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	}
	return nil
}

// errorStatus traduce un error de la capa de aplicación a status HTTP y código.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusBadRequest, "EMPTY_CART", "el carrito no tiene líneas"
	case errors.Is(err, domain.ErrUnknownProduct):
		return fiber.StatusNotFound, "UNKNOWN_PRODUCT", "producto desconocido"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusServiceUnavailable, "PERSISTENCE_ERROR", "la operación falló y puede reintentarse"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", "datos inválidos"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", "recurso duplicado"
	case errors.Is(err, domain.ErrIdempotencyMismatch):
		return fiber.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED", "la clave de idempotencia ya se usó con otro carrito"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", "operación en curso con la misma clave de idempotencia"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno"
}

// writeError responde con el ErrorResponse del error. Incluye product_id en fallos del ledger.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := errorStatus(err)
	resp := dto.ErrorResponse{Code: code, Message: msg}
	if id, ok := domain.ProductIDOf(err); ok {
		resp.ProductID = id
	}
	if status >= fiber.StatusInternalServerError {
		// el detalle lo registra el request logger
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(resp)
}
