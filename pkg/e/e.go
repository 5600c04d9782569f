package e

import "fmt"

var (
	// Внутренние ошибки
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be greater than 0")
	ErrNegativeQuantity    = fmt.Errorf("quantity must be non-negative")
	ErrInvalidSaleDate     = fmt.Errorf("invalid sale date")
	ErrSeedDataExists      = fmt.Errorf("demo data already exists, clear the database first")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 409 Conflict
	ErrProductNameExists = fmt.Errorf("product with this name already exists")
	ErrProductHasSales   = fmt.Errorf("product has sale history and cannot be deleted")

	// 400 Bad Request, см. InsufficientStockError
	ErrInsufficientStock = fmt.Errorf("insufficient stock")
)

// InsufficientStockError сообщает фактический доступный остаток.
// errors.Is(err, ErrInsufficientStock) возвращает true для этой ошибки.
type InsufficientStockError struct {
	Available int64
}

func NewInsufficientStockError(available int64) *InsufficientStockError {
	return &InsufficientStockError{Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock, only %d units available", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
