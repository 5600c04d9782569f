package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shoplite/pos-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse переводит ошибки бизнес-логики в HTTP-статусы:
// валидация — 400, отсутствие сущности — 404, конфликты — 409,
// нехватка остатка — 400 с фактическим остатком в сообщении.
func ToHTTPResponse(err error) (int, string) {
	var insufficient *e.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusBadRequest, insufficient.Error()
	}

	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusBadRequest, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrNegativeQuantity):
		return http.StatusBadRequest, e.ErrNegativeQuantity.Error()
	case errors.Is(err, e.ErrInvalidSaleDate):
		return http.StatusBadRequest, e.ErrInvalidSaleDate.Error()
	case errors.Is(err, e.ErrSeedDataExists):
		return http.StatusBadRequest, e.ErrSeedDataExists.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrProductNameExists):
		return http.StatusConflict, e.ErrProductNameExists.Error()
	case errors.Is(err, e.ErrProductHasSales):
		return http.StatusConflict, e.ErrProductHasSales.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents конвертирует строку вида "599.99" или "600" в минорные единицы.
// Отклоняет отрицательные значения, более двух знаков после запятой
// и значения за разумным пределом.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrMissingFields
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// formatPrice форматирует минорные единицы обратно в десятичную строку.
func formatPrice(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// parseSaleDate принимает дату продажи как "2006-01-02" или RFC3339.
func parseSaleDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, e.ErrMissingFields
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, e.ErrInvalidSaleDate
	}

	return t, nil
}
