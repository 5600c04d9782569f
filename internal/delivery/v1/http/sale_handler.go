package http

import (
	"encoding/json"
	"net/http"

	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

type SaleHandler struct {
	saleUsecase usecase.SaleUC
	logger      logger.Logger
}

func NewSaleHandler(saleUsecase usecase.SaleUC, logger logger.Logger) *SaleHandler {
	return &SaleHandler{saleUsecase: saleUsecase, logger: logger}
}

// listSales возвращает журнал продаж с данными товара.
func (s *SaleHandler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.saleUsecase.ListSales(r.Context())
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]saleResponse, 0, len(sales))
	for i := range sales {
		result = append(result, toSaleResponse(&sales[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// recordSale проводит продажу: проверка остатка, списание и запись в журнал
// выполняются в одной транзакции.
func (s *SaleHandler) recordSale(w http.ResponseWriter, r *http.Request) {
	var body saleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if body.ProductID == nil || body.Quantity == nil || body.SaleDate == "" {
		WriteError(w, e.ErrMissingFields)
		return
	}

	saleDate, err := parseSaleDate(body.SaleDate)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := s.saleUsecase.RecordSale(r.Context(), usecase.NewRecordSaleReq(
		*body.ProductID, *body.Quantity, saleDate,
	))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toRecordSaleResponse(res))
}
