package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts возвращает все товары, новые первыми.
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]productResponse, 0, len(products))
	for i := range products {
		result = append(result, *toProductResponse(&products[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// createProduct создаёт товар из JSON-тела запроса.
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := parseProductBody(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct целиком заменяет изменяемые поля товара.
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := parseProductBody(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), usecase.NewUpdateProductReq(
		id, req.Name, req.BuyingPrice, req.SellingPrice, req.Quantity,
	))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct удаляет товар без истории продаж.
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}

// parseProductBody декодирует и валидирует тело запроса товара.
func parseProductBody(r *http.Request) (*usecase.CreateProductReq, error) {
	var body productRequest

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, e.ErrStatusBadRequest
	}

	if body.Name == "" || body.BuyingPrice == nil || body.SellingPrice == nil || body.Quantity == nil {
		return nil, e.ErrMissingFields
	}

	buyingPrice, err := parsePriceToCents(body.BuyingPrice.String())
	if err != nil {
		return nil, err
	}

	sellingPrice, err := parsePriceToCents(body.SellingPrice.String())
	if err != nil {
		return nil, err
	}

	return usecase.NewCreateProductReq(body.Name, buyingPrice, sellingPrice, *body.Quantity), nil
}

// parseIDParam читает идентификатор из пути запроса.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrStatusBadRequest
	}

	return id, nil
}
