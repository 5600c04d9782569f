package http

import (
	"encoding/json"
	"time"

	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/internal/usecase"
)

// productRequest — тело запроса создания/обновления товара.
// Цены принимаются и числом, и строкой, количество — целым числом.
type productRequest struct {
	Name         string       `json:"name"`
	BuyingPrice  *json.Number `json:"buyingPrice"`
	SellingPrice *json.Number `json:"sellingPrice"`
	Quantity     *int64       `json:"quantity"`
}

type productResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	BuyingPrice  string     `json:"buyingPrice"`
	SellingPrice string     `json:"sellingPrice"`
	Quantity     int64      `json:"quantity"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type saleRequest struct {
	ProductID *int64 `json:"productId"`
	Quantity  *int64 `json:"quantity"`
	SaleDate  string `json:"saleDate"`
}

type saleResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"product"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   string    `json:"unitPrice"`
	Total       string    `json:"total"`
	SaleDate    time.Time `json:"saleDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type recordSaleResponse struct {
	saleResponse
	Remaining int64 `json:"remaining"`
}

type statsResponse struct {
	TotalSales string `json:"totalSales"`
	Cogs       string `json:"cogs"`
	Profit     string `json:"profit"`
	StockValue string `json:"stockValue"`
	SalesCount int64  `json:"salesCount"`
	Filter     string `json:"filter"`
}

type seedResponse struct {
	Message         string `json:"message"`
	ProductsCreated int    `json:"productsCreated"`
	SalesCreated    int    `json:"salesCreated"`
}

func toProductResponse(p *domain.Product) *productResponse {
	return &productResponse{
		ID:           p.ID,
		Name:         p.Name,
		BuyingPrice:  formatPrice(p.BuyingPrice),
		SellingPrice: formatPrice(p.SellingPrice),
		Quantity:     p.Quantity,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toSaleResponse(s *usecase.SaleInfo) saleResponse {
	return saleResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		UnitPrice:   formatPrice(s.UnitPrice),
		Total:       formatPrice(s.Total),
		SaleDate:    s.SaleDate,
		CreatedAt:   s.CreatedAt,
	}
}

func toRecordSaleResponse(res *usecase.RecordSaleRes) *recordSaleResponse {
	return &recordSaleResponse{
		saleResponse: saleResponse{
			ID:          res.SaleID,
			ProductID:   res.ProductID,
			ProductName: res.Product,
			Quantity:    res.Quantity,
			UnitPrice:   formatPrice(res.UnitPrice),
			Total:       formatPrice(res.Total),
			SaleDate:    res.SaleDate,
			CreatedAt:   res.CreatedAt,
		},
		Remaining: res.Remaining,
	}
}

func toStatsResponse(s *usecase.Stats) *statsResponse {
	return &statsResponse{
		TotalSales: formatPrice(s.TotalSales),
		Cogs:       formatPrice(s.Cogs),
		Profit:     formatPrice(s.Profit),
		StockValue: formatPrice(s.StockValue),
		SalesCount: s.SalesCount,
		Filter:     s.Window,
	}
}
