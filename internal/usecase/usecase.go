package usecase

import (
	"context"

	"github.com/shoplite/pos-backend/internal/domain"
)

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type SaleUC interface {
	RecordSale(ctx context.Context, req *RecordSaleReq) (*RecordSaleRes, error)
	ListSales(ctx context.Context) ([]SaleInfo, error)
}

type StatsUC interface {
	GetStats(ctx context.Context, window string) (*Stats, error)
}

type SeedUC interface {
	Seed(ctx context.Context) (*SeedRes, error)
	Reset(ctx context.Context) error
}
