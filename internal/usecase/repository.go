package usecase

import (
	"context"
	"time"

	"github.com/shoplite/pos-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)

	// DecrementStock атомарно уменьшает остаток при условии quantity >= qty
	// и возвращает товар после списания. Возвращает e.ErrProductNotFound либо
	// e.InsufficientStockError, если условие не выполнено.
	DecrementStock(ctx context.Context, id, qty int64) (*domain.Product, error)

	// StockValue возвращает сумму buying_price * quantity по всем товарам.
	StockValue(ctx context.Context) (int64, error)

	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, products []domain.Product) ([]domain.Product, error)
	DeleteAll(ctx context.Context) error
}

type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
	List(ctx context.Context) ([]SaleInfo, error)
	HasSalesForProduct(ctx context.Context, productID int64) (bool, error)

	// Aggregate считает выручку, себестоимость и число продаж c saleDate >= since.
	// since == nil означает отсутствие ограничения по времени.
	Aggregate(ctx context.Context, since *time.Time) (*SalesAggregate, error)

	DeleteAll(ctx context.Context) error
}

type OutboxEventRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsPending(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetStats возвращает (nil, nil) при промахе кэша.
	GetStats(ctx context.Context, window string) (*Stats, error)
	SetStats(ctx context.Context, stats *Stats) error
	InvalidateStats(ctx context.Context) error
}
