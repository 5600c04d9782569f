package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

// ProductUseCase реализует управление жизненным циклом товаров:
// создание, полное обновление, удаление и листинг.
type ProductUseCase struct {
	productRepo ProductRepository
	saleRepo    SaleRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	saleRepo SaleRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// CreateProduct создаёт товар с уникальным именем.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := validateProductFields(req.Name, req.BuyingPrice, req.SellingPrice, req.Quantity); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Create(ctx, domain.NewProduct(
		strings.TrimSpace(req.Name), req.BuyingPrice, req.SellingPrice, req.Quantity,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateStats(op)

	return product, nil
}

// UpdateProduct заменяет все изменяемые поля товара целиком.
// Переименование проверяется на коллизию с другим существующим товаром.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := validateProductFields(req.Name, req.BuyingPrice, req.SellingPrice, req.Quantity); err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := p.productRepo.GetByID(ctx, req.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Update(ctx, &domain.Product{
		ID:           req.ID,
		Name:         strings.TrimSpace(req.Name),
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateStats(op)

	return product, nil
}

// DeleteProduct удаляет товар без истории продаж.
// Товар с продажами не удаляется, чтобы не осиротить журнал.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if _, err := p.productRepo.GetByID(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	hasSales, err := p.saleRepo.HasSalesForProduct(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if hasSales {
		return e.Wrap(op, e.ErrProductHasSales)
	}

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateStats(op)

	return nil
}

// ListProducts возвращает все товары, новые первыми.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// invalidateStats сбрасывает кэш статистики в фоне, ошибки только логируются.
func (p *ProductUseCase) invalidateStats(op string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.InvalidateStats(ctx); err != nil {
			p.logger.Warnf("Failed to invalidate stats cache: %v", e.Wrap(op, err))
		}
	}()
}

// validateProductFields проверяет инварианты товара на границе бизнес-логики.
func validateProductFields(name string, buyingPrice, sellingPrice, quantity int64) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}

	if buyingPrice < 0 || sellingPrice < 0 {
		return e.ErrInvalidPrice
	}

	if quantity < 0 {
		return e.ErrNegativeQuantity
	}

	return nil
}
