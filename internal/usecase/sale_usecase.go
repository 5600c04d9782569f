package usecase

import (
	"context"
	"encoding/json"
	"time"

	trm "github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

// SaleUseCase реализует проведение продажи: проверка остатка, расчёт суммы,
// запись в журнал и списание со склада — одной транзакцией.
type SaleUseCase struct {
	productRepo ProductRepository
	saleRepo    SaleRepository
	outboxRepo  OutboxEventRepository
	cacheRepo   CacheRepository
	trManager   trm.Manager
	logger      logger.Logger
}

func NewSaleUC(
	productRepo ProductRepository,
	saleRepo SaleRepository,
	outboxRepo OutboxEventRepository,
	cacheRepo CacheRepository,
	trManager trm.Manager,
	logger logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		trManager:   trManager,
		logger:      logger,
	}
}

// RecordSale атомарно списывает остаток, фиксирует продажу с замороженной
// ценой и ставит событие sale.recorded в outbox. Либо все записи ложатся,
// либо ни одной: условное списание quantity >= qty исключает перепродажу
// при конкурентных запросах.
func (s *SaleUseCase) RecordSale(ctx context.Context, req *RecordSaleReq) (*RecordSaleRes, error) {
	const op = "SaleUseCase.RecordSale"

	if err := s.validateSale(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var res *RecordSaleRes
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.DecrementStock(ctx, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		sale, err := s.saleRepo.Create(ctx, domain.NewSale(
			product.ID, req.Quantity, product.SellingPrice, req.SaleDate,
		))
		if err != nil {
			return err
		}

		if err := s.enqueueSaleEvent(ctx, sale); err != nil {
			return err
		}

		res = &RecordSaleRes{
			SaleID:    sale.ID,
			ProductID: product.ID,
			Product:   product.Name,
			Quantity:  sale.Quantity,
			UnitPrice: sale.UnitPrice,
			Total:     sale.Total,
			SaleDate:  sale.SaleDate,
			CreatedAt: sale.CreatedAt,
			Remaining: product.Quantity,
		}

		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.invalidateStats(op)

	return res, nil
}

// ListSales возвращает журнал продаж с данными товара, новые первыми.
func (s *SaleUseCase) ListSales(ctx context.Context) ([]SaleInfo, error) {
	const op = "SaleUseCase.ListSales"

	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return sales, nil
}

// enqueueSaleEvent кладёт событие продажи в outbox в рамках текущей транзакции.
func (s *SaleUseCase) enqueueSaleEvent(ctx context.Context, sale *domain.Sale) error {
	payload, err := json.Marshal(SaleRecordedEvent{
		SaleID:    sale.ID,
		ProductID: sale.ProductID,
		Quantity:  sale.Quantity,
		UnitPrice: sale.UnitPrice,
		Total:     sale.Total,
		SaleDate:  sale.SaleDate,
	})
	if err != nil {
		return err
	}

	_, err = s.outboxRepo.Create(ctx, NewOutboxEvent(
		uuid.NewString(), EventSaleRecorded, sale.ID, sale.ProductID, payload,
	))

	return err
}

func (s *SaleUseCase) invalidateStats(op string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := s.cacheRepo.InvalidateStats(ctx); err != nil {
			s.logger.Warnf("Failed to invalidate stats cache: %v", e.Wrap(op, err))
		}
	}()
}

// validateSale проверяет входные данные запроса продажи.
func (s *SaleUseCase) validateSale(req *RecordSaleReq) error {
	if req.ProductID <= 0 {
		return e.ErrProductNotFound
	}

	if req.Quantity <= 0 {
		return e.ErrInvalidQuantity
	}

	if req.SaleDate.IsZero() {
		return e.ErrInvalidSaleDate
	}

	return nil
}
