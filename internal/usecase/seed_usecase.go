package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	trm "github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

// SeedUseCase наполняет и очищает базу демо-данными.
// Это служебный bulk-клиент хранилища, а не часть транзакционного ядра.
type SeedUseCase struct {
	productRepo ProductRepository
	saleRepo    SaleRepository
	cacheRepo   CacheRepository
	trManager   trm.Manager
	logger      logger.Logger
	rng         *rand.Rand
}

func NewSeedUC(
	productRepo ProductRepository,
	saleRepo SaleRepository,
	cacheRepo CacheRepository,
	trManager trm.Manager,
	logger logger.Logger,
) *SeedUseCase {
	return &SeedUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		cacheRepo:   cacheRepo,
		trManager:   trManager,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// demoProducts — демо-каталог. Цены в минорных единицах.
func demoProducts() []domain.Product {
	mk := func(name string, buy, sell, qty int64) domain.Product {
		return domain.Product{Name: name, BuyingPrice: buy, SellingPrice: sell, Quantity: qty}
	}

	return []domain.Product{
		mk("Rice (50kg bag)", 2500000, 3200000, 15),
		mk("Vegetable Oil (5L)", 350000, 450000, 25),
		mk("Sugar (50kg)", 2800000, 3500000, 8),
		mk("Salt (1kg)", 40000, 60000, 50),
		mk("Breadcrumbs (500g)", 80000, 120000, 30),
		mk("Tomato Paste (210g)", 35000, 50000, 40),
		mk("Indomie Noodles (Carton)", 180000, 250000, 20),
		mk("Milo (400g)", 120000, 180000, 35),
		mk("Detergent (1kg)", 70000, 110000, 45),
		mk("Toothpaste (Family Size)", 45000, 75000, 60),
	}
}

// Seed создаёт демо-каталог и случайные продажи за последние 30 дней.
// Отказывает, если в базе уже есть товары.
func (s *SeedUseCase) Seed(ctx context.Context) (*SeedRes, error) {
	const (
		op          = "SeedUseCase.Seed"
		demoSales   = 50
		maxQty      = 5
		historyDays = 30
	)

	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if count > 0 {
		return nil, e.Wrap(op, e.ErrSeedDataExists)
	}

	created, err := s.productRepo.CreateBatch(ctx, demoProducts())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	salesCreated := 0
	now := time.Now()
	for i := 0; i < demoSales; i++ {
		product := created[s.rng.Intn(len(created))]
		qty := int64(s.rng.Intn(maxQty) + 1)
		saleDate := now.AddDate(0, 0, -s.rng.Intn(historyDays))

		// Списание идёт через то же условное обновление, что и обычная
		// продажа; товары без остатка просто пропускаются.
		err := s.trManager.Do(ctx, func(ctx context.Context) error {
			p, err := s.productRepo.DecrementStock(ctx, product.ID, qty)
			if err != nil {
				return err
			}

			_, err = s.saleRepo.Create(ctx, domain.NewSale(p.ID, qty, p.SellingPrice, saleDate))
			return err
		})
		if err != nil {
			if errors.Is(err, e.ErrInsufficientStock) {
				continue
			}
			return nil, e.Wrap(op, err)
		}

		salesCreated++
	}

	s.invalidateStats(op)

	return &SeedRes{
		ProductsCreated: len(created),
		SalesCreated:    salesCreated,
	}, nil
}

// Reset удаляет все продажи и товары.
func (s *SeedUseCase) Reset(ctx context.Context) error {
	const op = "SeedUseCase.Reset"

	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		// Сначала продажи: внешний ключ на товары с ON DELETE RESTRICT
		if err := s.saleRepo.DeleteAll(ctx); err != nil {
			return err
		}

		return s.productRepo.DeleteAll(ctx)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	s.invalidateStats(op)

	return nil
}

func (s *SeedUseCase) invalidateStats(op string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := s.cacheRepo.InvalidateStats(ctx); err != nil {
			s.logger.Warnf("Failed to invalidate stats cache: %v", e.Wrap(op, err))
		}
	}()
}
