package usecase

import (
	"context"
	"time"

	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

// StatsUseCase считает выручку, себестоимость, прибыль и стоимость склада
// за окно today/week/month/all. Только чтение, состояние не меняет.
type StatsUseCase struct {
	productRepo ProductRepository
	saleRepo    SaleRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
	now         func() time.Time
}

func NewStatsUC(
	productRepo ProductRepository,
	saleRepo SaleRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// GetStats возвращает показатели за окно. Неизвестный фильтр — как "all".
// Результат кэшируется по окну с коротким TTL; промах и ошибки кэша
// прозрачно уходят в БД.
func (s *StatsUseCase) GetStats(ctx context.Context, window string) (*Stats, error) {
	const op = "StatsUseCase.GetStats"

	window = NormalizeWindow(window)

	cached, err := s.cacheRepo.GetStats(ctx, window)
	if err != nil {
		s.logger.Warnf("Stats cache read failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	since := s.windowStart(window)

	agg, err := s.saleRepo.Aggregate(ctx, since)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stockValue, err := s.productRepo.StockValue(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stats := &Stats{
		TotalSales: agg.TotalSales,
		Cogs:       agg.Cogs,
		Profit:     agg.TotalSales - agg.Cogs,
		StockValue: stockValue,
		SalesCount: agg.SalesCount,
		Window:     window,
	}

	// Фоновое кэширование, по образцу кэширования продуктов
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := s.cacheRepo.SetStats(bgCtx, stats); err != nil {
			s.logger.Warnf("Failed to cache stats in background: %v", e.Wrap(op, err))
		}
	}()

	return stats, nil
}

// windowStart возвращает нижнюю границу окна или nil для "all".
func (s *StatsUseCase) windowStart(window string) *time.Time {
	now := s.now()

	var since time.Time
	switch window {
	case WindowToday:
		since = startOfDay(now)
	case WindowWeek:
		since = now.AddDate(0, 0, -7)
	case WindowMonth:
		since = monthAgo(now)
	default:
		return nil
	}

	return &since
}

// startOfDay — полночь текущего календарного дня в локальной зоне сервера.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// monthAgo возвращает ту же дату предыдущего месяца.
// Если в предыдущем месяце нет такого дня (31 марта -> февраль),
// дата прижимается к последнему дню месяца.
func monthAgo(t time.Time) time.Time {
	y, m, d := t.Date()

	firstOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	firstOfPrev := firstOfMonth.AddDate(0, -1, 0)
	lastDay := firstOfMonth.AddDate(0, 0, -1).Day()

	if d > lastDay {
		d = lastDay
	}

	h, min, sec := t.Clock()
	return time.Date(firstOfPrev.Year(), firstOfPrev.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}
