package converter

import "github.com/shoplite/pos-backend/internal/usecase"

// StatsConverter преобразует статистику между usecase и моделью Redis.
type StatsConverter interface {
	ToRedisModel(stats *usecase.Stats) *StatsRedisModel
	ToUseCase(model *StatsRedisModel) *usecase.Stats
}

type StatsConverterImpl struct{}

func NewStatsConverterImpl() *StatsConverterImpl { return &StatsConverterImpl{} }

func (c *StatsConverterImpl) ToRedisModel(stats *usecase.Stats) *StatsRedisModel {
	if stats == nil {
		return nil
	}

	return &StatsRedisModel{
		TotalSales: stats.TotalSales,
		Cogs:       stats.Cogs,
		Profit:     stats.Profit,
		StockValue: stats.StockValue,
		SalesCount: stats.SalesCount,
		Window:     stats.Window,
	}
}

func (c *StatsConverterImpl) ToUseCase(model *StatsRedisModel) *usecase.Stats {
	if model == nil {
		return nil
	}

	return &usecase.Stats{
		TotalSales: model.TotalSales,
		Cogs:       model.Cogs,
		Profit:     model.Profit,
		StockValue: model.StockValue,
		SalesCount: model.SalesCount,
		Window:     model.Window,
	}
}
