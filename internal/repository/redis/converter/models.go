package converter

// StatsRedisModel — сериализуемое представление статистики в кэше.
type StatsRedisModel struct {
	TotalSales int64  `json:"total_sales"`
	Cogs       int64  `json:"cogs"`
	Profit     int64  `json:"profit"`
	StockValue int64  `json:"stock_value"`
	SalesCount int64  `json:"sales_count"`
	Window     string `json:"window"`
}
