package pgdb

import (
	"context"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/internal/repository/pgdb/converter"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/e"
)

// SaleRepo реализует журнал продаж поверх PostgreSQL.
// Записи неизменяемы; удаление возможно только целиком (reset).
type SaleRepo struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
	conv   converter.SaleConverter
}

func NewSaleRepo(pool *pgxpool.Pool, getter *trmpgx.CtxGetter, conv converter.SaleConverter) *SaleRepo {
	return &SaleRepo{
		pool:   pool,
		getter: getter,
		conv:   conv,
	}
}

// Create вставляет запись о продаже с замороженной ценой и посчитанной суммой.
func (s *SaleRepo) Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	query := `
		INSERT INTO sales (product_id, quantity, unit_price, total, sale_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, quantity, unit_price, total, sale_date, created_at;
	`

	var model converter.SaleModel
	err := s.getter.DefaultTrOrDB(ctx, s.pool).
		QueryRow(ctx, query, sale.ProductID, sale.Quantity, sale.UnitPrice, sale.Total, sale.SaleDate).
		Scan(
			&model.ID, &model.ProductID, &model.Quantity, &model.UnitPrice,
			&model.Total, &model.SaleDate, &model.CreatedAt,
		)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

// List возвращает продажи с названием товара, новые первыми.
func (s *SaleRepo) List(ctx context.Context) ([]usecase.SaleInfo, error) {
	query := `
		SELECT s.id, s.product_id, p.name, s.quantity, s.unit_price, s.total, s.sale_date, s.created_at
		FROM sales s
		JOIN products p ON s.product_id = p.id
		ORDER BY s.sale_date DESC, s.id DESC;
	`

	rows, err := s.getter.DefaultTrOrDB(ctx, s.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.SaleInfo, 0)
	for rows.Next() {
		var info usecase.SaleInfo
		if err := rows.Scan(
			&info.ID, &info.ProductID, &info.ProductName, &info.Quantity,
			&info.UnitPrice, &info.Total, &info.SaleDate, &info.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, info)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (s *SaleRepo) HasSalesForProduct(ctx context.Context, productID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sales WHERE product_id = $1);`

	var exists bool
	if err := s.getter.DefaultTrOrDB(ctx, s.pool).QueryRow(ctx, query, productID).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// Aggregate считает выручку, себестоимость и число продаж за период.
// Себестоимость берётся по текущей закупочной цене товара.
func (s *SaleRepo) Aggregate(ctx context.Context, since *time.Time) (*usecase.SalesAggregate, error) {
	query := `
		SELECT
			COALESCE(SUM(s.total), 0),
			COALESCE(SUM(p.buying_price * s.quantity), 0),
			COUNT(*)
		FROM sales s
		JOIN products p ON s.product_id = p.id
		WHERE $1::timestamptz IS NULL OR s.sale_date >= $1;
	`

	var agg usecase.SalesAggregate
	err := s.getter.DefaultTrOrDB(ctx, s.pool).
		QueryRow(ctx, query, since).
		Scan(&agg.TotalSales, &agg.Cogs, &agg.SalesCount)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &agg, nil
}

func (s *SaleRepo) DeleteAll(ctx context.Context) error {
	if _, err := s.getter.DefaultTrOrDB(ctx, s.pool).Exec(ctx, `DELETE FROM sales;`); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
