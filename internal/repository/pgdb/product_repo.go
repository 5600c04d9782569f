package pgdb

import (
	"context"
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/internal/repository/pgdb/converter"
	"github.com/shoplite/pos-backend/pkg/e"
)

const (
	uniqueViolationCode = "23505"
	fkViolationCode     = "23503"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
// Запросы идут через транзакцию из контекста, если она открыта.
type ProductRepo struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
	conv   converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, getter *trmpgx.CtxGetter, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool:   pool,
		getter: getter,
		conv:   conv,
	}
}

// Create вставляет товар; дубликат имени превращается в e.ErrProductNameExists.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, buying_price, selling_price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, buying_price, selling_price, quantity, created_at, updated_at;
	`

	var model converter.ProductModel
	err := p.getter.DefaultTrOrDB(ctx, p.pool).
		QueryRow(ctx, query, product.Name, product.BuyingPrice, product.SellingPrice, product.Quantity).
		Scan(
			&model.ID, &model.Name, &model.BuyingPrice, &model.SellingPrice,
			&model.Quantity, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if isPgErrCode(err, uniqueViolationCode) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNameExists)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Update заменяет все изменяемые поля товара целиком.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $2, buying_price = $3, selling_price = $4, quantity = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, buying_price, selling_price, quantity, created_at, updated_at;
	`

	var model converter.ProductModel
	err := p.getter.DefaultTrOrDB(ctx, p.pool).
		QueryRow(ctx, query, product.ID, product.Name, product.BuyingPrice, product.SellingPrice, product.Quantity).
		Scan(
			&model.ID, &model.Name, &model.BuyingPrice, &model.SellingPrice,
			&model.Quantity, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		if isPgErrCode(err, uniqueViolationCode) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNameExists)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Delete удаляет товар. Ограничение внешнего ключа со стороны продаж
// превращается в e.ErrProductHasSales.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1;`

	tag, err := p.getter.DefaultTrOrDB(ctx, p.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgErrCode(err, fkViolationCode) {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductHasSales)
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, buying_price, selling_price, quantity, created_at, updated_at
		FROM products
		WHERE id = $1;
	`

	var model converter.ProductModel
	err := p.getter.DefaultTrOrDB(ctx, p.pool).
		QueryRow(ctx, query, id).
		Scan(
			&model.ID, &model.Name, &model.BuyingPrice, &model.SellingPrice,
			&model.Quantity, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает все товары, новые первыми.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, buying_price, selling_price, quantity, created_at, updated_at
		FROM products
		ORDER BY created_at DESC, id DESC;
	`

	rows, err := p.getter.DefaultTrOrDB(ctx, p.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.BuyingPrice, &model.SellingPrice,
			&model.Quantity, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// DecrementStock атомарно списывает остаток одним условным обновлением:
// строка меняется только когда quantity >= qty, поэтому конкурентные
// продажи не могут увести остаток ниже нуля.
func (p *ProductRepo) DecrementStock(ctx context.Context, id, qty int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
		RETURNING id, name, buying_price, selling_price, quantity, created_at, updated_at;
	`

	tr := p.getter.DefaultTrOrDB(ctx, p.pool)

	var model converter.ProductModel
	err := tr.QueryRow(ctx, query, id, qty).
		Scan(
			&model.ID, &model.Name, &model.BuyingPrice, &model.SellingPrice,
			&model.Quantity, &model.CreatedAt, &model.UpdatedAt,
		)
	if err == nil {
		return p.conv.ToEntity(&model), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Условие не сработало: различаем отсутствие товара и нехватку остатка
	var available int64
	err = tr.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1;`, id).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return nil, e.Wrap(whereami.WhereAmI(), e.NewInsufficientStockError(available))
}

// StockValue возвращает сумму buying_price * quantity по всем товарам.
func (p *ProductRepo) StockValue(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(buying_price * quantity), 0) FROM products;`

	var value int64
	if err := p.getter.DefaultTrOrDB(ctx, p.pool).QueryRow(ctx, query).Scan(&value); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, nil
}

func (p *ProductRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.getter.DefaultTrOrDB(ctx, p.pool).
		QueryRow(ctx, `SELECT COUNT(*) FROM products;`).
		Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// CreateBatch вставляет набор товаров для демо-наполнения.
func (p *ProductRepo) CreateBatch(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	created := make([]domain.Product, 0, len(products))
	for i := range products {
		pr, err := p.Create(ctx, &products[i])
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		created = append(created, *pr)
	}

	return created, nil
}

func (p *ProductRepo) DeleteAll(ctx context.Context) error {
	if _, err := p.getter.DefaultTrOrDB(ctx, p.pool).Exec(ctx, `DELETE FROM products;`); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// isPgErrCode проверяет код ошибки PostgreSQL.
func isPgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
