package usecase

import (
	"context"
	"sync"
	"time"

	trm "github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/pkg/e"
)

var _ trm.Manager = txManagerStub{}

// txManagerStub исполняет функцию без реальной транзакции.
type txManagerStub struct{}

func (txManagerStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (txManagerStub) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testLogger struct{}

func (testLogger) Debugf(string, ...any)        {}
func (testLogger) Infof(string, ...any)         {}
func (testLogger) Warnf(string, ...any)         {}
func (testLogger) Errorf(error, string, ...any) {}

var _ ProductRepository = (*memProductRepo)(nil)

// memProductRepo — потокобезопасное in-memory хранилище товаров.
type memProductRepo struct {
	mu      sync.Mutex
	seq     int64
	items   map[int64]*domain.Product
	order   []int64
	failErr error
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[int64]*domain.Product)}
}

func (m *memProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	for _, existing := range m.items {
		if existing.Name == product.Name {
			return nil, e.ErrProductNameExists
		}
	}

	m.seq++
	cp := *product
	cp.ID = m.seq
	cp.CreatedAt = time.Now()
	m.items[cp.ID] = &cp
	m.order = append(m.order, cp.ID)

	out := cp
	return &out, nil
}

func (m *memProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[product.ID]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	for id, existing := range m.items {
		if id != product.ID && existing.Name == product.Name {
			return nil, e.ErrProductNameExists
		}
	}

	now := time.Now()
	stored.Name = product.Name
	stored.BuyingPrice = product.BuyingPrice
	stored.SellingPrice = product.SellingPrice
	stored.Quantity = product.Quantity
	stored.UpdatedAt = &now

	out := *stored
	return &out, nil
}

func (m *memProductRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(m.items, id)

	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	out := *stored
	return &out, nil
}

func (m *memProductRepo) List(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	products := make([]domain.Product, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		products = append(products, *m.items[m.order[i]])
	}

	return products, nil
}

func (m *memProductRepo) DecrementStock(_ context.Context, id, qty int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	if stored.Quantity < qty {
		return nil, e.NewInsufficientStockError(stored.Quantity)
	}

	now := time.Now()
	stored.Quantity -= qty
	stored.UpdatedAt = &now

	out := *stored
	return &out, nil
}

func (m *memProductRepo) StockValue(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return 0, m.failErr
	}

	var total int64
	for _, p := range m.items {
		total += p.BuyingPrice * p.Quantity
	}

	return total, nil
}

func (m *memProductRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.items)), nil
}

func (m *memProductRepo) CreateBatch(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	created := make([]domain.Product, 0, len(products))
	for i := range products {
		p, err := m.Create(ctx, &products[i])
		if err != nil {
			return nil, err
		}
		created = append(created, *p)
	}

	return created, nil
}

func (m *memProductRepo) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[int64]*domain.Product)
	m.order = nil

	return nil
}

var _ SaleRepository = (*memSaleRepo)(nil)

// memSaleRepo хранит продажи в памяти; имена товаров и себестоимость
// берёт из привязанного memProductRepo.
type memSaleRepo struct {
	mu       sync.Mutex
	seq      int64
	sales    []domain.Sale
	products *memProductRepo
	failErr  error
}

func newMemSaleRepo(products *memProductRepo) *memSaleRepo {
	return &memSaleRepo{products: products}
}

func (m *memSaleRepo) Create(_ context.Context, sale *domain.Sale) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	m.seq++
	cp := *sale
	cp.ID = m.seq
	cp.CreatedAt = time.Now()
	m.sales = append(m.sales, cp)

	out := cp
	return &out, nil
}

func (m *memSaleRepo) List(ctx context.Context) ([]SaleInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	infos := make([]SaleInfo, 0, len(m.sales))
	for i := len(m.sales) - 1; i >= 0; i-- {
		s := m.sales[i]

		var name string
		if m.products != nil {
			if p, err := m.products.GetByID(ctx, s.ProductID); err == nil {
				name = p.Name
			}
		}

		infos = append(infos, SaleInfo{
			ID:          s.ID,
			ProductID:   s.ProductID,
			ProductName: name,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			Total:       s.Total,
			SaleDate:    s.SaleDate,
			CreatedAt:   s.CreatedAt,
		})
	}

	return infos, nil
}

func (m *memSaleRepo) HasSalesForProduct(_ context.Context, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sales {
		if s.ProductID == productID {
			return true, nil
		}
	}

	return false, nil
}

func (m *memSaleRepo) Aggregate(ctx context.Context, since *time.Time) (*SalesAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	agg := &SalesAggregate{}
	for _, s := range m.sales {
		if since != nil && s.SaleDate.Before(*since) {
			continue
		}

		agg.TotalSales += s.Total
		agg.SalesCount++

		if m.products != nil {
			if p, err := m.products.GetByID(ctx, s.ProductID); err == nil {
				agg.Cogs += p.BuyingPrice * s.Quantity
			}
		}
	}

	return agg, nil
}

func (m *memSaleRepo) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sales = nil

	return nil
}

var _ OutboxEventRepository = (*memOutboxRepo)(nil)

type memOutboxRepo struct {
	mu      sync.Mutex
	seq     int64
	events  []*OutboxEvent
	failErr error
}

func newMemOutboxRepo() *memOutboxRepo {
	return &memOutboxRepo{}
}

func (m *memOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}

	m.seq++
	cp := *event
	cp.ID = m.seq
	cp.CreatedAt = time.Now()
	m.events = append(m.events, &cp)

	out := cp
	return &out, nil
}

func (m *memOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var batch []*OutboxEvent
	for _, ev := range m.events {
		if len(batch) == limit {
			break
		}
		if ev.Status != Pending {
			continue
		}

		ev.Status = Processing
		cp := *ev
		batch = append(batch, &cp)
	}

	return batch, nil
}

func (m *memOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id && ev.Status == Processing {
			now := time.Now()
			ev.Status = Processed
			ev.ProcessedAt = &now
		}
	}

	return nil
}

func (m *memOutboxRepo) MarkAsPending(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id && ev.Status == Processing {
			ev.Status = Pending
		}
	}

	return nil
}

func (m *memOutboxRepo) snapshot() []OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]OutboxEvent, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, *ev)
	}

	return out
}

var _ CacheRepository = (*memCacheRepo)(nil)

type memCacheRepo struct {
	mu            sync.Mutex
	stats         map[string]*Stats
	invalidations int
	getErr        error
	setErr        error
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{stats: make(map[string]*Stats)}
}

func (m *memCacheRepo) GetStats(_ context.Context, window string) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}

	s, ok := m.stats[window]
	if !ok {
		return nil, nil
	}

	out := *s
	return &out, nil
}

func (m *memCacheRepo) SetStats(_ context.Context, stats *Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}

	cp := *stats
	m.stats[cp.Window] = &cp

	return nil
}

func (m *memCacheRepo) InvalidateStats(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = make(map[string]*Stats)
	m.invalidations++

	return nil
}
