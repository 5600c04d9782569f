package usecase

import "time"

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара. Цены в минорных единицах.
type CreateProductReq struct {
	Name         string
	BuyingPrice  int64
	SellingPrice int64
	Quantity     int64
}

// UpdateProductReq — полная замена изменяемых полей товара (не частичный patch).
type UpdateProductReq struct {
	ID           int64
	Name         string
	BuyingPrice  int64
	SellingPrice int64
	Quantity     int64
}

// SALE USECASE

// RecordSaleReq — запрос на проведение продажи.
type RecordSaleReq struct {
	ProductID int64
	Quantity  int64
	SaleDate  time.Time
}

// RecordSaleRes — созданная продажа вместе со снимком товара,
// по которому она была рассчитана.
type RecordSaleRes struct {
	SaleID    int64
	ProductID int64
	Product   string
	Quantity  int64
	UnitPrice int64
	Total     int64
	SaleDate  time.Time
	CreatedAt time.Time
	Remaining int64
}

// SaleInfo — DTO строки журнала продаж, соединённой с товаром.
type SaleInfo struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   int64
	Total       int64
	SaleDate    time.Time
	CreatedAt   time.Time
}

// SaleRecordedEvent — payload события sale.recorded для Kafka.
type SaleRecordedEvent struct {
	SaleID    int64     `json:"sale_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Total     int64     `json:"total"`
	SaleDate  time.Time `json:"sale_date"`
}

// STATS USECASE

// Окна агрегации. Неизвестное значение трактуется как WindowAll.
const (
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
	WindowAll   = "all"
)

// Stats — агрегированные показатели за окно.
// StockValue всегда считается по текущим остаткам и от окна не зависит.
type Stats struct {
	TotalSales int64
	Cogs       int64
	Profit     int64
	StockValue int64
	SalesCount int64
	Window     string
}

// SalesAggregate — сырые суммы по журналу продаж за период.
type SalesAggregate struct {
	TotalSales int64
	Cogs       int64
	SalesCount int64
}

// SEED USECASE

// SeedRes — итоги загрузки демо-данных.
type SeedRes struct {
	ProductsCreated int
	SalesCreated    int
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const EventSaleRecorded OutboxEventType = "sale.recorded"

// OutboxEvent — запись транзакционного outbox, создаётся в одной
// транзакции с продажей и публикуется фоновым воркером.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	SaleID      int64
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewCreateProductReq(name string, buyingPrice, sellingPrice, quantity int64) *CreateProductReq {
	return &CreateProductReq{
		Name:         name,
		BuyingPrice:  buyingPrice,
		SellingPrice: sellingPrice,
		Quantity:     quantity,
	}
}

func NewUpdateProductReq(id int64, name string, buyingPrice, sellingPrice, quantity int64) *UpdateProductReq {
	return &UpdateProductReq{
		ID:           id,
		Name:         name,
		BuyingPrice:  buyingPrice,
		SellingPrice: sellingPrice,
		Quantity:     quantity,
	}
}

func NewRecordSaleReq(productID, quantity int64, saleDate time.Time) *RecordSaleReq {
	return &RecordSaleReq{
		ProductID: productID,
		Quantity:  quantity,
		SaleDate:  saleDate,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, saleID, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		SaleID:    saleID,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
	}
}

// NormalizeWindow приводит фильтр к одному из известных окон.
func NormalizeWindow(window string) string {
	switch window {
	case WindowToday, WindowWeek, WindowMonth:
		return window
	default:
		return WindowAll
	}
}
