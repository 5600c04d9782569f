package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	BuyingPrice  int64      `db:"buying_price"`
	SellingPrice int64      `db:"selling_price"`
	Quantity     int64      `db:"quantity"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// SaleModel представляет запись таблицы sales в PostgreSQL.
type SaleModel struct {
	ID        int64     `db:"id"`
	ProductID int64     `db:"product_id"`
	Quantity  int64     `db:"quantity"`
	UnitPrice int64     `db:"unit_price"`
	Total     int64     `db:"total"`
	SaleDate  time.Time `db:"sale_date"`
	CreatedAt time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	SaleID      int64      `db:"sale_id"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
