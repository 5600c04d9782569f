package domain

import "time"

// Product описывает товар на складе.
// Цены хранятся в минорных единицах (копейки/центы).
type Product struct {
	ID           int64
	Name         string
	BuyingPrice  int64
	SellingPrice int64
	Quantity     int64
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewProduct(name string, buyingPrice, sellingPrice, quantity int64) *Product {
	return &Product{
		Name:         name,
		BuyingPrice:  buyingPrice,
		SellingPrice: sellingPrice,
		Quantity:     quantity,
	}
}
