package domain

import "time"

// Sale описывает неизменяемую запись о продаже.
// UnitPrice — цена продажи на момент операции, Total = Quantity * UnitPrice;
// последующие изменения цены товара на запись не влияют.
type Sale struct {
	ID        int64
	ProductID int64
	Quantity  int64
	UnitPrice int64
	Total     int64
	SaleDate  time.Time
	CreatedAt time.Time
}

func NewSale(productID, quantity, unitPrice int64, saleDate time.Time) *Sale {
	return &Sale{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     quantity * unitPrice,
		SaleDate:  saleDate,
	}
}
