package domain

// Item kinds.
const (
	ItemProduct = "product"
	ItemService = "service"
)

// Item is a sellable product or service in the practice catalog.
type Item struct {
	Model
	Audit
	SoftDelete
	Name   string  `gorm:"size:150;not null" json:"name"`
	SKU    string  `gorm:"column:sku;size:64;index" json:"sku"`
	Kind   string  `gorm:"size:16;not null;default:product" json:"kind"`
	Price  float64 `gorm:"not null;default:0" json:"price"`
	Stock  int     `gorm:"not null;default:0" json:"stock"`
	Active bool    `gorm:"not null" json:"active"`
	Status string  `gorm:"size:32;index;default:active" json:"status"`
}
