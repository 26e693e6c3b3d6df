package domain

// Sale statuses.
const (
	SaleOpen      = "open"
	SalePaid      = "paid"
	SaleCancelled = "cancelled"
)

// Sale is a billing document issued to a client.
type Sale struct {
	Model
	Audit
	SoftDelete
	ClientID *string    `gorm:"size:36;index" json:"client_id"`
	Total    float64    `gorm:"not null;default:0" json:"total"`
	Notes    string     `gorm:"type:text" json:"notes"`
	Status   string     `gorm:"size:32;index;default:open" json:"status"`
	Client   *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Lines    []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// SaleLine is one item on a sale. Lines carry no audit or soft-delete
// columns, so removing a line deletes the row.
type SaleLine struct {
	Model
	SaleID    string  `gorm:"size:36;not null;index" json:"sale_id"`
	ItemID    string  `gorm:"size:36;not null;index" json:"item_id"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `gorm:"not null;default:0" json:"unit_price"`
	Item      *Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
