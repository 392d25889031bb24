package entity

import "time"

// StoreID is the primary key of the single store row
const StoreID uint = 1

// Store holds the business identity printed on receipts. Only one row exists.
type Store struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"nome"`
	Address   string    `gorm:"size:200;not null" json:"endereco"`
	Phone     string    `gorm:"size:20;not null" json:"telefone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "lojas"
}
