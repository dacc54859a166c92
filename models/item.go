package models

import "time"

// Item is a purchasable product from the master catalog. DefaultPrice is the
// current reference price; line items snapshot it at save time.
type Item struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Category     Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Unit         string    `gorm:"type:varchar(50);not null" json:"unit"`
	DefaultPrice float64   `gorm:"type:decimal(12,2);not null;default:0.00" json:"default_price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
