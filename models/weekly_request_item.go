package models

import "time"

type WeeklyRequestItem struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	RequestID uint          `gorm:"not null;index" json:"request_id"`
	Request   WeeklyRequest `gorm:"foreignKey:RequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	BranchID  uint          `gorm:"not null;index" json:"branch_id"`
	ItemID    uint          `gorm:"not null" json:"item_id"`

	// Snapshot of the catalog item at save time; the live Item can drift after.
	ItemName     string `gorm:"type:varchar(255);not null" json:"item_name"`
	CategoryName string `gorm:"type:varchar(255)" json:"category_name"`
	Unit         string `gorm:"type:varchar(50)" json:"unit"`

	RequestedQty float64   `gorm:"type:decimal(12,2);not null" json:"requested_qty"`
	ApprovedQty  float64   `gorm:"type:decimal(12,2);not null" json:"approved_qty"`
	UnitPrice    float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice   float64   `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status       string    `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
