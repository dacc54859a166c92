package models

import "time"

// PurchaseLog is the immutable audit record written when a request is
// finalized. Rows are append-only; nothing in the application updates them.
type PurchaseLog struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	RequestID     uint                `gorm:"not null;index" json:"request_id"`
	ReferenceNo   string              `gorm:"type:varchar(50);not null" json:"reference_no"`
	WeekStartDate time.Time           `gorm:"type:date;not null" json:"week_start_date"`
	Total         float64             `gorm:"type:decimal(12,2);not null" json:"total"`
	Branches      []PurchaseLogBranch `gorm:"foreignKey:LogID" json:"branches"`
	CreatedAt     time.Time           `gorm:"not null" json:"created_at"`
}

type PurchaseLogBranch struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	LogID    uint              `gorm:"not null;index" json:"log_id"`
	BranchID uint              `gorm:"not null" json:"branch_id"`
	Total    float64           `gorm:"type:decimal(12,2);not null" json:"total"`
	Items    []PurchaseLogItem `gorm:"foreignKey:LogBranchID" json:"items"`
}

// PurchaseLogItem copies the line item fields as they stood at finalize time.
type PurchaseLogItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	LogBranchID  uint    `gorm:"not null;index" json:"log_branch_id"`
	ItemID       uint    `gorm:"not null" json:"item_id"`
	ItemName     string  `gorm:"type:varchar(255);not null" json:"item_name"`
	CategoryName string  `gorm:"type:varchar(255)" json:"category_name"`
	Unit         string  `gorm:"type:varchar(50)" json:"unit"`
	RequestedQty float64 `gorm:"type:decimal(12,2);not null" json:"requested_qty"`
	ApprovedQty  float64 `gorm:"type:decimal(12,2);not null" json:"approved_qty"`
	UnitPrice    float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice   float64 `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status       string  `gorm:"type:varchar(20);not null" json:"status"`
}
