package models

import "time"

// WeeklyRequest is one branch's stock request for one week. Status only moves
// forward: DRAFT -> SUBMITTED -> PURCHASED. Version is bumped on every
// mutation; callers presenting a stale version are rejected.
type WeeklyRequest struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	BranchID      uint                `gorm:"not null;index:idx_branch_week" json:"branch_id"`
	Branch        Branch              `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	WeekStartDate time.Time           `gorm:"type:date;not null;index:idx_branch_week" json:"week_start_date"`
	Status        string              `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	Version       int                 `gorm:"not null;default:1" json:"version"`
	CreatedBy     uint                `gorm:"not null" json:"created_by"`
	Items         []WeeklyRequestItem `gorm:"foreignKey:RequestID" json:"items"`
	CreatedAt     time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"not null" json:"updated_at"`
}
