package services

import (
	"errors"
	"time"

	"github.com/yeremiapane/procurement-app/models"
	"gorm.io/gorm"
)

// TrendRow is one request's total spend: one row per request, never
// aggregated across weeks.
type TrendRow struct {
	RequestID     uint      `json:"request_id"`
	WeekStartDate time.Time `json:"week_start_date"`
	BranchID      uint      `json:"branch_id"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
}

// DashboardStats mirrors what the ops dashboard renders.
type DashboardStats struct {
	RequestStats struct {
		Draft     int64 `json:"draft"`
		Submitted int64 `json:"submitted"`
		Purchased int64 `json:"purchased"`
	} `json:"request_stats"`
	ThisWeekTotal  float64          `json:"this_week_total"`
	PurchasedTotal float64          `json:"purchased_total"`
	BranchTotals   map[uint]float64 `json:"branch_totals"`
}

// ReportService is read-only aggregation over requests and purchase logs.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// BranchTrend returns {week, branch, total} per request, optionally filtered
// to one branch.
func (s *ReportService) BranchTrend(branchID *uint) ([]TrendRow, error) {
	query := s.db.Preload("Items").Model(&models.WeeklyRequest{})
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var requests []models.WeeklyRequest
	if err := query.Order("week_start_date DESC, branch_id").Find(&requests).Error; err != nil {
		return nil, err
	}

	rows := make([]TrendRow, 0, len(requests))
	for _, req := range requests {
		var total float64
		for _, it := range req.Items {
			total += it.TotalPrice
		}
		rows = append(rows, TrendRow{
			RequestID:     req.ID,
			WeekStartDate: req.WeekStartDate,
			BranchID:      req.BranchID,
			Status:        req.Status,
			Total:         total,
		})
	}
	return rows, nil
}

// PurchaseLogs returns all finalized logs, newest first.
func (s *ReportService) PurchaseLogs() ([]models.PurchaseLog, error) {
	var logs []models.PurchaseLog
	if err := s.db.Preload("Branches.Items").
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// PurchaseLogByID loads one log with its branch groups and item snapshots.
func (s *ReportService) PurchaseLogByID(id uint) (*models.PurchaseLog, error) {
	var log models.PurchaseLog
	if err := s.db.Preload("Branches.Items").First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Dashboard computes the ops overview counters.
func (s *ReportService) Dashboard(now time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	stats.BranchTotals = make(map[uint]float64)

	s.db.Model(&models.WeeklyRequest{}).Where("status = ?", RequestStatusDraft).Count(&stats.RequestStats.Draft)
	s.db.Model(&models.WeeklyRequest{}).Where("status = ?", RequestStatusSubmitted).Count(&stats.RequestStats.Submitted)
	s.db.Model(&models.WeeklyRequest{}).Where("status = ?", RequestStatusPurchased).Count(&stats.RequestStats.Purchased)

	week := WeekStart(now)
	var requests []models.WeeklyRequest
	if err := s.db.Preload("Items").Find(&requests).Error; err != nil {
		return nil, err
	}
	for _, req := range requests {
		var total float64
		for _, it := range req.Items {
			total += it.TotalPrice
		}
		stats.BranchTotals[req.BranchID] += total
		if req.WeekStartDate.Equal(week) {
			stats.ThisWeekTotal += total
		}
	}

	s.db.Model(&models.PurchaseLog{}).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&stats.PurchasedTotal)

	return &stats, nil
}
