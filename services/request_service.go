package services

import (
	"errors"
	"time"

	"github.com/yeremiapane/procurement-app/models"
	"gorm.io/gorm"
)

// Request status
const (
	RequestStatusDraft     = "DRAFT"
	RequestStatusSubmitted = "SUBMITTED"
	RequestStatusPurchased = "PURCHASED"
)

// Line item status
const (
	ItemStatusAvailable   = "AVAILABLE"
	ItemStatusUnavailable = "UNAVAILABLE"
)

// Caller is the identity attached to a request by the auth middleware.
type Caller struct {
	UserID   uint
	Role     string
	BranchID uint
}

// RequestLine is one incoming draft line. Lines with zero quantity or an
// unknown item id are silently dropped.
type RequestLine struct {
	ItemID       uint    `json:"item_id"`
	RequestedQty float64 `json:"requested_qty"`
}

// RequestSummary annotates a request with the sum of its items' totals.
type RequestSummary struct {
	models.WeeklyRequest
	Total float64 `json:"total"`
}

// RequestService owns the draft lifecycle: get-or-create, line replacement
// and submission.
type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// GetOrCreateCurrentDraft returns the branch's DRAFT request for the week
// containing now, creating it on first access. Idempotent within a week.
func (s *RequestService) GetOrCreateCurrentDraft(branchID, createdBy uint, now time.Time) (*models.WeeklyRequest, error) {
	week := WeekStart(now)

	var req models.WeeklyRequest
	err := s.db.Preload("Items").
		Where("branch_id = ? AND week_start_date = ? AND status = ?", branchID, week, RequestStatusDraft).
		First(&req).Error
	if err == nil {
		return &req, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	req = models.WeeklyRequest{
		BranchID:      branchID,
		WeekStartDate: week,
		Status:        RequestStatusDraft,
		Version:       1,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	req.Items = []models.WeeklyRequestItem{}
	return &req, nil
}

// ReplaceItems swaps the full line item set of a DRAFT request. Every re-save
// re-prices lines from the item's current default price. The delete and
// insert run in one transaction so a failed save never leaves a half-written
// item set.
func (s *RequestService) ReplaceItems(requestID uint, caller Caller, lines []RequestLine, version *int) (*models.WeeklyRequest, error) {
	var req models.WeeklyRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if caller.Role != models.RoleBranch || caller.BranchID != req.BranchID {
		return nil, ErrForbidden
	}
	if req.Status != RequestStatusDraft {
		return nil, ErrInvalidState
	}
	if version != nil && *version != req.Version {
		return nil, ErrStaleVersion
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Optimistic guard: the version bump doubles as the write lock.
		res := tx.Model(&models.WeeklyRequest{}).
			Where("id = ? AND version = ?", req.ID, req.Version).
			Updates(map[string]interface{}{
				"version":    req.Version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		if err := tx.Where("request_id = ?", req.ID).
			Delete(&models.WeeklyRequestItem{}).Error; err != nil {
			return err
		}

		for _, line := range lines {
			if line.RequestedQty <= 0 {
				continue
			}
			var item models.Item
			if err := tx.Preload("Category").First(&item, line.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // unknown item ids are dropped
				}
				return err
			}
			row := models.WeeklyRequestItem{
				RequestID:    req.ID,
				BranchID:     req.BranchID,
				ItemID:       item.ID,
				ItemName:     item.Name,
				CategoryName: item.Category.Name,
				Unit:         item.Unit,
				RequestedQty: line.RequestedQty,
				ApprovedQty:  line.RequestedQty,
				UnitPrice:    item.DefaultPrice,
				TotalPrice:   line.RequestedQty * item.DefaultPrice,
				Status:       ItemStatusAvailable,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var fresh models.WeeklyRequest
	if err := s.db.Preload("Items").First(&fresh, req.ID).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}

// Submit moves a non-empty DRAFT to SUBMITTED.
func (s *RequestService) Submit(requestID uint, caller Caller, version *int) (*models.WeeklyRequest, error) {
	var req models.WeeklyRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if caller.Role != models.RoleBranch || caller.BranchID != req.BranchID {
		return nil, ErrForbidden
	}
	if req.Status != RequestStatusDraft {
		return nil, ErrInvalidState
	}
	if version != nil && *version != req.Version {
		return nil, ErrStaleVersion
	}

	var count int64
	if err := s.db.Model(&models.WeeklyRequestItem{}).
		Where("request_id = ?", req.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmptyRequest
	}

	res := s.db.Model(&models.WeeklyRequest{}).
		Where("id = ? AND version = ? AND status = ?", req.ID, req.Version, RequestStatusDraft).
		Updates(map[string]interface{}{
			"status":     RequestStatusSubmitted,
			"version":    req.Version + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleVersion
	}

	var fresh models.WeeklyRequest
	if err := s.db.Preload("Items").First(&fresh, req.ID).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}

// History lists the branch's requests newest first with per-request totals.
func (s *RequestService) History(branchID uint) ([]RequestSummary, error) {
	var requests []models.WeeklyRequest
	if err := s.db.Preload("Items").
		Where("branch_id = ?", branchID).
		Order("created_at DESC, updated_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	summaries := make([]RequestSummary, 0, len(requests))
	for _, req := range requests {
		var total float64
		for _, it := range req.Items {
			total += it.TotalPrice
		}
		summaries = append(summaries, RequestSummary{WeeklyRequest: req, Total: total})
	}
	return summaries, nil
}
