package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/procurement-app/models"
	"gorm.io/gorm"
)

// ItemEdit is one ops-side adjustment to a worksheet line. Nil fields are
// left untouched; ids that do not belong to the request are ignored.
type ItemEdit struct {
	ID          uint     `json:"id"`
	ApprovedQty *float64 `json:"approved_qty"`
	UnitPrice   *float64 `json:"unit_price"`
	Status      *string  `json:"status"`
}

// PurchaseService owns the ops side: the weekly worksheet, line adjustments
// and finalization into the purchase log.
type PurchaseService struct {
	db *gorm.DB
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{db: db}
}

// GetRun returns the worksheet for a week: every line item of that week's
// not-yet-purchased requests, optionally narrowed to one branch.
func (s *PurchaseService) GetRun(week time.Time, branchID *uint) ([]models.WeeklyRequestItem, error) {
	query := s.db.Model(&models.WeeklyRequest{}).
		Where("week_start_date = ? AND status <> ?", WeekStart(week), RequestStatusPurchased)
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var requestIDs []uint
	if err := query.Pluck("id", &requestIDs).Error; err != nil {
		return nil, err
	}
	if len(requestIDs) == 0 {
		return []models.WeeklyRequestItem{}, nil
	}

	var items []models.WeeklyRequestItem
	if err := s.db.Where("request_id IN ?", requestIDs).
		Order("branch_id, id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItems applies ops adjustments to a request's line items. TotalPrice
// is recomputed on every matched line regardless of which fields changed.
func (s *PurchaseService) UpdateItems(requestID uint, edits []ItemEdit) ([]models.WeeklyRequestItem, error) {
	var req models.WeeklyRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Status == RequestStatusPurchased {
		return nil, ErrAlreadyFinalized
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, edit := range edits {
			var item models.WeeklyRequestItem
			if err := tx.Where("id = ? AND request_id = ?", edit.ID, req.ID).
				First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // unmatched edit ids are not an error
				}
				return err
			}

			if edit.ApprovedQty != nil {
				item.ApprovedQty = *edit.ApprovedQty
			}
			if edit.UnitPrice != nil {
				item.UnitPrice = *edit.UnitPrice
			}
			if edit.Status != nil &&
				(*edit.Status == ItemStatusAvailable || *edit.Status == ItemStatusUnavailable) {
				item.Status = *edit.Status
			}
			item.TotalPrice = item.UnitPrice * item.ApprovedQty
			item.UpdatedAt = time.Now()

			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.WeeklyRequest{}).
			Where("id = ?", req.ID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	var items []models.WeeklyRequestItem
	if err := s.db.Where("request_id = ?", req.ID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Finalize snapshots a request's line items into an immutable purchase log
// and flips the request to PURCHASED. The log write and the status flip
// happen in one transaction; a second call fails without a second log.
func (s *PurchaseService) Finalize(requestID uint, version *int) (*models.PurchaseLog, error) {
	var req models.WeeklyRequest
	if err := s.db.Preload("Items").First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Status == RequestStatusPurchased {
		return nil, ErrAlreadyFinalized
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyPurchase
	}
	if version != nil && *version != req.Version {
		return nil, ErrStaleVersion
	}

	var logID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Status flip first, guarded by version, so two concurrent finalize
		// calls cannot both write a log.
		res := tx.Model(&models.WeeklyRequest{}).
			Where("id = ? AND version = ? AND status <> ?", req.ID, req.Version, RequestStatusPurchased).
			Updates(map[string]interface{}{
				"status":     RequestStatusPurchased,
				"version":    req.Version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		log := models.PurchaseLog{
			RequestID:     req.ID,
			ReferenceNo:   fmt.Sprintf("PO/%s/%06d", time.Now().Format("20060102"), req.ID),
			WeekStartDate: req.WeekStartDate,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		// Group line items by branch; in practice one branch per request.
		byBranch := make(map[uint][]models.WeeklyRequestItem)
		var branchOrder []uint
		for _, it := range req.Items {
			if _, seen := byBranch[it.BranchID]; !seen {
				branchOrder = append(branchOrder, it.BranchID)
			}
			byBranch[it.BranchID] = append(byBranch[it.BranchID], it)
		}

		var grandTotal float64
		for _, branchID := range branchOrder {
			group := byBranch[branchID]
			logBranch := models.PurchaseLogBranch{
				LogID:    log.ID,
				BranchID: branchID,
			}
			if err := tx.Create(&logBranch).Error; err != nil {
				return err
			}

			var branchTotal float64
			for _, it := range group {
				snapshot := models.PurchaseLogItem{
					LogBranchID:  logBranch.ID,
					ItemID:       it.ItemID,
					ItemName:     it.ItemName,
					CategoryName: it.CategoryName,
					Unit:         it.Unit,
					RequestedQty: it.RequestedQty,
					ApprovedQty:  it.ApprovedQty,
					UnitPrice:    it.UnitPrice,
					TotalPrice:   it.TotalPrice,
					Status:       it.Status,
				}
				if err := tx.Create(&snapshot).Error; err != nil {
					return err
				}
				branchTotal += it.TotalPrice
			}

			if err := tx.Model(&models.PurchaseLogBranch{}).
				Where("id = ?", logBranch.ID).
				Update("total", branchTotal).Error; err != nil {
				return err
			}
			grandTotal += branchTotal
		}

		if err := tx.Model(&models.PurchaseLog{}).
			Where("id = ?", log.ID).
			Update("total", grandTotal).Error; err != nil {
			return err
		}
		logID = log.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var log models.PurchaseLog
	if err := s.db.Preload("Branches.Items").First(&log, logID).Error; err != nil {
		return nil, err
	}
	return &log, nil
}
