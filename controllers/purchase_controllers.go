package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/procurement-app/events"
	"github.com/yeremiapane/procurement-app/services"
	"github.com/yeremiapane/procurement-app/utils"
	"gorm.io/gorm"
)

type PurchaseController struct {
	Purchases *services.PurchaseService
}

func NewPurchaseController(db *gorm.DB) *PurchaseController {
	return &PurchaseController{Purchases: services.NewPurchaseService(db)}
}

// GetRun -> the ops worksheet for a week, defaulting to the current week.
// Optional branch_id narrows to one branch.
func (pc *PurchaseController) GetRun(c *gin.Context) {
	week := time.Now()
	if weekParam := c.Query("week"); weekParam != "" {
		parsed, err := services.ParseWeek(weekParam)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("week must be an ISO date (YYYY-MM-DD)"))
			return
		}
		week = parsed
	}

	var branchID *uint
	if branchParam := c.Query("branch_id"); branchParam != "" {
		id, err := strconv.Atoi(branchParam)
		if err != nil || id <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid branch id"))
			return
		}
		u := uint(id)
		branchID = &u
	}

	items, err := pc.Purchases.GetRun(week, branchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Purchase run worksheet", gin.H{
		"week_start_date": services.WeekStart(week),
		"items":           items,
	})
}

// UpdateItems -> apply ops adjustments (approved qty, price, availability) to
// a request's lines. Edit ids that do not belong to the request are ignored.
func (pc *PurchaseController) UpdateItems(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Items []services.ItemEdit `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := pc.Purchases.UpdateItems(requestID, body.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastWorksheetUpdated(requestID, items)

	utils.RespondJSON(c, http.StatusOK, "Worksheet updated", items)
}

// Finalize -> snapshot the request into the purchase log and advance it to
// PURCHASED.
func (pc *PurchaseController) Finalize(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Version *int `json:"version"`
	}
	_ = c.ShouldBindJSON(&body)

	purchaseLog, err := pc.Purchases.Finalize(requestID, body.Version)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastPurchaseFinalized(*purchaseLog)
	utils.InfoLogger.Printf("Purchase log %s written for request %d (total %s)",
		purchaseLog.ReferenceNo, requestID, utils.FormatCurrency(purchaseLog.Total))

	utils.RespondJSON(c, http.StatusOK, "Purchase finalized", purchaseLog)
}
