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

type RequestController struct {
	Requests *services.RequestService
}

func NewRequestController(db *gorm.DB) *RequestController {
	return &RequestController{Requests: services.NewRequestService(db)}
}

func callerFromContext(c *gin.Context) services.Caller {
	return services.Caller{
		UserID:   c.GetUint("user_id"),
		Role:     c.GetString("role"),
		BranchID: c.GetUint("branch_id"),
	}
}

// respondServiceError maps the service error taxonomy onto HTTP codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrStaleVersion):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrEmptyRequest),
		errors.Is(err, services.ErrEmptyPurchase),
		errors.Is(err, services.ErrAlreadyFinalized):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func requestIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("request_id"))
	if err != nil || id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid request id"))
		return 0, false
	}
	return uint(id), true
}

// GetCurrentDraft -> get or lazily create this week's draft for the caller's
// branch.
func (rc *RequestController) GetCurrentDraft(c *gin.Context) {
	caller := callerFromContext(c)

	req, err := rc.Requests.GetOrCreateCurrentDraft(caller.BranchID, caller.UserID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Current draft", req)
}

// ReplaceItems -> full replacement of the draft's line items.
func (rc *RequestController) ReplaceItems(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Items   []services.RequestLine `json:"items" binding:"required"`
		Version *int                   `json:"version"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req, err := rc.Requests.ReplaceItems(requestID, callerFromContext(c), body.Items, body.Version)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Draft items saved", req)
}

// Submit -> DRAFT to SUBMITTED, then notify the ops board.
func (rc *RequestController) Submit(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Version *int `json:"version"`
	}
	// Body is optional for submit.
	_ = c.ShouldBindJSON(&body)

	req, err := rc.Requests.Submit(requestID, callerFromContext(c), body.Version)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastRequestSubmitted(*req)
	utils.InfoLogger.Printf("Request %d submitted by branch %d", req.ID, req.BranchID)

	utils.RespondJSON(c, http.StatusOK, "Request submitted", req)
}

// History -> the caller branch's requests, newest first, with totals.
func (rc *RequestController) History(c *gin.Context) {
	caller := callerFromContext(c)

	summaries, err := rc.Requests.History(caller.BranchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Request history", summaries)
}
