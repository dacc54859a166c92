package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/procurement-app/services"
	"github.com/yeremiapane/procurement-app/utils"
	"gorm.io/gorm"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{Reports: services.NewReportService(db)}
}

// BranchTrend -> per-request totals, one row per request.
func (rc *ReportController) BranchTrend(c *gin.Context) {
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

	rows, err := rc.Reports.BranchTrend(branchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Branch trend", rows)
}

// PurchaseLogs -> all finalized purchase logs, newest first.
func (rc *ReportController) PurchaseLogs(c *gin.Context) {
	logs, err := rc.Reports.PurchaseLogs()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Purchase logs", logs)
}

// Dashboard -> ops overview counters.
func (rc *ReportController) Dashboard(c *gin.Context) {
	stats, err := rc.Reports.Dashboard(time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// PurchaseLogPDF -> render one purchase log as a printable PDF.
func (rc *ReportController) PurchaseLogPDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("log_id"))
	if err != nil || id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid log id"))
		return
	}

	purchaseLog, err := rc.Reports.PurchaseLogByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Purchase Log "+purchaseLog.ReferenceNo)
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Week starting "+purchaseLog.WeekStartDate.Format("2006-01-02"))
	pdf.Ln(6)
	pdf.Cell(0, 8, "Finalized at "+purchaseLog.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	for _, branch := range purchaseLog.Branches {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, fmt.Sprintf("Branch #%d", branch.BranchID))
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(60, 7, "Item", "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, "Qty", "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, "Unit", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "Total", "1", 0, "R", false, 0, "")
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 9)
		for _, item := range branch.Items {
			pdf.CellFormat(60, 6, item.ItemName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", item.ApprovedQty), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, item.Unit, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, utils.FormatCurrency(item.UnitPrice), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, utils.FormatCurrency(item.TotalPrice), "1", 0, "R", false, 0, "")
			pdf.Ln(6)
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(130, 7, "Branch total", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, utils.FormatCurrency(branch.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "Grand total: "+utils.FormatCurrency(purchaseLog.Total))

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=purchase-log-%d.pdf", purchaseLog.ID))
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("PDF export failed for log %d: %v", purchaseLog.ID, err)
	}
}
