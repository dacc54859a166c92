package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/procurement-app/models"
	"github.com/yeremiapane/procurement-app/utils"
	"gorm.io/gorm"
)

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(db *gorm.DB) *BranchController {
	return &BranchController{DB: db}
}

func (bc *BranchController) GetAllBranches(c *gin.Context) {
	var branches []models.Branch
	if err := bc.DB.Find(&branches).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of branches", branches)
}

func (bc *BranchController) CreateBranch(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	branch := models.Branch{Name: input.Name, Code: input.Code}
	if err := bc.DB.Create(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Branch created", branch)
}

func (bc *BranchController) UpdateBranch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("branch_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid branch id"))
		return
	}

	var branch models.Branch
	if err := bc.DB.First(&branch, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var input struct {
		Name *string `json:"name"`
		Code *string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Name != nil {
		branch.Name = *input.Name
	}
	if input.Code != nil {
		branch.Code = *input.Code
	}

	if err := bc.DB.Save(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Branch updated", branch)
}

func (bc *BranchController) DeleteBranch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("branch_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid branch id"))
		return
	}

	var branch models.Branch
	if err := bc.DB.First(&branch, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := bc.DB.Delete(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Branch deleted", nil)
}
