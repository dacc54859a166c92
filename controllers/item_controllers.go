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

type ItemController struct {
	DB *gorm.DB
}

func NewItemController(db *gorm.DB) *ItemController {
	return &ItemController{DB: db}
}

func (ic *ItemController) GetAllItems(c *gin.Context) {
	query := ic.DB.Preload("Category")
	if catParam := c.Query("category_id"); catParam != "" {
		query = query.Where("category_id = ?", catParam)
	}

	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of items", items)
}

func (ic *ItemController) GetItemByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var item models.Item
	if err := ic.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item detail", item)
}

func (ic *ItemController) CreateItem(c *gin.Context) {
	var input struct {
		Name         string  `json:"name" binding:"required"`
		CategoryID   uint    `json:"category_id" binding:"required"`
		Unit         string  `json:"unit" binding:"required"`
		DefaultPrice float64 `json:"default_price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := ic.DB.First(&category, input.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown category"))
		return
	}

	item := models.Item{
		Name:         input.Name,
		CategoryID:   input.CategoryID,
		Unit:         input.Unit,
		DefaultPrice: input.DefaultPrice,
	}
	if err := ic.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item created", item)
}

// UpdateItem changes the catalog entry. Existing line items keep their
// snapshot; only future draft saves pick up a new default price.
func (ic *ItemController) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var item models.Item
	if err := ic.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var input struct {
		Name         *string  `json:"name"`
		CategoryID   *uint    `json:"category_id"`
		Unit         *string  `json:"unit"`
		DefaultPrice *float64 `json:"default_price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.CategoryID != nil {
		item.CategoryID = *input.CategoryID
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.DefaultPrice != nil {
		item.DefaultPrice = *input.DefaultPrice
	}

	if err := ic.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item updated", item)
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var item models.Item
	if err := ic.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := ic.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item deleted", nil)
}
