package config

import (
	"os"

	"github.com/yeremiapane/procurement-app/models"
	"github.com/yeremiapane/procurement-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed installs the minimum master data on an empty store: one admin, one
// ops user, two branches with a branch user each, and a small catalog.
// It is a no-op when users already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	branches := []models.Branch{
		{Name: "Central Kitchen", Code: "CTR"},
		{Name: "Harbor Outlet", Code: "HBR"},
	}
	if err := db.Create(&branches).Error; err != nil {
		return err
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin12345"
	}

	users := []models.User{
		{Name: "Administrator", Email: "admin@example.com", Role: models.RoleAdmin, Password: adminPassword},
		{Name: "Operations", Email: "ops@example.com", Role: models.RoleOps, Password: adminPassword},
		{Name: "Central Branch", Email: "central@example.com", Role: models.RoleBranch, Password: adminPassword, BranchID: &branches[0].ID},
		{Name: "Harbor Branch", Email: "harbor@example.com", Role: models.RoleBranch, Password: adminPassword, BranchID: &branches[1].ID},
	}
	for i := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(users[i].Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users[i].Password = string(hashed)
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	categories := []models.Category{
		{Name: "Produce"},
		{Name: "Dry Goods"},
		{Name: "Packaging"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	items := []models.Item{
		{Name: "Onions", CategoryID: categories[0].ID, Unit: "kg", DefaultPrice: 22},
		{Name: "Tomatoes", CategoryID: categories[0].ID, Unit: "kg", DefaultPrice: 30},
		{Name: "Rice", CategoryID: categories[1].ID, Unit: "sack", DefaultPrice: 550},
		{Name: "Cooking Oil", CategoryID: categories[1].ID, Unit: "liter", DefaultPrice: 55},
		{Name: "Takeaway Box", CategoryID: categories[2].ID, Unit: "pack", DefaultPrice: 85},
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Seed data installed.")
	return nil
}
