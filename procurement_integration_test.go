package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/procurement-app/models"
	"github.com/yeremiapane/procurement-app/router"
	"github.com/yeremiapane/procurement-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.WeeklyRequest{},
		&models.WeeklyRequestItem{},
		&models.PurchaseLog{},
		&models.PurchaseLogBranch{},
		&models.PurchaseLogItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	branch := models.Branch{Name: "Central Kitchen", Code: "CTR"}
	db.Create(&branch)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	db.Create(&models.User{Name: "Branch User", Email: "branch@example.com",
		Password: string(hashed), Role: models.RoleBranch, BranchID: &branch.ID})
	db.Create(&models.User{Name: "Ops User", Email: "ops@example.com",
		Password: string(hashed), Role: models.RoleOps})

	category := models.Category{Name: "Produce"}
	db.Create(&category)
	db.Create(&models.Item{Name: "Onions", CategoryID: category.ID, Unit: "kg", DefaultPrice: 55})
	db.Create(&models.Item{Name: "Rice", CategoryID: category.ID, Unit: "sack", DefaultPrice: 550})

	return db
}

func request(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email string) string {
	w := request(t, r, "POST", "/api/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})["token"].(string)
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

// TestEndToEndIntegration walks the full weekly cycle:
// branch saves and submits a draft, ops adjusts and finalizes it, reports
// show the resulting purchase log.
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	branchToken := login(t, r, "branch@example.com")
	opsToken := login(t, r, "ops@example.com")

	// Missing token is a 401; wrong role is a 403.
	w := request(t, r, "GET", "/api/requests/current", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = request(t, r, "GET", "/api/requests/current", opsToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, "GET", "/api/purchase-run", branchToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Branch builds and submits this week's draft.
	w = request(t, r, "GET", "/api/requests/current", branchToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	draft := data(t, w)
	draftID := strconv.Itoa(int(draft["id"].(float64)))

	w = request(t, r, "POST", "/api/requests/"+draftID+"/items", branchToken,
		map[string]interface{}{
			"items": []map[string]interface{}{
				{"item_id": 1, "requested_qty": 3},
				{"item_id": 2, "requested_qty": 0},
			},
		})
	assert.Equal(t, http.StatusOK, w.Code)
	lines := data(t, w)["items"].([]interface{})
	assert.Len(t, lines, 1)
	itemID := strconv.Itoa(int(lines[0].(map[string]interface{})["id"].(float64)))
	assert.Equal(t, 165.0, lines[0].(map[string]interface{})["total_price"])

	w = request(t, r, "POST", "/api/requests/"+draftID+"/submit", branchToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Ops reviews the worksheet and approves 2 of 3.
	w = request(t, r, "GET", "/api/purchase-run", opsToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	worksheet := data(t, w)["items"].([]interface{})
	assert.Len(t, worksheet, 1)

	itemIDInt, _ := strconv.Atoi(itemID)
	w = request(t, r, "POST", "/api/purchase-run/"+draftID+"/update-items", opsToken,
		map[string]interface{}{
			"items": []map[string]interface{}{{"id": itemIDInt, "approved_qty": 2}},
		})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, "POST", "/api/purchase-run/"+draftID+"/finalize", opsToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	purchaseLog := data(t, w)
	assert.Equal(t, 110.0, purchaseLog["total"])

	// The request is now immutable for everyone.
	w = request(t, r, "POST", "/api/requests/"+draftID+"/items", branchToken,
		map[string]interface{}{"items": []map[string]interface{}{{"item_id": 1, "requested_qty": 9}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = request(t, r, "POST", "/api/purchase-run/"+draftID+"/finalize", opsToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Reports reflect the single finalized log.
	w = request(t, r, "GET", "/api/reports/purchase-logs", opsToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp["data"].([]interface{}), 1)

	w = request(t, r, "GET", "/api/reports/branch-trend", opsToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, "GET", "/api/reports/dashboard", opsToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logout revokes the token.
	w = request(t, r, "POST", "/api/logout", branchToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(t, r, "GET", "/api/requests/current", branchToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
