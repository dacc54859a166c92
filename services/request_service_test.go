package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/procurement-app/models"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Branch{},
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

	category := models.Category{Name: "Produce"}
	db.Create(&category)
	db.Create(&models.Item{Name: "Onions", CategoryID: category.ID, Unit: "kg", DefaultPrice: 55})
	db.Create(&models.Item{Name: "Rice", CategoryID: category.ID, Unit: "sack", DefaultPrice: 550})
	return db
}

func TestGetOrCreateCurrentDraftIsIdempotent(t *testing.T) {
	db := setupServiceTestDB(t, "svc_draft")
	svc := NewRequestService(db)
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	first, err := svc.GetOrCreateCurrentDraft(1, 10, now)
	assert.NoError(t, err)
	assert.Equal(t, RequestStatusDraft, first.Status)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), first.WeekStartDate.UTC())

	// Later the same week, even on Sunday, the same draft comes back.
	second, err := svc.GetOrCreateCurrentDraft(1, 10, time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.WeeklyRequest{}).Where("branch_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReplaceItemsRoundTrip(t *testing.T) {
	db := setupServiceTestDB(t, "svc_replace")
	svc := NewRequestService(db)
	caller := Caller{UserID: 10, Role: models.RoleBranch, BranchID: 1}

	draft, err := svc.GetOrCreateCurrentDraft(1, 10, time.Now())
	assert.NoError(t, err)

	lines := []RequestLine{
		{ItemID: 1, RequestedQty: 3},
		{ItemID: 2, RequestedQty: 0},  // dropped: zero quantity
		{ItemID: 99, RequestedQty: 5}, // dropped: unknown item
	}
	updated, err := svc.ReplaceItems(draft.ID, caller, lines, nil)
	assert.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, "Onions", updated.Items[0].ItemName)
	assert.Equal(t, 3.0, updated.Items[0].ApprovedQty)
	assert.Equal(t, 55.0, updated.Items[0].UnitPrice)
	assert.Equal(t, 165.0, updated.Items[0].TotalPrice)

	// A re-save replaces the whole set and re-prices from the catalog.
	db.Model(&models.Item{}).Where("id = ?", 1).Update("default_price", 60)
	updated, err = svc.ReplaceItems(draft.ID, caller, []RequestLine{{ItemID: 1, RequestedQty: 2}}, nil)
	assert.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 60.0, updated.Items[0].UnitPrice)
	assert.Equal(t, 120.0, updated.Items[0].TotalPrice)

	roundTrip, err := svc.GetOrCreateCurrentDraft(1, 10, time.Now())
	assert.NoError(t, err)
	assert.Len(t, roundTrip.Items, 1)
	assert.Equal(t, updated.Items[0].ID, roundTrip.Items[0].ID)
}

func TestReplaceItemsOwnershipAndState(t *testing.T) {
	db := setupServiceTestDB(t, "svc_guard")
	svc := NewRequestService(db)
	owner := Caller{UserID: 10, Role: models.RoleBranch, BranchID: 1}

	draft, _ := svc.GetOrCreateCurrentDraft(1, 10, time.Now())
	_, err := svc.ReplaceItems(draft.ID, owner, []RequestLine{{ItemID: 1, RequestedQty: 1}}, nil)
	assert.NoError(t, err)

	// Another branch's user is rejected without touching the items.
	intruder := Caller{UserID: 20, Role: models.RoleBranch, BranchID: 2}
	_, err = svc.ReplaceItems(draft.ID, intruder, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	// Ops role cannot edit drafts either.
	ops := Caller{UserID: 30, Role: models.RoleOps}
	_, err = svc.ReplaceItems(draft.ID, ops, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	var count int64
	db.Model(&models.WeeklyRequestItem{}).Where("request_id = ?", draft.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Once submitted the branch loses edit access.
	_, err = svc.Submit(draft.ID, owner, nil)
	assert.NoError(t, err)
	_, err = svc.ReplaceItems(draft.ID, owner, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitRules(t *testing.T) {
	db := setupServiceTestDB(t, "svc_submit")
	svc := NewRequestService(db)
	caller := Caller{UserID: 10, Role: models.RoleBranch, BranchID: 1}

	draft, _ := svc.GetOrCreateCurrentDraft(1, 10, time.Now())

	// Empty draft cannot be submitted and stays DRAFT.
	_, err := svc.Submit(draft.ID, caller, nil)
	assert.ErrorIs(t, err, ErrEmptyRequest)

	var check models.WeeklyRequest
	db.First(&check, draft.ID)
	assert.Equal(t, RequestStatusDraft, check.Status)

	_, err = svc.ReplaceItems(draft.ID, caller, []RequestLine{{ItemID: 1, RequestedQty: 2}}, nil)
	assert.NoError(t, err)

	submitted, err := svc.Submit(draft.ID, caller, nil)
	assert.NoError(t, err)
	assert.Equal(t, RequestStatusSubmitted, submitted.Status)

	// Submitting twice fails the second time.
	_, err = svc.Submit(draft.ID, caller, nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Submit(9999, caller, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaleVersionRejected(t *testing.T) {
	db := setupServiceTestDB(t, "svc_version")
	svc := NewRequestService(db)
	caller := Caller{UserID: 10, Role: models.RoleBranch, BranchID: 1}

	draft, _ := svc.GetOrCreateCurrentDraft(1, 10, time.Now())
	updated, err := svc.ReplaceItems(draft.ID, caller, []RequestLine{{ItemID: 1, RequestedQty: 2}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, draft.Version+1, updated.Version)

	stale := draft.Version
	_, err = svc.ReplaceItems(draft.ID, caller, []RequestLine{{ItemID: 2, RequestedQty: 1}}, &stale)
	assert.ErrorIs(t, err, ErrStaleVersion)

	// The stale save must not have touched the line items.
	fresh, _ := svc.GetOrCreateCurrentDraft(1, 10, time.Now())
	assert.Len(t, fresh.Items, 1)
	assert.Equal(t, "Onions", fresh.Items[0].ItemName)

	current := updated.Version
	_, err = svc.Submit(draft.ID, caller, &current)
	assert.NoError(t, err)
}

func TestHistoryNewestFirstWithTotals(t *testing.T) {
	db := setupServiceTestDB(t, "svc_history")
	svc := NewRequestService(db)
	caller := Caller{UserID: 10, Role: models.RoleBranch, BranchID: 1}

	older, _ := svc.GetOrCreateCurrentDraft(1, 10, time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC))
	svc.ReplaceItems(older.ID, caller, []RequestLine{{ItemID: 1, RequestedQty: 2}}, nil)
	svc.Submit(older.ID, caller, nil)
	// Push the older request's timestamp back so ordering is deterministic.
	db.Model(&models.WeeklyRequest{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-48*time.Hour))

	newer, _ := svc.GetOrCreateCurrentDraft(1, 10, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	svc.ReplaceItems(newer.ID, caller, []RequestLine{{ItemID: 2, RequestedQty: 1}}, nil)

	summaries, err := svc.History(1)
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, 550.0, summaries[0].Total)
	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Equal(t, 110.0, summaries[1].Total)
}
