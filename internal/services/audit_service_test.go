package services

import (
	"strings"
	"testing"

	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/testutil"
)

func loadAuditLogs(t *testing.T, svc AuditServicer, userID string) []models.AuditLog {
	t.Helper()
	var logs []models.AuditLog
	if err := svc.(*auditService).db.Where("user_id = ?", userID).Order("created_at ASC").Find(&logs).Error; err != nil {
		t.Fatalf("failed to load audit logs: %v", err)
	}
	return logs
}

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, models.AuditCascadePayPeriods, "pay_period", "", "127.0.0.1", map[string]interface{}{"rounds": 1})
	svc.Log(user.ID, models.AuditDeleteBudgetEntry, "budget_entry", "id", "", nil)

	logs := loadAuditLogs(t, svc, user.ID)
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit logs, got %d", len(logs))
	}
	if logs[0].Changes != `{"rounds":1}` {
		t.Errorf("unexpected changes payload %q", logs[0].Changes)
	}
	if logs[1].Changes != "" {
		t.Errorf("nil changes should store nothing, got %q", logs[1].Changes)
	}
}

func TestAuditLog_OversizedChangesTruncated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, models.AuditUpdateBudgetEntry, "budget_entry", "id", "",
		map[string]interface{}{"name": strings.Repeat("x", maxAuditChanges)})

	logs := loadAuditLogs(t, svc, user.ID)
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit log, got %d", len(logs))
	}
	if !strings.Contains(logs[0].Changes, `"truncated":true`) {
		t.Errorf("expected truncation marker, got %q", logs[0].Changes)
	}
}

func TestAuditLog_MissingUserDropped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	svc.Log("", models.AuditScheduledCascade, "pay_period", "", "", nil)

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no audit rows, got %d", count)
	}
}

func TestAuditLog_StoreFailureSwallowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(db)
	testutil.TeardownTestDB(t, db)

	// Closed database: the call must not panic or surface an error.
	svc.Log("user", models.AuditDeleteBudgetEntry, "budget_entry", "id", "", nil)
}
