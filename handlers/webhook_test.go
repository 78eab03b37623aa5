package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"household-backend/config"
	"household-backend/database"
	"household-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Load()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		database.DB = nil
	})

	return db
}

func TestPaymentWebhookUpsertsOnEmailAndPlan(t *testing.T) {
	db := setupHandlerTest(t)

	router := gin.New()
	router.POST("/webhooks/payment", PaymentWebhook)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := post(`{"email":"alice@example.com","plan":"premium","status":"active"}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := post(`{"email":"alice@example.com","plan":"premium","status":"cancelled"}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var subs []models.Subscription
	if err := db.Find(&subs).Error; err != nil {
		t.Fatalf("failed to load subscriptions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription row, got %d", len(subs))
	}
	if subs[0].Status != "cancelled" {
		t.Fatalf("expected status updated to cancelled, got %s", subs[0].Status)
	}
}

func TestPaymentWebhookRejectsBadPayload(t *testing.T) {
	setupHandlerTest(t)

	router := gin.New()
	router.POST("/webhooks/payment", PaymentWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestMaxTasksSettingRoundTrip(t *testing.T) {
	setupHandlerTest(t)

	router := gin.New()
	router.GET("/api/settings/max-tasks", GetMaxTasksSetting)
	router.PUT("/api/settings/max-tasks", UpdateMaxTasksSetting)

	// Default comes from config before anything is persisted.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/max-tasks", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"max_tasks":10`) {
		t.Fatalf("expected default of 10, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPut, "/api/settings/max-tasks", strings.NewReader(`{"value":"15"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/max-tasks", nil))
	if !strings.Contains(w.Body.String(), `"max_tasks":15`) {
		t.Fatalf("expected persisted value 15, got %s", w.Body.String())
	}

	// Non-numeric and non-positive values are rejected before any write.
	req = httptest.NewRequest(http.MethodPut, "/api/settings/max-tasks", strings.NewReader(`{"value":"zero"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad value, got %d", w.Code)
	}
}
