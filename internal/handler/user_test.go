package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferrarijessie/j.money.api/internal/database"
	"github.com/ferrarijessie/j.money.api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TestChangePassword_UsesConfiguredCost checks the new hash is produced at
// the configured bcrypt cost, not the library default.
func TestChangePassword_UsesConfiguredCost(t *testing.T) {
	db := newHandlerTestDB(t)

	oldHash, err := bcrypt.GenerateFromPassword([]byte("Oldpass1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash old password: %v", err)
	}
	user := models.User{Username: "alice", PasswordHash: string(oldHash), Token: "key"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/me/password", func(c *gin.Context) {
		c.Set("currentUser", &user)
	}, ChangePassword(db, 6))

	req := httptest.NewRequest(http.MethodPost, "/me/password",
		strings.NewReader(`{"oldPassword":"Oldpass1","newPassword":"Newpass2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var updated models.User
	if err := db.First(&updated, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(updated.PasswordHash))
	if err != nil {
		t.Fatalf("read hash cost: %v", err)
	}
	if cost != 6 {
		t.Errorf("hash cost = %d, want 6", cost)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("Newpass2")); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}
