package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestServerDay(t *testing.T) {
	at := time.Date(2024, 1, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	r := gin.New()
	r.Use(ServerDay(func() time.Time { return at }))
	r.GET("/day", func(c *gin.Context) {
		day, ok := Today(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, day.Format(time.RFC3339))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/day?today=2099-01-01", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "2024-02-01T00:00:00Z" {
		t.Errorf("day = %q, want the UTC day of the server clock", got)
	}
}

func TestToday_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := Today(c); ok {
		t.Error("expected no day without ServerDay")
	}
}
