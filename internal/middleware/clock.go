package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/werner-traut/budget/internal/calendar"
)

const todayKey = "today"

// ServerDay stamps each request with the current UTC calendar day read from
// now. Handlers take "today" from here, never from the client.
func ServerDay(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(todayKey, calendar.Day(now()))
		c.Next()
	}
}

// Today returns the day set by ServerDay.
func Today(c *gin.Context) (time.Time, bool) {
	v, ok := c.Get(todayKey)
	if !ok {
		return time.Time{}, false
	}
	day, ok := v.(time.Time)
	return day, ok
}
