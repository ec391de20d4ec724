package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

// cascadeRoute mounts a stand-in for the pipeline cascade handler and counts
// how often it runs.
func cascadeRoute(apiKey string, runs *int) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging())
	pipeline := r.Group("/api/v1/pipeline", PipelineAuthMiddleware(apiKey))
	pipeline.POST("/cascade", func(c *gin.Context) {
		*runs++
		c.JSON(http.StatusOK, gin.H{"users": 0, "pipeline": c.GetBool("pipeline")})
	})
	return r
}

func triggerCascade(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/cascade", http.NoBody)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPipelineAuth_AcceptsConfiguredKey(t *testing.T) {
	runs := 0
	rec := triggerCascade(cascadeRoute("cron-runner-key", &runs), "cron-runner-key")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if runs != 1 {
		t.Errorf("cascade ran %d times, want 1", runs)
	}
	if marked, _ := parseBody(t, rec)["pipeline"].(bool); !marked {
		t.Error("expected the request to be marked as a pipeline call")
	}
}

func TestPipelineAuth_RejectsBeforeCascade(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		wantStatus int
		wantCode   string
	}{
		{"no_key_sent", "cron-runner-key", "", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"wrong_key", "cron-runner-key", "cron-runner-kez", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"prefix_of_key", "cron-runner-key", "cron-runner", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"pipeline_disabled", "", "cron-runner-key", http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			rec := triggerCascade(cascadeRoute(tt.configured, &runs), tt.sent)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if runs != 0 {
				t.Errorf("cascade ran %d times on a rejected request", runs)
			}
			errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected error object in response")
			}
			if code, _ := errObj["code"].(string); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("rejected requests should still carry a request ID")
			}
		})
	}
}

func TestPipelineAuth_IgnoresBearerTokens(t *testing.T) {
	runs := 0
	r := cascadeRoute("cron-runner-key", &runs)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/cascade", http.NoBody)
	req.Header.Set("Authorization", "Bearer cron-runner-key")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || runs != 0 {
		t.Errorf("status = %d runs = %d, want 401 and no cascade", rec.Code, runs)
	}
}
