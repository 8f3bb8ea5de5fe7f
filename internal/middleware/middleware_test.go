package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetUint64("userID")})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, userID uint64, role uint) string {
	t.Helper()
	tok, err := utils.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	r := protected(AuthMiddleware())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", bearer(t, 9, models.RoleStaff), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want != http.StatusOK {
				var resp utils.Response
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Success {
					t.Fatalf("body = %s", w.Body.String())
				}
			}
		})
	}
}

func TestRoleGates(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")

	tests := []struct {
		name string
		gate gin.HandlerFunc
		role uint
		want int
	}{
		{"admin passes admin gate", AdminOnly(), models.RoleAdmin, http.StatusOK},
		{"staff blocked by admin gate", AdminOnly(), models.RoleStaff, http.StatusForbidden},
		{"staff passes staff gate", StaffOnly(), models.RoleStaff, http.StatusOK},
		{"admin passes staff gate", StaffOnly(), models.RoleAdmin, http.StatusOK},
		{"technician blocked by staff gate", StaffOnly(), models.RoleTechnician, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := protected(AuthMiddleware(), tt.gate)
			if w := do(r, bearer(t, 1, tt.role)); w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRoleGateWithoutAuth(t *testing.T) {
	if w := do(protected(AdminOnly()), ""); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	r := protected(limitWith(limiter))

	codes := []int{do(r, "").Code, do(r, "").Code, do(r, "").Code}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestSweepDropsIdleVisitors(t *testing.T) {
	clock := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 1)
	limiter.now = func() time.Time { return clock }

	limiter.GetLimiter("10.0.0.1")
	clock = clock.Add(2 * time.Minute)
	limiter.GetLimiter("10.0.0.2")
	clock = clock.Add(2 * time.Minute)
	limiter.Sweep()

	if _, ok := limiter.ips["10.0.0.1"]; ok {
		t.Fatal("idle visitor kept")
	}
	if _, ok := limiter.ips["10.0.0.2"]; !ok {
		t.Fatal("recent visitor dropped")
	}
}

func TestCORSConfig(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	if cfg := CORSConfig(); !cfg.AllowAllOrigins {
		t.Fatal("development should allow all origins")
	}

	t.Setenv("GO_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := CORSConfig()
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "https://b.example" {
		t.Fatalf("production origins = %v", cfg.AllowOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg = CORSConfig()
	if cfg.AllowOriginFunc == nil || cfg.AllowOriginFunc("https://a.example") {
		t.Fatal("production without allowlist should deny every origin")
	}
	CORSMiddleware() // must not panic
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	do(protected(RequestLogger(logger)), "")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%s)", err, buf.String())
	}
	if line["path"] != "/x" || line["status"] != float64(http.StatusOK) || line["level"] != "info" {
		t.Fatalf("log line = %v", line)
	}
}
