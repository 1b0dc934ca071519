package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/config"
	"github.com/VncsRaniery/habitask-sub001/internal/database"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func gateRouter(principal *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(authz.ContextKey, principal)
		}
		c.Next()
	})
	r.Use(RouteGate(config.Default().Gate))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/dashboard", ok)
	r.GET("/dashboard/tasks", ok)
	r.GET("/dashboards", ok)
	r.GET("/signin", ok)
	r.GET("/signup", ok)
	r.GET("/", ok)
	r.GET("/api/sessions", ok)
	return r
}

func TestRouteGate(t *testing.T) {
	user := &models.User{ID: "u1"}

	cases := []struct {
		name      string
		principal *models.User
		path      string
		wantCode  int
		wantLoc   string
	}{
		{"anonymous protected", nil, "/dashboard", http.StatusFound, "/signin?callbackUrl=%2Fdashboard"},
		{"anonymous nested protected", nil, "/dashboard/tasks", http.StatusFound, "/signin?callbackUrl=%2Fdashboard%2Ftasks"},
		{"anonymous lookalike prefix", nil, "/dashboards", http.StatusOK, ""},
		{"anonymous signin", nil, "/signin", http.StatusOK, ""},
		{"anonymous home", nil, "/", http.StatusOK, ""},
		{"anonymous api untouched", nil, "/api/sessions", http.StatusOK, ""},
		{"signed in protected", user, "/dashboard", http.StatusOK, ""},
		{"signed in signin", user, "/signin", http.StatusFound, "/dashboard"},
		{"signed in signup", user, "/signup", http.StatusFound, "/dashboard"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			gateRouter(tc.principal).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantCode)
			}
			if loc := w.Header().Get("Location"); loc != tc.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tc.wantLoc)
			}
		})
	}
}

func TestAuthMiddlewareResolvesPrincipal(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Email: "ana@example.com"}
	db.Create(&user)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware("secret", "habitask", db))
	r.GET("/whoami", func(c *gin.Context) {
		if p := authz.Principal(c); p != nil {
			c.String(http.StatusOK, p.ID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	token, _ := util.GenerateToken("secret", "habitask", user.ID, user.Email, time.Hour)
	forged, _ := util.GenerateToken("other", "habitask", user.ID, user.Email, time.Hour)
	stale, _ := util.GenerateToken("secret", "habitask", "deleted-user", "", time.Hour)
	foreign, _ := util.GenerateToken("secret", "other-app", user.ID, user.Email, time.Hour)

	cases := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"none", func(*http.Request) {}, "anonymous"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, user.ID},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) }, user.ID},
		{"forged", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forged) }, "anonymous"},
		{"foreign issuer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign) }, "anonymous"},
		{"unknown user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+stale) }, "anonymous"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Body.String() != tc.want {
				t.Errorf("principal = %q, want %q", w.Body.String(), tc.want)
			}
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami?token="+token, nil))
	if w.Body.String() != user.ID {
		t.Errorf("query token principal = %q, want %q", w.Body.String(), user.ID)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "middleware.db")})
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
