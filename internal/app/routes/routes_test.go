package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aiu/stimulus/internal/app/controllers"
	"github.com/aiu/stimulus/internal/middleware"
	pkgauth "github.com/aiu/stimulus/internal/pkg/auth"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "test",
	})

	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(nil, zerolog.Nop()),
		controllers.NewApplicationController(nil, zerolog.Nop()),
		controllers.NewPaperController(nil, zerolog.Nop()),
		controllers.NewCoauthorController(nil, zerolog.Nop()),
		controllers.NewMetaController(),
		middleware.NewAuthMiddleware(jwtService, nil),
	)
	return router
}

func TestHealthIsPublic(t *testing.T) {
	router := testRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMetaRequiresAuthentication(t *testing.T) {
	router := testRouter()

	paths := []string{
		"/api/meta/faculties",
		"/api/meta/indexation",
		"/api/meta/report_years",
	}
	for _, path := range paths {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}
}

func TestApplicationsRequireAuthentication(t *testing.T) {
	router := testRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
