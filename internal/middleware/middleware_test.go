package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tiendaropa/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "secreto-de-prueba"

func init() { gin.SetMode(gin.TestMode) }

func firmar(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func claimsBase(tipo, rol string) jwt.MapClaims {
	return jwt.MapClaims{
		"rut":    12345678,
		"nombre": "Admin",
		"rol":    rol,
		"tipo":   tipo,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
}

func protegido(roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/x", middleware.JWTAuth(secreto), middleware.RequireRole(roles...), func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"rut": claims.RUT, "rol": claims.Rol})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_AccessTokenValido(t *testing.T) {
	w := get(protegido("administrador"), firmar(t, claimsBase("access", "administrador"), secreto))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rut":12345678,"rol":"administrador"}`, w.Body.String())
}

func TestJWTAuth_Rechazos(t *testing.T) {
	vencido := claimsBase("access", "administrador")
	vencido["exp"] = time.Now().Add(-time.Minute).Unix()
	sinRUT := claimsBase("access", "administrador")
	delete(sinRUT, "rut")

	casos := map[string]string{
		"sin token":     "",
		"refresh token": firmar(t, claimsBase("refresh", "administrador"), secreto),
		"otra firma":    firmar(t, claimsBase("access", "administrador"), "otro-secreto"),
		"vencido":       firmar(t, vencido, secreto),
		"sin rut":       firmar(t, sinRUT, secreto),
		"basura":        "abc.def.ghi",
	}
	r := protegido("administrador")
	for nombre, token := range casos {
		w := get(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, nombre)
	}
}

func TestRequireRole(t *testing.T) {
	r := protegido("administrador", "bodeguero")
	assert.Equal(t, http.StatusOK, get(r, firmar(t, claimsBase("access", "bodeguero"), secreto)).Code)
	assert.Equal(t, http.StatusForbidden, get(r, firmar(t, claimsBase("access", "vendedor"), secreto)).Code)
}

func TestRequireRole_SinClaims(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.RequireRole("administrador"), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, get(r, "").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	w := get(r, "")
	generado := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, generado, 36)
	assert.Equal(t, generado, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRateLimiter_EnMemoria(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimiter(nil, 2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
