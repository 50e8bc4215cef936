package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFail_WritesEnvelopeWithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-1")
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d", w.Code)
	}
	er := decodeError(t, w)
	if er.RequestID != "rid-1" || er.Code != ErrCodeNotFound || er.Message != "ticket not found" {
		t.Fatalf("envelope = %+v", er)
	}
}

func TestFail_ServerErrorStillWritesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Fail(c, http.StatusInternalServerError, ErrCodeInternal, "boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
	if er := decodeError(t, w); er.Code != ErrCodeInternal {
		t.Fatalf("envelope = %+v", er)
	}
}
