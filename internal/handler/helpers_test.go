package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gatherhq/gatherspace/internal/router"
	"github.com/gatherhq/gatherspace/internal/testutil"
	"github.com/gatherhq/gatherspace/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var loggerOnce sync.Once

// setupAPI builds the real route table against a fresh in-memory database.
func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	loggerOnce.Do(func() {
		if err := logger.Init(false); err != nil {
			t.Fatalf("Failed to initialize logger: %v", err)
		}
	})

	db := testutil.SetupTestDB(t)
	r := router.Setup(router.Deps{
		DB:     db,
		Config: testutil.TestConfig(),
	})
	return r, db
}

// doRequest performs a JSON request; token, when non-empty, is sent as a
// Bearer credential.
func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// rawRequest sends a pre-encoded JSON body, for payloads that need exact
// control (e.g. explicit nulls).
func rawRequest(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var body []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}
