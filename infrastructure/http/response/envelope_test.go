package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/securematch/securematch/domain/error"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Created", map[string]int{"auditor_id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":true,"message":"Created","data":{"auditor_id":1}}`, rec.Body.String())
}

func TestAppError(t *testing.T) {
	t.Run("search rejection has no details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AppError(rec, domainerr.ErrSearchNotAuthorized(), "trace-1")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":{"code":"AUTH_1010","message":"Search not authorized"},"trace_id":"trace-1"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AppError(rec, domainerr.ErrAuditorNotFound(9), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		errBody := body["error"].(map[string]interface{})
		assert.Equal(t, "NOTFOUND_3001", errBody["code"])
		assert.Equal(t, "Auditor ID: 9", errBody["details"])
	})
}
