package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/storage"
	"github.com/minutelaunch/minutelaunch/storage/db"
)

// NewTestContext creates an Echo context for handler tests.
func NewTestContext(method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// NewTestDB creates a migrated in-memory database.
func NewTestDB() (*sql.DB, *db.Queries, func()) {
	database, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}
	return database, queries, cleanup
}

// DecodeJSONResponse parses the recorded response body.
func DecodeJSONResponse(rec *httptest.ResponseRecorder) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
