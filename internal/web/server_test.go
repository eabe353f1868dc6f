package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JonMunkholm/sheetimport/internal/config"
	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/JonMunkholm/sheetimport/internal/workbook"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Fixtures
// ----------------------------------------------------------------------------

var priceSchema = core.MustSchema("Prices", []core.ColumnSpec{
	{Name: "Name", Required: true},
	{Name: "Price", Type: core.TypeDecimal, Required: true, Formats: []core.Matcher{core.Pattern(`^\d+(\.\d+)?$`)}},
})

func testConfig() *config.Config {
	return &config.Config{
		Import: config.ImportConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       5 * time.Second,
		},
	}
}

func newTestServer(t *testing.T, defs ...core.Definition) *Server {
	t.Helper()
	reg := core.NewRegistry()
	if len(defs) == 0 {
		defs = []core.Definition{{Key: "prices", Group: "Test", Label: "Prices", Schema: priceSchema}}
	}
	for _, def := range defs {
		require.NoError(t, reg.Register(def))
	}
	return NewServer(testConfig(), reg, workbook.NewOpener(workbook.Options{}), core.NewImportLimiter(2, time.Second))
}

func uploadRequest(t *testing.T, path, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

const priceCSV = "Name,Price\nWidget,9.99\nGadget,bad\n,\n"

// ----------------------------------------------------------------------------
// Schemas
// ----------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestListSchemas(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/schemas", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []schemaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "prices", got[0].Key)
	assert.False(t, got[0].Exportable)
	require.Len(t, got[0].Columns, 2)
	assert.Equal(t, "decimal", got[0].Columns[1].Type)
	assert.Equal(t, []string{`/^\d+(\.\d+)?$/`}, got[0].Columns[1].Formats)
}

func TestGetSchema_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/schemas/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "IMP001", got.Code)
}

func TestDownloadTemplate(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/schemas/prices/template", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Name,Price\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "prices_template.csv")

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/schemas/prices/template?format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	wb, err := workbook.OpenXLSX(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	ws, err := wb.Worksheet(0)
	require.NoError(t, err)
	assert.Equal(t, []any{"Name", "Price"}, ws.Row(0))
}

// ----------------------------------------------------------------------------
// Import
// ----------------------------------------------------------------------------

func TestImport_ReportsInvalidRows(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/api/import/prices", "prices.csv", priceCSV, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, core.Summary{Total: 2, Valid: 1, Invalid: 1, Skipped: 1}, got.Summary)
	assert.Equal(t, []string{"Name", "Price"}, got.Headers)
	assert.Nil(t, got.Committed)

	require.Len(t, got.Rows, 1)
	assert.Equal(t, 3, got.Rows[0].Row)
	assert.False(t, got.Rows[0].Valid)
	assert.Contains(t, got.Rows[0].Errors, "price")
	assert.Equal(t, "Gadget", got.Rows[0].Values["Name"])
}

func TestImport_AllRows(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/api/import/prices", "prices.csv", priceCSV, map[string]string{"rows": "all"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Rows, 2)
	assert.True(t, got.Rows[0].Valid)
	assert.Equal(t, 9.99, got.Rows[0].Values["Price"])
}

func TestImport_MissingColumn(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/api/import/prices", "prices.csv", "Name\nWidget\n", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "VAL004", got.Code)
	assert.Equal(t, []string{"Price"}, got.Missing)
	assert.Equal(t, []string{"Name"}, got.Headers)
}

func TestImport_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		filename string
		content  string
		fields   map[string]string
		status   int
		code     string
	}{
		{"unknown schema", "/api/import/nope", "a.csv", priceCSV, nil, http.StatusNotFound, "IMP001"},
		{"no file", "/api/import/prices", "", "", nil, http.StatusBadRequest, "FILE004"},
		{"unsupported format", "/api/import/prices", "a.pdf", "x", nil, http.StatusBadRequest, "FILE002"},
		{"sheet out of range", "/api/import/prices", "a.csv", priceCSV, map[string]string{"sheet": "3"}, http.StatusBadRequest, "FILE006"},
		{"commit without export", "/api/import/prices", "a.csv", priceCSV, map[string]string{"commit": "true"}, http.StatusConflict, "DB006"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, tt.path, tt.filename, tt.content, tt.fields))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var got ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestImport_Commit(t *testing.T) {
	var exported []*core.Record
	s := newTestServer(t, core.Definition{
		Key:    "prices",
		Schema: priceSchema,
		Export: func(_ context.Context, res *core.Result) (int64, error) {
			exported = res.Valid()
			return int64(len(exported)), nil
		},
	})

	rec := serve(s, uploadRequest(t, "/api/import/prices", "prices.csv", priceCSV, map[string]string{"commit": "yes"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Committed)
	assert.Equal(t, int64(1), *got.Committed)
	require.Len(t, exported, 1)
	assert.Equal(t, "Widget", exported[0].Value("Name"))
}

func TestImport_Busy(t *testing.T) {
	s := newTestServer(t)
	s.limiter = core.NewImportLimiter(1, 10*time.Millisecond)
	require.True(t, s.limiter.TryAcquire())
	defer s.limiter.Release()

	rec := serve(s, uploadRequest(t, "/api/import/prices", "prices.csv", priceCSV, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

// ----------------------------------------------------------------------------
// Rollback
// ----------------------------------------------------------------------------

func TestRollback(t *testing.T) {
	id := uuid.New()
	var gotID uuid.UUID
	s := newTestServer(t, core.Definition{
		Key:    "prices",
		Schema: priceSchema,
		Rollback: func(_ context.Context, importID uuid.UUID) (int64, error) {
			gotID = importID
			return 4, nil
		},
	})

	rec := serve(s, httptest.NewRequest(http.MethodDelete, "/api/import/prices/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id, gotID)
	assert.Contains(t, rec.Body.String(), `"deleted":4`)

	rec = serve(s, httptest.NewRequest(http.MethodDelete, "/api/import/prices/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRollback_Disabled(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodDelete, "/api/import/prices/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
