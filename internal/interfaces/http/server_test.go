package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/appsource"
	"github.com/garyjia/travel-settlement/internal/engine"
	"github.com/garyjia/travel-settlement/internal/reference"
	"github.com/garyjia/travel-settlement/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	resolver := engine.NewPerDiemResolver(reference.BuiltinLocations())
	classifier := engine.NewClassifier(reference.BuiltinExpenseItems())
	currencies := reference.BuiltinCurrencies()
	logger := zap.NewNop()
	documents := service.NewDocumentService(
		engine.NewEngine(engine.NewApportioner(7.23), logger),
		engine.NewApplier(resolver, classifier, currencies),
		resolver,
		classifier,
		currencies,
		appsource.NewMockSource(appsource.BuiltinPool(), 0, logger),
		logger,
	)
	return NewServer(DefaultServerConfig(), documents, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func createDocument(t *testing.T, srv *Server) string {
	t.Helper()
	rec, resp := doJSON(t, srv, http.MethodPost, "/api/documents", map[string]string{"reimburser": "张三"})
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := resp.Data.(map[string]interface{})
	return doc["id"].(string)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestListApplications(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := doJSON(t, srv, http.MethodGet, "/api/applications", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	apps := resp.Data.([]interface{})
	assert.Len(t, apps, 2)
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	docID := createDocument(t, srv)

	rec, resp := doJSON(t, srv, http.MethodGet, "/api/documents/"+docID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := resp.Data.(map[string]interface{})
	assert.Equal(t, docID, doc["id"])

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/documents/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportAndSettlement(t *testing.T) {
	srv := newTestServer(t)
	docID := createDocument(t, srv)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/import",
		map[string]string{"application_id": "TRIP-INT-2024-US001"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, srv, http.MethodGet, "/api/documents/"+docID+"/settlement", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := resp.Data.(map[string]interface{})
	assert.Greater(t, view["allowance_total"].(float64), 0.0)
	assert.Greater(t, view["corporate_total"].(float64), 0.0)

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/import",
		map[string]string{"application_id": "TRIP-XX"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/import", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyCommandEndpoint(t *testing.T) {
	srv := newTestServer(t)
	docID := createDocument(t, srv)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/segments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	segments := resp.Data.(map[string]interface{})["segments"].([]interface{})
	segID := int64(segments[0].(map[string]interface{})["id"].(float64))

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/commands",
		map[string]interface{}{
			"type":       "set_segment_dates",
			"segment_id": segID,
			"start_date": "2024-01-08",
			"end_date":   "2024-01-12",
		})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := resp.Data.(map[string]interface{})["segments"].([]interface{})
	assert.Equal(t, 4.0, updated[0].(map[string]interface{})["days"])

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/commands",
		map[string]interface{}{"type": "warp_drive"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/commands",
		map[string]interface{}{"type": "set_segment_dates", "segment_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTravelerEndpoints(t *testing.T) {
	srv := newTestServer(t)
	docID := createDocument(t, srv)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/travelers",
		map[string]string{"name": "李四", "level": "P6"})
	require.Equal(t, http.StatusOK, rec.Code)
	travelers := resp.Data.(map[string]interface{})["travelers"].([]interface{})
	require.Len(t, travelers, 2)
	firstID := travelers[0].(map[string]interface{})["id"].(string)
	secondID := travelers[1].(map[string]interface{})["id"].(string)

	rec, _ = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/documents/%s/travelers/%s", docID, secondID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The roster never empties: the last member is protected.
	rec, _ = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/documents/%s/travelers/%s", docID, firstID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExpenseAndLoanEndpoints(t *testing.T) {
	srv := newTestServer(t)
	docID := createDocument(t, srv)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/expenses",
		map[string]interface{}{"original_amount": 220})
	require.Equal(t, http.StatusOK, rec.Code)
	expenses := resp.Data.(map[string]interface{})["expenses"].([]interface{})
	require.Len(t, expenses, 1)
	assert.InDelta(t, 1590.60, expenses[0].(map[string]interface{})["home_amount"].(float64), 0.001)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/loans",
		map[string]interface{}{"loan_amount": 2000, "cleared_amount": 500})
	require.Equal(t, http.StatusOK, rec.Code)
	loans := resp.Data.(map[string]interface{})["loans"].([]interface{})
	require.Len(t, loans, 1)
	loanID := int64(loans[0].(map[string]interface{})["id"].(float64))

	rec, _ = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/documents/%s/loans/%d", docID, loanID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/documents/%s/loans/%d", docID, loanID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/documents/"+docID+"/loans/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		wantErr  bool
	}{
		{
			name:     "segment dates",
			body:     `{"type":"set_segment_dates","segment_id":1,"start_date":"2024-01-08","end_date":"2024-01-12"}`,
			expected: "set_segment_dates",
		},
		{
			name:     "loan cleared",
			body:     `{"type":"set_loan_cleared","loan_id":3,"amount":500}`,
			expected: "set_loan_cleared",
		},
		{
			name:     "bind invoice",
			body:     `{"type":"bind_invoice","expense_id":2,"invoice_no":"INV-1"}`,
			expected: "bind_invoice",
		},
		{name: "unknown type", body: `{"type":"warp_drive"}`, wantErr: true},
		{name: "missing type", body: `{}`, wantErr: true},
		{name: "malformed json", body: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := DecodeCommand([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd.Name())
		})
	}
}
