package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "voice-recap/internal/api/errors"
	"voice-recap/internal/api/v1/dto"
	"voice-recap/internal/api/v1/services"
)

type stubRecapService struct {
	createResp *dto.RecapResponse
	createErr  error
	lastUpload *services.AudioUpload
	getResp    *dto.RecapResponse
	getErr     error
	listResp   *dto.PaginatedRecapsResponse
}

func (s *stubRecapService) CreateRecap(ctx context.Context, upload *services.AudioUpload) (*dto.RecapResponse, error) {
	s.lastUpload = upload
	return s.createResp, s.createErr
}

func (s *stubRecapService) GetRecap(ctx context.Context, id int64) (*dto.RecapResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubRecapService) ListRecaps(ctx context.Context, query dto.ListRecapsQuery) (*dto.PaginatedRecapsResponse, error) {
	return s.listResp, nil
}

func newTestRouter(service services.RecapService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewRecapHandler(service)
	router.POST("/recaps", handler.Create)
	router.GET("/recaps/:id", handler.Get)
	router.GET("/recaps", handler.List)
	return router
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreate(t *testing.T) {
	service := &stubRecapService{
		createResp: &dto.RecapResponse{
			Transcript: "Speaker 1: hello",
			Summary:    "a summary",
			Titles:     []string{"One", "Two", "Three"},
			CreatedAt:  time.Now().UTC(),
		},
	}
	router := newTestRouter(service)

	body, contentType := multipartUpload(t, "audio_file", "meeting.wav", []byte("fake audio bytes"))
	req := httptest.NewRequest(http.MethodPost, "/recaps", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RecapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a summary", resp.Summary)
	assert.Len(t, resp.Titles, 3)

	require.NotNil(t, service.lastUpload)
	assert.Equal(t, "meeting.wav", service.lastUpload.FileName)
	assert.Equal(t, []byte("fake audio bytes"), service.lastUpload.Data)
}

func TestCreate_MissingFileField(t *testing.T) {
	router := newTestRouter(&stubRecapService{})

	body, contentType := multipartUpload(t, "wrong_field", "meeting.wav", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/recaps", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_PipelineFailureStatus(t *testing.T) {
	tests := []struct {
		name           string
		err            *apierrors.APIError
		expectedStatus int
	}{
		{"bad audio", apierrors.NewBadRequestError("corrupt audio"), http.StatusBadRequest},
		{"rate limited", apierrors.NewRateLimitedError("slow down"), http.StatusTooManyRequests},
		{"upstream failure", apierrors.NewUpstreamError("provider down"), http.StatusBadGateway},
		{"internal", apierrors.NewInternalError("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubRecapService{createErr: tt.err})

			body, contentType := multipartUpload(t, "audio_file", "a.wav", []byte("x"))
			req := httptest.NewRequest(http.MethodPost, "/recaps", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var apiErr apierrors.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.err.Kind, apiErr.Kind)
		})
	}
}

func TestGet(t *testing.T) {
	service := &stubRecapService{
		getResp: &dto.RecapResponse{ID: 7, Summary: "stored"},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/recaps/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RecapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
}

func TestGet_InvalidID(t *testing.T) {
	router := newTestRouter(&stubRecapService{})

	for _, id := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/recaps/"+id, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
	}
}

func TestGet_NotFound(t *testing.T) {
	router := newTestRouter(&stubRecapService{getErr: apierrors.NewNotFoundError("recap")})

	req := httptest.NewRequest(http.MethodGet, "/recaps/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList(t *testing.T) {
	service := &stubRecapService{
		listResp: &dto.PaginatedRecapsResponse{
			Recaps:     []dto.RecapResponse{{ID: 1}, {ID: 2}},
			Pagination: dto.PaginationResponse{Page: 1, Limit: 20, Count: 2},
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/recaps", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PaginatedRecapsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Recaps, 2)
}

func TestList_InvalidQuery(t *testing.T) {
	router := newTestRouter(&stubRecapService{})

	req := httptest.NewRequest(http.MethodGet, "/recaps?limit=5000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
