package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voice-recap/internal/api/errors"
	"voice-recap/internal/api/middleware"
	"voice-recap/internal/api/v1/dto"
	"voice-recap/internal/api/v1/services"
)

// maxUploadBytes caps uploaded audio at 100 MiB.
const maxUploadBytes = 100 << 20

// RecapHandler handles recap-related API endpoints
type RecapHandler struct {
	service services.RecapService
}

// NewRecapHandler creates a new recap handler
func NewRecapHandler(service services.RecapService) *RecapHandler {
	return &RecapHandler{
		service: service,
	}
}

// Create handles POST /api/v1/recaps
//
// @Summary Generate a recap from an audio upload
// @Description Runs the full pipeline on the uploaded audio and returns the transcript, summary and three title suggestions
// @Tags recaps
// @Accept multipart/form-data
// @Produce json
// @Param audio_file formData file true "Audio file (wav, mp3, m4a, ogg, flac)"
// @Success 200 {object} dto.RecapResponse "Recap generated successfully"
// @Failure 400 {object} errors.APIError "Bad request - empty, corrupt or unsupported audio"
// @Failure 429 {object} errors.APIError "Upstream provider is rate limiting"
// @Failure 502 {object} errors.APIError "Upstream provider failure"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /recaps [post]
func (h *RecapHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio_file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("missing audio_file field"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		middleware.HandleError(c, errors.NewBadRequestError("uploaded file exceeds the 100MB limit"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("failed to read uploaded file"))
		return
	}
	if len(data) > maxUploadBytes {
		middleware.HandleError(c, errors.NewBadRequestError("uploaded file exceeds the 100MB limit"))
		return
	}

	upload := &services.AudioUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	response, err := h.service.CreateRecap(c.Request.Context(), upload)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/recaps/:id
//
// @Summary Get recap by ID
// @Description Retrieves a previously generated recap
// @Tags recaps
// @Produce json
// @Param id path int true "Recap ID" minimum(1)
// @Success 200 {object} dto.RecapResponse "Recap details"
// @Failure 400 {object} errors.APIError "Bad request - invalid ID"
// @Failure 404 {object} errors.APIError "Recap not found"
// @Router /recaps/{id} [get]
func (h *RecapHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid recap ID"))
		return
	}

	response, err := h.service.GetRecap(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /api/v1/recaps
//
// @Summary List recaps with pagination
// @Description Retrieves a paginated list of generated recaps, newest first
// @Tags recaps
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.PaginatedRecapsResponse "List of recaps with pagination"
// @Failure 400 {object} errors.APIError "Bad request - invalid query parameters"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /recaps [get]
func (h *RecapHandler) List(c *gin.Context) {
	var query dto.ListRecapsQuery

	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListRecaps(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
