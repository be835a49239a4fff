package report

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/middleware"
	"github.com/Joyanne05/fixit-my/internal/pkg/errorhandler"
	"github.com/Joyanne05/fixit-my/internal/pkg/response"
	"github.com/Joyanne05/fixit-my/internal/pkg/validator"
)

const maxPhotoSize = 10 << 20 // 10 MiB

// Handler for the reports API
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reports (multipart form, optional photo file)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	input := CreateInput{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		IsAnonymous: r.FormValue("is_anonymous") == "true",
	}

	if raw := r.FormValue("latitude"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, "invalid latitude")
			return
		}
		input.Latitude = &lat
	}
	if raw := r.FormValue("longitude"); raw != "" {
		long, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, "invalid longitude")
			return
		}
		input.Longitude = &long
	}

	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		// Read one byte past the limit so oversize uploads are rejected
		// rather than stored truncated.
		data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
		if err != nil {
			response.BadRequest(w, "failed to read photo")
			return
		}
		if len(data) > maxPhotoSize {
			response.BadRequest(w, "photo exceeds the 10 MiB limit")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		input.Photo = &PhotoUpload{Data: data, ContentType: contentType}
	}

	rep, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, ErrPhotoUpload) {
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_UPLOAD_FAILED", "Photo upload failed", err)
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_CREATE_FAILED", "Report creation failed", err)
		return
	}

	response.Created(w, rep)
}

// List handles GET /reports
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())

	views, err := h.service.List(r.Context(), viewerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"reports": views})
}

// Get handles GET /reports/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), reportID, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, detail)
}

// Follow handles POST /reports/{id}/follow
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.service.Follow(r.Context(), reportID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, map[string]bool{"following": true})
}

// Unfollow handles DELETE /reports/{id}/follow
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.service.Unfollow(r.Context(), reportID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// AddComment handles POST /reports/{id}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	var input CommentInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	comment, err := h.service.AddComment(r.Context(), reportID, userID, middleware.GetName(r.Context()), input.Comment)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, comment)
}

// ListComments handles GET /reports/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	comments, err := h.service.ListComments(r.Context(), reportID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, map[string]interface{}{"comments": comments})
}

// MarkInProgress handles POST /reports/{id}/progress
func (h *Handler) MarkInProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkInProgress(r.Context(), reportID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, map[string]string{"status": string(StatusInProgress)})
}

// Close handles POST /reports/{id}/close
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.service.Close(r.Context(), reportID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, map[string]string{"status": string(StatusInProgress)})
}

// Confirm handles POST /reports/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reportID, ok := h.reportID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Confirm(r.Context(), reportID, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, result)
}

func (h *Handler) reportID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid report id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "report not found")
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Conflict(w, "already verified")
	case errors.Is(err, ErrMustFollow):
		response.Forbidden(w, "must follow to verify")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}
