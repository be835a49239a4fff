package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/domain/report"
	"github.com/Joyanne05/fixit-my/internal/pkg/errorhandler"
	"github.com/Joyanne05/fixit-my/internal/pkg/response"
	"github.com/Joyanne05/fixit-my/internal/pkg/validator"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type Handler struct {
	service *Service
	reports *report.Service
}

func NewHandler(service *Service, reports *report.Service) *Handler {
	return &Handler{service: service, reports: reports}
}

// Login handles POST /admin/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	token, err := h.service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "invalid email or password")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ADMIN_LOGIN_FAILED", "Login failed", err)
		return
	}

	response.OK(w, map[string]interface{}{"token": token})
}

// Seed handles POST /admin/auth/seed. Bootstrap only, idempotent.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.service.Seed(r.Context(), input.Email, input.Password); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ADMIN_SEED_FAILED", "Seed failed", err)
		return
	}

	response.Created(w, map[string]interface{}{"email": input.Email})
}

// ListReports handles GET /admin/reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	views, err := h.reports.List(r.Context(), uuid.Nil)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_LIST_FAILED", "Failed to list reports", err)
		return
	}

	response.OK(w, map[string]interface{}{"reports": views})
}

// Middleware guards routes with a bearer session token.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(w, "missing admin token")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if _, ok := h.service.Authenticate(token); !ok {
			response.Unauthorized(w, "invalid admin token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
