package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/domain/report"
	"github.com/Joyanne05/fixit-my/internal/middleware"
)

func newCreateRequest(t *testing.T, fields map[string]string, photo []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for name, value := range fields {
		requireNoError(t, form.WriteField(name, value))
	}
	if photo != nil {
		part, err := form.CreateFormFile("photo", "photo.jpg")
		requireNoError(t, err)
		_, err = part.Write(photo)
		requireNoError(t, err)
	}
	requireNoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/reports", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())

	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func validFields() map[string]string {
	return map[string]string{
		"title":       "Broken streetlight",
		"category":    "electricity",
		"description": "The light at the corner has been out for a week",
		"location":    "5th and Main",
	}
}

func TestCreateRejectsOversizePhoto(t *testing.T) {
	svc, repo, _ := newService()
	handler := report.NewHandler(svc)

	oversize := make([]byte, 10<<20+1)
	req := newCreateRequest(t, validFields(), oversize)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversize photo, got %d", w.Code)
	}
	if len(repo.reports) != 0 {
		t.Fatal("expected no report stored")
	}
}

func TestCreateRejectsBadCoordinates(t *testing.T) {
	svc, repo, _ := newService()
	handler := report.NewHandler(svc)

	fields := validFields()
	fields["latitude"] = "not-a-number"

	w := httptest.NewRecorder()
	handler.Create(w, newCreateRequest(t, fields, nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad latitude, got %d", w.Code)
	}

	fields = validFields()
	fields["latitude"] = "120.5" // beyond the poles

	w = httptest.NewRecorder()
	handler.Create(w, newCreateRequest(t, fields, nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range latitude, got %d", w.Code)
	}
	if len(repo.reports) != 0 {
		t.Fatal("expected no report stored")
	}
}

func TestCreateAcceptsCoordinates(t *testing.T) {
	svc, repo, _ := newService()
	handler := report.NewHandler(svc)

	fields := validFields()
	fields["latitude"] = "3.1390"
	fields["longitude"] = "101.6869"

	w := httptest.NewRecorder()
	handler.Create(w, newCreateRequest(t, fields, nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data report.Report `json:"data"`
	}
	requireNoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	if envelope.Data.Latitude == nil || *envelope.Data.Latitude != 3.1390 {
		t.Fatalf("expected latitude echoed, got %v", envelope.Data.Latitude)
	}

	stored := repo.reports[envelope.Data.ReportID]
	if stored.Longitude == nil || *stored.Longitude != 101.6869 {
		t.Fatalf("expected longitude persisted, got %v", stored.Longitude)
	}
}
