package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
)

func testBaseHandler() BaseHandler {
	return NewBaseHandler(utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestHandleServiceError(t *testing.T) {
	h := testBaseHandler()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "validation errors", err: services.ValidationErrors{{Field: "title", Message: "required"}}, wantCode: http.StatusBadRequest},
		{name: "business rule", err: &services.BusinessRuleError{Rule: "course_published", Message: "not published"}, wantCode: http.StatusUnprocessableEntity},
		{name: "permission", err: services.NewPermissionError("u-1", "dashboard", "read", "unknown role"), wantCode: http.StatusForbidden},
		{name: "not implemented", err: services.NewNotImplementedError("courses.bulk.publish"), wantCode: http.StatusNotImplemented},
		{name: "course not found", err: services.ErrCourseNotFound, wantCode: http.StatusNotFound},
		{name: "chapter not found", err: services.ErrChapterNotFound, wantCode: http.StatusNotFound},
		{name: "profile not found", err: services.ErrProfileNotFound, wantCode: http.StatusNotFound},
		{name: "slug taken", err: services.ErrSlugTaken, wantCode: http.StatusConflict},
		{name: "email taken", err: services.ErrEmailTaken, wantCode: http.StatusConflict},
		{name: "already enrolled", err: services.ErrAlreadyEnrolled, wantCode: http.StatusConflict},
		{name: "duplicate payment", err: services.ErrDuplicatePayment, wantCode: http.StatusConflict},
		{name: "course not deletable", err: services.ErrCourseNotDeletable, wantCode: http.StatusConflict},
		{name: "anything else", err: io.ErrUnexpectedEOF, wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.handleServiceError(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("handleServiceError(%v) status = %d, want %d", tt.err, w.Code, tt.wantCode)
			}
		})
	}
}

func TestSendExportFile(t *testing.T) {
	h := testBaseHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/export", nil)

	h.sendExportFile(c, &services.ExportFile{
		Filename:    "courses.csv",
		ContentType: "text/csv",
		Data:        []byte(`"ID","Title"`),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="courses.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestRequireUserID(t *testing.T) {
	h := testBaseHandler()

	t.Run("authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id", "u-1")

		id, ok := h.requireUserID(c)
		if !ok || id != "u-1" {
			t.Errorf("requireUserID() = %q, %v", id, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		if _, ok := h.requireUserID(c); ok {
			t.Error("requireUserID() should fail without user_id")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
