package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templui/folio/internal/model"
)

func TestNotifyService(t *testing.T) {
	ctx := context.Background()
	doc := model.Document{Profile: model.Profile{Name: "Ada"}, Projects: []model.Project{{ID: 1}}}

	t.Run("dev mode logs only", func(t *testing.T) {
		s := NewNotifyService("re_key", "noreply@example.com", "owner@example.com", "http://localhost:8090", "Portfolio", true)
		assert.NoError(t, s.DocumentSaved(ctx, doc))
	})

	t.Run("no owner email", func(t *testing.T) {
		s := NewNotifyService("", "noreply@example.com", "", "http://localhost:8090", "Portfolio", false)
		assert.NoError(t, s.DocumentSaved(ctx, doc))
	})

	t.Run("missing api key", func(t *testing.T) {
		s := NewNotifyService("", "noreply@example.com", "owner@example.com", "http://localhost:8090", "Portfolio", false)
		assert.ErrorContains(t, s.UploadStored(ctx, &model.Upload{Filename: "1-2.png"}), "RESEND_API_KEY")
	})
}

func TestNotifyTemplates(t *testing.T) {
	subject, body := documentSavedTemplate(
		model.Document{Profile: model.Profile{Name: "Ada", Title: "Engineer"}, Projects: []model.Project{{}, {}}},
		"https://ada.dev", "Ada's Portfolio",
	)
	assert.Equal(t, "Ada's Portfolio was updated", subject)
	assert.Contains(t, body, "Projects: 2")
	assert.Contains(t, body, "https://ada.dev")

	subject, body = uploadStoredTemplate(
		&model.Upload{OriginalName: "cv.pdf", MimeType: "application/pdf", Size: 42, URL: "/uploads/1-2.pdf"},
		"https://ada.dev", "Ada's Portfolio",
	)
	assert.Equal(t, "New file uploaded to Ada's Portfolio", subject)
	assert.Contains(t, body, "https://ada.dev/uploads/1-2.pdf")
	assert.Contains(t, body, "Size: 42 bytes")
}
