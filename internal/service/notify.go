package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/templui/folio/internal/model"
)

// NotifyService tells the site owner about changes made through the editor.
type NotifyService struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
	isDev     bool
	appURL    string
	appName   string
}

func NewNotifyService(apiKey, fromEmail, toEmail, appURL, appName string, isDev bool) *NotifyService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &NotifyService{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *NotifyService) DocumentSaved(ctx context.Context, doc model.Document) error {
	subject, body := documentSavedTemplate(doc, s.appURL, s.appName)
	return s.send(ctx, "document_saved", subject, body)
}

func (s *NotifyService) UploadStored(ctx context.Context, upload *model.Upload) error {
	subject, body := uploadStoredTemplate(upload, s.appURL, s.appName)
	return s.send(ctx, "upload_stored", subject, body)
}

func (s *NotifyService) send(ctx context.Context, kind, subject, body string) error {
	if s.toEmail == "" {
		slog.Debug("notification skipped, no owner email", "type", kind)
		return nil
	}

	if s.isDev {
		slog.Info("notification sent (dev mode)", "type", kind, "to", s.toEmail, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("notifications not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.toEmail},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("notification sent", "type", kind, "to", s.toEmail)
	}
	return err
}
