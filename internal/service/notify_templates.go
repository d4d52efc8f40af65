package service

import (
	"fmt"

	"github.com/templui/folio/internal/model"
)

func documentSavedTemplate(doc model.Document, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("%s was updated", appName)
	body := fmt.Sprintf(`Your portfolio was just saved.

Name:     %s
Title:    %s
Projects: %d

See it live:
%s

If you didn't make this change, change your EDIT_PIN and JWT_SECRET.

%s`, doc.Profile.Name, doc.Profile.Title, len(doc.Projects), appURL, appName)

	return subject, body
}

func uploadStoredTemplate(upload *model.Upload, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("New file uploaded to %s", appName)
	body := fmt.Sprintf(`A file was uploaded to your portfolio.

File: %s
Type: %s
Size: %d bytes

%s%s

%s`, upload.OriginalName, upload.MimeType, upload.Size, appURL, upload.URL, appName)

	return subject, body
}
