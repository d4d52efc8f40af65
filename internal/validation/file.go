package validation

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// SniffLen is how many leading bytes DetectContentType looks at.
const SniffLen = 512

// DetectContentType determines the MIME type from the file's magic numbers,
// falling back to the extension when the content is not recognized.
func DetectContentType(head []byte, filename string) string {
	detected := http.DetectContentType(head)
	if detected != "application/octet-stream" {
		return detected
	}

	byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if byExt != "" {
		return byExt
	}
	return detected
}

// Extension returns the extension of name including its dot, in its original
// case, or "". Names like "README", ".env" or "archive." have no usable extension,
// and neither does one with characters other than letters and digits.
func Extension(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := filepath.Ext(name)
	if ext == "" || ext == "." || ext == name {
		return ""
	}
	for _, c := range ext[1:] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return ""
		}
	}
	return ext
}
