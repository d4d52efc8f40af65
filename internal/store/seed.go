package store

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/model"
)

// LoadDefaults reads the default document from a markdown seed file: the
// frontmatter holds the profile fields and the body becomes the bio.
// A missing or broken seed falls back to model.DefaultDocument.
func LoadDefaults(path string, parser *markdown.Parser) model.Document {
	if path == "" {
		return model.DefaultDocument()
	}

	source, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no default profile seed, using built-in defaults", "path", path)
		return model.DefaultDocument()
	}
	if err != nil {
		slog.Warn("failed to read default profile seed", "error", err, "path", path)
		return model.DefaultDocument()
	}

	var profile model.Profile
	body, err := parser.DecodeFrontmatter(source, &profile)
	if err != nil {
		slog.Warn("failed to parse default profile seed", "error", err, "path", path)
		return model.DefaultDocument()
	}

	if bio := strings.TrimSpace(string(body)); bio != "" && profile.Bio == "" {
		profile.Bio = bio
	}

	slog.Info("default profile loaded from seed", "path", path)
	return model.Document{Profile: profile, Projects: []model.Project{}}
}
