package service

import (
	"encoding/xml"
	"os"
	"strings"
	"time"

	"github.com/templui/folio/internal/model"
)

type SitemapService struct {
	documentPath string
	baseURL      string
}

// NewSitemapService creates a new sitemap service
func NewSitemapService(documentPath, baseURL string) *SitemapService {
	return &SitemapService{
		documentPath: documentPath,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateSitemap lists the portfolio page, dated by the last document save.
func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	home := model.SitemapURL{
		Loc:        s.baseURL + "/",
		ChangeFreq: "weekly",
		Priority:   "1.0",
	}
	if info, err := os.Stat(s.documentPath); err == nil {
		home.LastMod = info.ModTime().UTC().Format(time.DateOnly)
	}

	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []model.SitemapURL{home},
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

// Robots returns robots.txt pointing crawlers at the sitemap. The editing API stays unindexed.
func (s *SitemapService) Robots() []byte {
	return []byte("User-agent: *\nAllow: /\nDisallow: /api/\nSitemap: " + s.baseURL + "/sitemap.xml\n")
}
