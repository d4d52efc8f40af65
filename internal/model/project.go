package model

import "strings"

// TechList splits the comma separated tech field, dropping blanks.
func (p Project) TechList() []string {
	return splitTrim(p.Tech, ",")
}

// FeatureList splits the newline separated key features field, dropping blanks.
func (p Project) FeatureList() []string {
	return splitTrim(p.KeyFeatures, "\n")
}

// HasVideo reports whether the video replaces the image in display.
func (p Project) HasVideo() bool {
	return strings.TrimSpace(p.VideoURL) != ""
}

func (p Profile) SkillList() []string {
	return splitTrim(p.Skills, ",")
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
