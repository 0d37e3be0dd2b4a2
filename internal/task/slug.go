package task

import (
	"regexp"
	"strings"
)

const maxSlugLength = 50

// filenameSep separates the ID from the slug. IDs never contain it.
const filenameSep = "_"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug converts a title to a URL-friendly slug.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}

	return slug
}

// GenerateFilename creates a task filename from an ID and slug:
// "<id>_<slug>.md", or "<id>.md" when the slug is empty.
func GenerateFilename(id, slug string) string {
	if slug == "" {
		return id + ".md"
	}
	return id + filenameSep + slug + ".md"
}

// IDFromFilename extracts the task ID from a filename produced by
// GenerateFilename.
func IDFromFilename(name string) string {
	name = strings.TrimSuffix(name, ".md")
	if i := strings.Index(name, filenameSep); i >= 0 {
		return name[:i]
	}
	return name
}
