package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	submissionDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
	dashRun              = regexp.MustCompile(`-+`)
	nonAlnumRun          = regexp.MustCompile(`[^a-z0-9]+`)
)

// SubmissionSlug builds the slug for a publicly submitted store: name-city-STATE plus a millisecond suffix.
func SubmissionSlug(name, city, stateAbbr string, now time.Time) string {
	base := strings.ToLower(fmt.Sprintf("%s-%s-%s", name, city, stateAbbr))
	base = submissionDisallowed.ReplaceAllString(base, "")
	base = whitespaceRun.ReplaceAllString(base, "-")
	base = dashRun.ReplaceAllString(base, "-")
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}

// QuickAddSlug builds the slug for an admin quick-add from the store name only.
func QuickAddSlug(name string, now time.Time) string {
	base := nonAlnumRun.ReplaceAllString(strings.ToLower(name), "-")
	base = strings.Trim(base, "-")
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}

// CitySlug turns "Fort Worth" into "fort-worth".
func CitySlug(city string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(city)), "-")
}

// CityFromSlug turns "fort-worth" into "Fort Worth".
func CityFromSlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(words, " ")
}

// StorePath is the canonical public path of a store page.
func StorePath(stateAbbr, city, slug string) string {
	return fmt.Sprintf("/%s/%s/%s", StateSlug(stateAbbr), CitySlug(city), slug)
}
