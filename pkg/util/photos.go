package util

import (
	"fmt"
	"strings"
)

const (
	// NoPhotosSentinel marks a store that was checked and has no photos.
	NoPhotosSentinel = "__none"
	MaxStorePhotos   = 10
	placesMediaURL   = "https://places.googleapis.com/v1/%s/media?maxWidthPx=1200&key=%s"
)

// PlacesPhotoURL builds the media URL for a Google Places photo resource name.
// Absolute URLs (uploaded photos) are returned unchanged.
func PlacesPhotoURL(name, apiKey string) string {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return fmt.Sprintf(placesMediaURL, name, apiKey)
}

// PhotoURLs converts stored photo references into at most MaxStorePhotos URLs.
func PhotoURLs(refs []string, apiKey string) []string {
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" || ref == NoPhotosSentinel {
			continue
		}
		urls = append(urls, PlacesPhotoURL(ref, apiKey))
		if len(urls) == MaxStorePhotos {
			break
		}
	}
	return urls
}
