package platform

import (
	"errors"
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"
)

// URL parameters
const (
	PlaylistURLParam = "list"
	VideoURLParam    = "v"
)

// Query parameters that only make sense inside a playlist context
var playlistOnlyParams = []string{PlaylistURLParam, "index", "start_radio", "pp"}

var (
	// ErrEmptyURL is returned for blank input
	ErrEmptyURL = errors.New("url is empty")
	// ErrInvalidURL is returned for anything that is not an absolute http(s) URL
	ErrInvalidURL = errors.New("not a valid URL")
)

// ValidateURL checks that raw is an absolute http or https URL
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	if !govalidator.IsURL(raw) {
		return ErrInvalidURL
	}
	return nil
}

// CleanURL strips whitespace and control characters pasted along with a URL
func CleanURL(raw string) string {
	clean := strings.ReplaceAll(raw, "\n", "")
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\t", " ")
	return strings.TrimSpace(clean)
}

// IsPlaylistURL reports whether the URL carries a playlist parameter
func IsPlaylistURL(raw string) bool {
	return ExtractPlaylistID(raw) != ""
}

// ExtractPlaylistID extracts the playlist ID from a URL, "" if there is none
func ExtractPlaylistID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistURLParam)
}

// StripPlaylistParams removes playlist context from a single-video URL so only
// the target video is considered. URLs that point at a playlist page only
// (no video id) are returned unchanged.
func StripPlaylistParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	query := u.Query()
	if query.Get(VideoURLParam) == "" && u.Host != "youtu.be" {
		return raw
	}

	changed := false
	for _, param := range playlistOnlyParams {
		if query.Has(param) {
			query.Del(param)
			changed = true
		}
	}
	if !changed {
		return raw
	}

	u.RawQuery = query.Encode()
	return u.String()
}
