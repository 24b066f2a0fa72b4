package platform

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected error
	}{
		{
			name:     "valid watch URL",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID",
			expected: nil,
		},
		{
			name:     "valid short URL",
			url:      "https://youtu.be/VIDEO_ID",
			expected: nil,
		},
		{
			name:     "surrounding whitespace is ignored",
			url:      "  https://youtu.be/VIDEO_ID ",
			expected: nil,
		},
		{
			name:     "empty URL",
			url:      "",
			expected: ErrEmptyURL,
		},
		{
			name:     "blank URL",
			url:      "   ",
			expected: ErrEmptyURL,
		},
		{
			name:     "unsupported scheme",
			url:      "ftp://example.com/video.mp4",
			expected: ErrInvalidURL,
		},
		{
			name:     "not a URL",
			url:      "definitely not a url",
			expected: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if err != tt.expected {
				t.Errorf("expected %v, got %v for URL: %q", tt.expected, err, tt.url)
			}
		})
	}
}

func TestCleanURL(t *testing.T) {
	got := CleanURL(" https://youtu.be/abc\r\n")
	if got != "https://youtu.be/abc" {
		t.Errorf("expected cleaned URL, got %q", got)
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "valid playlist URL with watch parameter",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID",
			expected: true,
		},
		{
			name:     "valid playlist URL with playlist parameter",
			url:      "https://www.youtube.com/playlist?list=PLAYLIST_ID",
			expected: true,
		},
		{
			name:     "URL without playlist parameter",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID",
			expected: false,
		},
		{
			name:     "empty URL",
			url:      "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPlaylistURL(tt.url)
			if result != tt.expected {
				t.Errorf("expected %v, got %v for URL: %s", tt.expected, result, tt.url)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "extract playlist ID from watch URL",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "extract playlist ID with additional parameters",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=1&t=30",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "extract playlist ID with multiple list parameters",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&list=OTHER_ID",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "URL with empty playlist parameter",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractPlaylistID(tt.url)
			if result != tt.expected {
				t.Errorf("expected %q, got %q for URL: %s", tt.expected, result, tt.url)
			}
		})
	}
}

func TestStripPlaylistParams(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "watch URL inside a playlist",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=3",
			expected: "https://www.youtube.com/watch?v=VIDEO_ID",
		},
		{
			name:     "keeps unrelated parameters",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&t=30&list=PLAYLIST_ID",
			expected: "https://www.youtube.com/watch?t=30&v=VIDEO_ID",
		},
		{
			name:     "short URL with playlist",
			url:      "https://youtu.be/VIDEO_ID?list=PLAYLIST_ID",
			expected: "https://youtu.be/VIDEO_ID",
		},
		{
			name:     "plain watch URL is untouched",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID",
			expected: "https://www.youtube.com/watch?v=VIDEO_ID",
		},
		{
			name:     "playlist page is untouched",
			url:      "https://www.youtube.com/playlist?list=PLAYLIST_ID",
			expected: "https://www.youtube.com/playlist?list=PLAYLIST_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripPlaylistParams(tt.url)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}
