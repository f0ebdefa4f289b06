// Package embed turns raw lesson video and document links into URLs that can be
// rendered in an iframe, opened in a new tab, or downloaded.
package embed

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind is the hosting provider of a lesson link.
type Kind string

const (
	KindYouTube Kind = "youtube"
	KindDrive   Kind = "drive"
	KindGeneric Kind = "generic"
)

// Target is a resolved, render-safe representation of a raw link.
type Target struct {
	Kind         Kind   `json:"kind"`
	EmbedURL     string `json:"embed_url"`
	ViewURL      string `json:"view_url"`
	DownloadURL  string `json:"download_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	// Degraded is set when the link looks like a YouTube or Drive link but no id
	// could be extracted from it, so it is rendered as a generic link.
	Degraded bool `json:"degraded,omitempty"`
}

// HasDownload reports whether the target offers a direct download link.
func (t Target) HasDownload() bool {
	return t.DownloadURL != ""
}

// Classify detects the provider of a link from its text alone.
func Classify(rawURL string) Kind {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return KindYouTube
	case strings.Contains(lower, "drive.google.com"):
		return KindDrive
	default:
		return KindGeneric
	}
}

// Resolve maps a raw link to its embed target. ok is false only when rawURL is
// blank. Resolve never fails: links whose id cannot be extracted fall back to
// a generic target.
func Resolve(rawURL string) (target Target, ok bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Target{}, false
	}

	switch Classify(rawURL) {
	case KindYouTube:
		if id := youTubeID(rawURL); id != "" {
			return youTubeTarget(id), true
		}
		return degraded(rawURL), true
	case KindDrive:
		if id := driveFileID(rawURL); id != "" {
			return driveTarget(id), true
		}
		return degraded(rawURL), true
	default:
		return genericTarget(rawURL), true
	}
}

func youTubeTarget(id string) Target {
	return Target{
		Kind:         KindYouTube,
		EmbedURL:     fmt.Sprintf("https://www.youtube.com/embed/%s?rel=0&modestbranding=1", id),
		ViewURL:      fmt.Sprintf("https://youtu.be/%s", id),
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id),
	}
}

func driveTarget(id string) Target {
	return Target{
		Kind:        KindDrive,
		EmbedURL:    fmt.Sprintf("https://drive.google.com/file/d/%s/preview", id),
		ViewURL:     fmt.Sprintf("https://drive.google.com/file/d/%s/view", id),
		DownloadURL: fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", id),
	}
}

func genericTarget(rawURL string) Target {
	return Target{
		Kind:     KindGeneric,
		EmbedURL: rawURL,
		ViewURL:  rawURL,
	}
}

func degraded(rawURL string) Target {
	t := genericTarget(rawURL)
	t.Degraded = true
	return t
}

// youTubeID supports watch?v=ID, youtu.be/ID, /embed/ID and /shorts/ID.
// Markers match in any case; the id keeps its own.
func youTubeID(rawURL string) string {
	if rest, found := cutFold(rawURL, "youtu.be/"); found {
		return cleanID(rest)
	}
	for _, marker := range []string{"/embed/", "/shorts/", "/v/"} {
		if rest, found := cutFold(rawURL, marker); found {
			return cleanID(rest)
		}
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		if v := parsed.Query().Get("v"); v != "" {
			return cleanID(v)
		}
	}
	// url.Parse rejects some hand-typed links, so fall back to plain text.
	for _, marker := range []string{"?v=", "&v="} {
		if rest, found := cutFold(rawURL, marker); found {
			return cleanID(rest)
		}
	}
	return ""
}

// driveFileID supports /file/d/ID/... and ?id=ID.
func driveFileID(rawURL string) string {
	if rest, found := cutFold(rawURL, "/file/d/"); found {
		return cleanID(rest)
	}
	for _, marker := range []string{"?id=", "&id="} {
		if rest, found := cutFold(rawURL, marker); found {
			return cleanID(rest)
		}
	}
	return ""
}

// cutFold returns the text after the first ASCII case-insensitive match of a
// lower-case marker.
func cutFold(s, marker string) (string, bool) {
	i := strings.Index(asciiLower(s), marker)
	if i < 0 {
		return "", false
	}
	return s[i+len(marker):], true
}

// asciiLower keeps byte offsets, unlike strings.ToLower on non-ASCII input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// cleanID cuts an id at the first URL delimiter and rejects anything that is
// not a plain [A-Za-z0-9_-] token.
func cleanID(s string) string {
	if i := strings.IndexAny(s, "/?&#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return ""
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return ""
		}
	}
	return s
}
