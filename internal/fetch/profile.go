package fetch

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform identifies a site with profile-specific selectors.
type Platform string

const (
	// PlatformLinkedIn is linkedin.com and its regional subdomains.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformUnknown is any other site.
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the profile platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com") {
		return PlatformLinkedIn
	}
	return PlatformUnknown
}

// ProfileContentSelectors returns the selectors that hold profile content,
// most specific first.
func ProfileContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{
			"main.profile",
			".core-rail",
			"[data-section='summary']",
			"section.profile",
			"main",
		}
	default:
		return DefaultTextSelectors()
	}
}

// ProfileNoiseSelectors returns elements to drop before extraction.
func ProfileNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".cookie-consent",
		".gdpr-notice",
		".social-share",
		".share-buttons",
	}
	switch platform {
	case PlatformLinkedIn:
		return append(common,
			".right-rail",
			".aside-section-container",
			".join-form",
			".contextual-sign-in-modal",
			".similar-profiles",
			".browsemap",
			"[data-test-id='people-also-viewed']",
		)
	default:
		return common
	}
}

// ExtractJSONLD returns the first JSON-LD object on the page whose @type is
// typeName, re-encoded compactly. Objects nested in an @graph are searched
// too. Returns "" when none matches.
func ExtractJSONLD(html, typeName string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		if obj := findTyped(payload, typeName); obj != nil {
			if b, err := json.Marshal(obj); err == nil {
				found = string(b)
				return false
			}
		}
		return true
	})
	return found
}

func findTyped(v any, typeName string) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		if hasType(val["@type"], typeName) {
			return val
		}
		if graph, ok := val["@graph"]; ok {
			return findTyped(graph, typeName)
		}
	case []any:
		for _, item := range val {
			if obj := findTyped(item, typeName); obj != nil {
				return obj
			}
		}
	}
	return nil
}

func hasType(v any, typeName string) bool {
	switch t := v.(type) {
	case string:
		return t == typeName
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == typeName {
				return true
			}
		}
	}
	return false
}
