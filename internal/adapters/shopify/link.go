package shopify

import (
	"net/url"
	"strings"
)

// Cursor is the opaque next-page reference extracted from a response's Link
// header. The URL already encodes every filter of the original request, so a
// cursor request must carry no other query parameters.
type Cursor struct {
	url string
}

// URL returns the absolute next-page URL.
func (c Cursor) URL() string {
	return c.url
}

// ParseNextLink extracts the rel="next" cursor from a Link header value.
// The header is a comma-separated list of `<url>; rel="relation"` entries.
// A missing header, a list without a next relation, or an unparseable URL all
// yield nil: there is no next page.
func ParseNextLink(header string) *Cursor {
	if header == "" {
		return nil
	}

	for _, entry := range strings.Split(header, ",") {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, `rel="next"`) {
			continue
		}

		start := strings.Index(entry, "<")
		end := strings.Index(entry, ">")
		if start < 0 || end <= start+1 {
			return nil
		}

		raw := entry[start+1 : end]
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil
		}

		return &Cursor{url: raw}
	}

	return nil
}
