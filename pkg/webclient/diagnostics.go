package webclient

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxTitleSniffBytes = 64 << 10

// htmlPageTitle extracts the <title> of an HTML error page, which proxies and
// gateways often return in place of the API's own body. It returns "" for
// anything that does not look like HTML.
func htmlPageTitle(body []byte) string {
	if len(body) > maxTitleSniffBytes {
		body = body[:maxTitleSniffBytes]
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return ""
	}
	lower := bytes.ToLower(trimmed[:min(len(trimmed), 512)])
	if !bytes.Contains(lower, []byte("<html")) && !bytes.Contains(lower, []byte("<!doctype html")) {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
