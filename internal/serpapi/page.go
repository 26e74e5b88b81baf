package serpapi

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxPageContent caps the extracted page text so one long page cannot blow
// out the composer's context window.
const maxPageContent = 3000

// PageText fetches a page and extracts its readable text content.
// Extraction failures are soft: the search results alone are still useful,
// so callers get "" instead of an error.
func (c *Client) PageText(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}

	body, err := c.FetchPage(ctx, pageURL)
	if err != nil {
		c.logger.WithError(err).WithField("url", pageURL).Debug("page fetch failed")
		return ""
	}
	defer func() { _ = body.Close() }()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		c.logger.WithError(err).WithField("url", pageURL).Debug("page parse failed")
		return ""
	}

	return extractText(doc)
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, noscript").Remove()

	var parts []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := normalizeWhitespace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})

	content := strings.Join(parts, "\n")
	if len(content) > maxPageContent {
		cut := maxPageContent
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}
	return content
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
