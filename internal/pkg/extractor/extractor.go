package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"metafetcher/internal/pkg/types"
)

// Extract parses HTML content and pulls out link-preview metadata.
// Per field, an Open Graph tag wins over the standard HTML tag regardless of
// document order, and only the first tag of each kind is consulted.
// Extraction is best-effort: malformed markup never fails, it just yields
// absent fields.
func Extract(htmlContent string) types.Metadata {
	var meta types.Metadata

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return meta
	}

	meta.Title = extractTitle(doc)
	meta.Description = extractDescription(doc)
	meta.Image = extractImage(doc)

	return meta
}

// Takes og:title's content attribute, falling back to the text of the
// document's <title> tag.
func extractTitle(doc *goquery.Document) *string {
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return &content
	}
	if title := doc.Find("title").First(); title.Length() > 0 {
		text := title.Text()
		return &text
	}
	return nil
}

// Takes og:description's content attribute, falling back to the content
// attribute of <meta name="description">.
func extractDescription(doc *goquery.Document) *string {
	if content, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		return &content
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return &content
	}
	return nil
}

// Takes og:image's content attribute. There is no standard HTML fallback
// for the preview image.
func extractImage(doc *goquery.Document) *string {
	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		return &content
	}
	return nil
}
