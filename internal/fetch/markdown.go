package fetch

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// ToMarkdown converts the main content of a page to markdown. Headings and
// lists survive the conversion, which keeps profile sections apart.
func ToMarkdown(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	fragment, err := goquery.OuterHtml(mainSelection(doc, contentSelectors, noiseSelectors))
	if err != nil {
		return "", fmt.Errorf("failed to serialize content: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
