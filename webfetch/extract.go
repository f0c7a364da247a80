package webfetch

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// maxExtractedRunes bounds the text handed to the prompt builder.
const maxExtractedRunes = 8000

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// ExtractText reduces an HTML page to readable text. Readability
// extraction is tried first; pages it cannot parse (sparse landing
// pages, heavy templating) fall back to a full markdown conversion.
func ExtractText(body []byte, pageURL string) (string, error) {
	parsedURL, _ := url.Parse(pageURL)

	if article, err := readability.FromReader(bytes.NewReader(body), parsedURL); err == nil {
		text := strings.TrimSpace(article.TextContent)
		if text != "" {
			if article.Title != "" {
				text = article.Title + "\n\n" + text
			}
			return truncate(text), nil
		}
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	markdown, err := converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("convert page content: %w", err)
	}

	markdown = cleanMarkdown(markdown)
	if markdown == "" {
		return "", fmt.Errorf("no readable content found")
	}
	if title := extractTitle(body); title != "" {
		markdown = title + "\n\n" + markdown
	}
	return truncate(markdown), nil
}

// extractTitle pulls the <title> element from raw HTML.
func extractTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxExtractedRunes {
		return s
	}
	return string(runes[:maxExtractedRunes]) + "…"
}
