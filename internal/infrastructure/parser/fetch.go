package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// maxPageBytes bounds how much of a single page is read.
const maxPageBytes = 8 << 20

// fetchPage GETs pageURL and returns the body decoded to UTF-8. Non-2xx
// responses are errors.
func fetchPage(ctx context.Context, client *http.Client, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return raw, nil
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return raw, nil
	}
	return decoded, nil
}

// joinText concatenates the text nodes under sel with single spaces and
// collapses whitespace runs. noscript content is raw markup and is skipped.
func joinText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return collapseSpaces(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Noscript {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
