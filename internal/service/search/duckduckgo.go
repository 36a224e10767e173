package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"blogsmith/internal/domain/models/llm"
)

const (
	// DefaultDuckDuckGoURL is the HTML lite endpoint, which is stable to scrape
	DefaultDuckDuckGoURL = "https://lite.duckduckgo.com/lite/"
	// DefaultDuckDuckGoTimeout is the default HTTP timeout for DuckDuckGo requests
	DefaultDuckDuckGoTimeout = 15 * time.Second

	duckDuckGoUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DuckDuckGoProvider implements Provider by scraping DuckDuckGo lite.
// Requests are limited to one per second per provider.
type DuckDuckGoProvider struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	converter  *md.Converter
}

// NewDuckDuckGoProvider creates a DuckDuckGo provider with default settings.
func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return NewDuckDuckGoProviderWithConfig(
		DefaultDuckDuckGoURL,
		&http.Client{Timeout: DefaultDuckDuckGoTimeout},
		rate.NewLimiter(rate.Every(time.Second), 1),
	)
}

// NewDuckDuckGoProviderWithConfig creates a DuckDuckGo provider with a custom endpoint, client and limiter.
func NewDuckDuckGoProviderWithConfig(endpoint string, client *http.Client, limiter *rate.Limiter) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		endpoint:   endpoint,
		httpClient: client,
		limiter:    limiter,
		converter:  md.NewConverter("", true, nil),
	}
}

// Name implements Provider
func (d *DuckDuckGoProvider) Name() string {
	return "duckduckgo"
}

// Search implements Provider.
func (d *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]llm.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", duckDuckGoUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return d.parseResults(doc, maxResults), nil
}

// parseResults reads the lite results table. Each hit is a row holding an
// a.result-link, followed by a row holding td.result-snippet.
func (d *DuckDuckGoProvider) parseResults(doc *goquery.Document, maxResults int) []llm.SearchResult {
	results := []llm.SearchResult{}

	doc.Find("a.result-link").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		href = resolveRedirect(strings.TrimSpace(href))
		if title == "" || href == "" {
			return true
		}

		snippet := ""
		if cell := link.Closest("tr").Next().Find("td.result-snippet"); cell.Length() > 0 {
			snippet = d.snippetText(cell)
		}

		results = append(results, llm.SearchResult{
			Title:   title,
			Snippet: snippet,
			Link:    href,
		})
		return maxResults <= 0 || len(results) < maxResults
	})

	return results
}

// snippetText converts the snippet cell to markdown so highlighted terms survive as **bold**
func (d *DuckDuckGoProvider) snippetText(cell *goquery.Selection) string {
	html, err := cell.Html()
	if err != nil {
		return strings.TrimSpace(cell.Text())
	}
	text, err := d.converter.ConvertString(html)
	if err != nil {
		return strings.TrimSpace(cell.Text())
	}
	return strings.TrimSpace(text)
}

// resolveRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links
func resolveRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
