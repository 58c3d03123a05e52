// Package jobfetch imports a job description from a job board page.
package jobfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resumeforge/internal/errors"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; resumeforge/1.0)"
	DefaultMaxBytes  = 2 << 20
	DefaultMaxChars  = 20000
)

// Page is the job posting extracted from a URL
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// Options configures a Fetcher. Zero values use the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	MaxChars  int
	Client    *http.Client
}

// Fetcher downloads job pages and reduces them to markdown
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	maxChars  int
	logger    *errors.Logger
}

// New creates a Fetcher
func New(opts Options, logger *errors.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Fetcher{
		client:    client,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		maxChars:  opts.MaxChars,
		logger:    logger,
	}
}

// noiseSelectors are removed before the content is located
var noiseSelectors = strings.Join([]string{
	"script", "style", "noscript", "iframe", "svg", "form",
	"header", "footer", "nav", "aside",
	".ad", ".ads", ".advertisement", ".sidebar", ".cookie-banner", ".popup",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}, ", ")

// contentSelectors locate the posting body, most specific first
var contentSelectors = []string{
	".job-description",
	"#job-description",
	".job-content",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// Fetch downloads rawURL and extracts the posting
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"URL must be an absolute http or https URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeFetchFailed, "failed to create request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeFetchFailed, "HTTP request failed", err).
			WithContext("url", u.String())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(errors.ErrCodeFetchFailed,
			fmt.Sprintf("HTTP status %d", resp.StatusCode), nil).
			WithContext("url", u.String())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeFetchFailed, "failed to read response body", err)
	}

	page, err := f.Extract(string(body))
	if err != nil {
		return nil, err
	}
	page.URL = u.String()
	if page.Company == "" {
		page.Company = strings.TrimPrefix(u.Hostname(), "www.")
	}

	if f.logger != nil {
		f.logger.Info("Imported job page",
			"url", page.URL,
			"title", page.Title,
			"description_length", len(page.Description))
	}
	return page, nil
}

// Extract reads the title, company and description out of a job page
func (f *Fetcher) Extract(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat, "failed to parse HTML", err)
	}

	page := &Page{
		Title:   pageTitle(doc),
		Company: metaContent(doc, "og:site_name"),
	}

	doc.Find(noiseSelectors).Remove()

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			main = s.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	inner, err := goquery.OuterHtml(main)
	if err == nil {
		page.Description, err = htmltomarkdown.ConvertString(inner)
	}
	if err != nil || strings.TrimSpace(page.Description) == "" {
		page.Description = main.Text()
	}
	page.Description = truncate(cleanLines(page.Description), f.maxChars)

	if page.Description == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat, "page has no readable content", nil)
	}
	return page, nil
}

func pageTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "og:title"); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, property string) string {
	v, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return strings.TrimSpace(v)
}

// cleanLines trims every line and collapses runs of blank lines
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
