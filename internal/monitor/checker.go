package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/aleister1102/ticketwatch/internal/console"
	"github.com/aleister1102/ticketwatch/internal/httpclient"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// PageSnapshot is the decoded result of one successful fetch.
type PageSnapshot struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
	Title       string
	FetchedAt   time.Time
}

// HTTPPageChecker polls the target URL and applies the keyword rule.
type HTTPPageChecker struct {
	client   *httpclient.HTTPClient
	target   config.TargetConfig
	keywords []string
	console  *console.Console
	logger   zerolog.Logger
}

// NewHTTPPageChecker creates a checker for target. Keywords are normalized once here.
func NewHTTPPageChecker(client *httpclient.HTTPClient, target config.TargetConfig, cons *console.Console, logger zerolog.Logger) *HTTPPageChecker {
	if cons == nil {
		cons = console.Discard()
	}
	return &HTTPPageChecker{
		client:   client,
		target:   target,
		keywords: target.NormalizedKeywords(),
		console:  cons,
		logger:   logger.With().Str("component", "PageChecker").Logger(),
	}
}

// Keywords returns the normalized keywords in use.
func (c *HTTPPageChecker) Keywords() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

// Check fetches the page once and reports whether every keyword is present.
func (c *HTTPPageChecker) Check(ctx context.Context) (bool, error) {
	c.console.Checking(c.target.SiteName)

	snap, err := c.Inspect(ctx)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("url", c.target.URL).
			AnErr("root_cause", common.GetRootCause(err)).
			Msg("Page check failed")

		var fetchErr *FetchError
		if errors.As(err, &fetchErr) && fetchErr.Kind == FetchErrorStatus {
			c.console.NoMatch()
		} else {
			c.console.CheckFailed(err)
		}
		return false, err
	}

	if !ContainsAll(snap.Body, c.keywords) {
		c.logger.Debug().
			Str("url", snap.URL).
			Int("body_size", len(snap.Body)).
			Strs("keywords", c.keywords).
			Msg("Keywords not all present")
		c.console.NoMatch()
		return false, nil
	}

	c.logger.Info().
		Str("url", snap.URL).
		Str("title", snap.Title).
		Strs("keywords", c.keywords).
		Msg("All keywords present on page")
	return true, nil
}

// Inspect performs the GET and decodes the body. Any status other than 200 is a FetchError.
func (c *HTTPPageChecker) Inspect(ctx context.Context) (*PageSnapshot, error) {
	resp, err := c.client.Get(ctx, c.target.URL)
	if err != nil {
		kind := FetchErrorTransport
		if common.IsTimeout(err) {
			kind = FetchErrorTimeout
		}
		return nil, &FetchError{Kind: kind, URL: c.target.URL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Kind:       FetchErrorStatus,
			URL:        c.target.URL,
			StatusCode: resp.StatusCode,
			Err:        common.NewHTTPErrorWithURL(resp.StatusCode, http.StatusText(resp.StatusCode), c.target.URL),
		}
	}

	// A partial body cannot prove a keyword is absent.
	if resp.Truncated {
		return nil, &FetchError{Kind: FetchErrorRead, URL: c.target.URL, StatusCode: resp.StatusCode, Err: ErrBodyTruncated}
	}

	body, err := decodeBody(resp.Body, resp.ContentType())
	if err != nil {
		return nil, &FetchError{Kind: FetchErrorRead, URL: c.target.URL, StatusCode: resp.StatusCode, Err: err}
	}

	snap := &PageSnapshot{
		URL:         c.target.URL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType(),
		Body:        body,
		Title:       pageTitle(body),
		FetchedAt:   time.Now(),
	}
	c.logger.Debug().
		Int("status_code", snap.StatusCode).
		Str("content_type", snap.ContentType).
		Int("body_size", len(snap.Body)).
		Msg("Page fetched")
	return snap, nil
}

// decodeBody converts raw to UTF-8 using the declared or sniffed charset.
func decodeBody(raw []byte, contentType string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", common.WrapError(err, "failed to detect body charset")
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", common.WrapError(err, "failed to decode body")
	}
	return string(decoded), nil
}

// pageTitle returns the trimmed <title>, or "" when absent or unparsable.
func pageTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
