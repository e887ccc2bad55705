// Package httpsource fetches pages of items from an HTTP JSON endpoint.
package httpsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/infra/auth"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Source is a thin HTTP wrapper implementing app.PageFetcher.
// It handles query construction and bearer token injection.
type Source struct {
	baseURL       string
	pageParam     string
	limitParam    string
	tokenProvider auth.TokenProvider
	http          *http.Client
	log           zerolog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.http = c }
}

// WithParams sets the offset and limit query parameter names.
func WithParams(page, limit string) Option {
	return func(s *Source) {
		s.pageParam = page
		s.limitParam = limit
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) { s.log = l }
}

var _ app.PageFetcher = (*Source)(nil)

// New creates a source for baseURL. A nil token provider sends no token.
func New(baseURL string, tp auth.TokenProvider, opts ...Option) *Source {
	if tp == nil {
		tp = auth.None{}
	}
	s := &Source{
		baseURL:       baseURL,
		pageParam:     "page",
		limitParam:    "limit",
		tokenProvider: tp,
		http:          &http.Client{},
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPage performs GET baseURL?page=<offset>&limit=<limit>. Extra query
// parameters can be passed as req.Context (url.Values or map[string]string).
//
// A JSON array decodes to items. Any other JSON value (object, null, ...)
// is a non-sequence result and yields nil, nil.
func (s *Source) FetchPage(ctx context.Context, req app.PageRequest) ([]domain.Item, error) {
	u, err := s.pageURL(req)
	if err != nil {
		return nil, err
	}

	data, err := s.get(ctx, u)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.log.Debug().Str("url", u).Msg("response is not a JSON array; treating as end of list")
		return nil, nil
	}

	var items []domain.Item
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	for i := range items {
		sanitizeItem(&items[i])
	}

	s.log.Debug().
		Int("offset", req.Offset).
		Int("limit", req.Limit).
		Int("count", len(items)).
		Msg("page fetched")
	return items, nil
}

func (s *Source) pageURL(req app.PageRequest) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing source url: %w", err)
	}
	q := u.Query()
	switch extra := req.Context.(type) {
	case url.Values:
		for k, vs := range extra {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
	case map[string]string:
		for k, v := range extra {
			q.Set(k, v)
		}
	}
	q.Set(s.pageParam, strconv.Itoa(req.Offset))
	q.Set(s.limitParam, strconv.Itoa(req.Limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Source) get(ctx context.Context, target string) ([]byte, error) {
	token, err := s.tokenProvider.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %w %d: %s", target, ErrStatus, resp.StatusCode, snippet(data))
	}
	return data, nil
}

// snippet is the start of a response body, cut to 200 cells on a rune
// boundary.
func snippet(data []byte) string {
	return ansi.Truncate(sanitize(string(data)), 200, "…")
}

// sanitizeItem strips terminal escapes from the tag and every string field.
func sanitizeItem(it *domain.Item) {
	it.Component = sanitize(it.Component)
	for k, v := range it.Fields {
		if str, ok := v.(string); ok {
			it.Fields[k] = sanitize(str)
		}
	}
}

// sanitize removes ANSI sequences and control characters other than newline
// and tab, so remote text cannot drive the terminal.
func sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
