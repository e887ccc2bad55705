package httpsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/infra/auth"
)

func TestFetchPage_BuildsQueryAndDecodes(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`[{"id":1,"component":"text","title":"one"},{"component":"fields","n":2}]`))
	}))
	defer srv.Close()

	s := New(srv.URL+"/items?sort=new", auth.Static("tok"), WithParams("p", "n"))
	items, err := s.FetchPage(context.Background(), app.PageRequest{
		Offset:  3,
		Limit:   10,
		Context: map[string]string{"q": "go"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "/items", got.URL.Path)
	assert.Equal(t, "3", got.URL.Query().Get("p"))
	assert.Equal(t, "10", got.URL.Query().Get("n"))
	assert.Equal(t, "new", got.URL.Query().Get("sort"))
	assert.Equal(t, "go", got.URL.Query().Get("q"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))

	require.NotNil(t, items[0].ID)
	assert.EqualValues(t, 1, *items[0].ID)
	assert.Equal(t, "text", items[0].Component)
	assert.Equal(t, "one", items[0].String("title"))
	assert.Nil(t, items[1].ID)
}

func TestFetchPage_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	items, err := New(srv.URL, nil).FetchPage(context.Background(), app.PageRequest{Offset: 1, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, items, "an empty array is still a sequence")
	assert.Empty(t, items)
}

func TestFetchPage_NonArrayIsNotSequence(t *testing.T) {
	for _, body := range []string{`{"items":[]}`, `null`, ``, `"done"`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		items, err := New(srv.URL, nil).FetchPage(context.Background(), app.PageRequest{Offset: 1, Limit: 10})
		srv.Close()

		require.NoError(t, err, body)
		assert.Nil(t, items, body)
	}
}

func TestFetchPage_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).FetchPage(context.Background(), app.PageRequest{Offset: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "503")

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,`))
	}))
	defer bad.Close()
	_, err = New(bad.URL, nil).FetchPage(context.Background(), app.PageRequest{Offset: 1, Limit: 10})
	require.ErrorContains(t, err, "decoding page")
}

func TestFetchPage_TokenError(t *testing.T) {
	tp := auth.NewFileTokenProvider(filepath.Join(t.TempDir(), "missing"))
	_, err := New("http://127.0.0.1:1", tp).FetchPage(context.Background(), app.PageRequest{Offset: 1, Limit: 1})
	require.ErrorContains(t, err, "auth")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetchPage_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL, nil).FetchPage(ctx, app.PageRequest{Offset: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPageURL_ValuesContext(t *testing.T) {
	s := New("https://example.com/api", nil)
	raw, err := s.pageURL(app.PageRequest{Offset: 2, Limit: 5, Context: url.Values{"tag": {"a", "b"}}})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, u.Query()["tag"])
	assert.Equal(t, "2", u.Query().Get("page"))
	assert.Equal(t, "5", u.Query().Get("limit"))
}

func TestSanitize(t *testing.T) {
	in := "ok\x1b[31mred\x1b[0m\x01\x02\nnext\tcol"
	assert.Equal(t, "okred\nnext\tcol", sanitize(in))
}

func TestSnippet_CutsOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", 199) + strings.Repeat("é", 50)
	got := snippet([]byte(body))
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, ansi.StringWidth(got), 200)

	assert.Equal(t, "short", snippet([]byte("short")))
}
