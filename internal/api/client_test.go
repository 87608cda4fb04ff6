package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/", tokens)
	require.NoError(t, err)
	return c
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, StaticToken("secret"))

	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "/customers", nil, &out))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/customers", gotPath)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, out["ok"])
}

func TestClientProceedsWithoutToken(t *testing.T) {
	var hadAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}, ChainTokens(StaticToken(""), EnvToken("BIZDASH_TEST_TOKEN_UNSET")))

	require.NoError(t, c.Delete(context.Background(), "/customers/cust1", nil))
	assert.False(t, hadAuth)
}

func TestClientServerErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Email already in use"}`))
	}, nil)

	err := c.Post(context.Background(), "/customers", map[string]string{"name": "x"}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Email already in use", apiErr.Message)
	assert.NotZero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestClientServerErrorFallsBackToGenericMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}, nil)

	err := c.Get(context.Background(), "/customers", nil, nil)
	require.Error(t, err)
	assert.Equal(t, genericMessage, err.Error())
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestClientMessageField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Customer not found"}`))
	}, nil)

	err := c.Get(context.Background(), "/customers/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, "Customer not found", Message(err))
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr, nil)
	require.NoError(t, err)

	err = c.Get(context.Background(), "/customers", nil, nil)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.Zero(t, StatusCode(err))
	assert.Equal(t, genericMessage, apiErr.Message)
	assert.NotNil(t, apiErr.Unwrap())
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient("ftp://example.com", nil)
	require.Error(t, err)
	_, err = NewClient("not a url", nil)
	require.Error(t, err)
}

func TestClientUploadMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/customers/import", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		f, hdr, err := r.FormFile("customers")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "customers.csv", hdr.Filename)
		assert.Equal(t, "name,email\nA,a@example.com\n", string(data))
		_, _ = w.Write([]byte(`{"message":"Imported 1 customer","imported":1,"skipped":0}`))
	}, StaticToken("t"))

	customers := NewCollection[model.Customer, model.CustomerDraft](c, "customers")
	res, err := customers.Import(context.Background(), "customers.csv", strings.NewReader("name,email\nA,a@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "Imported 1 customer", res.Message)
	require.NotNil(t, res.Imported)
	assert.Equal(t, 1, *res.Imported)
	require.NotNil(t, res.Skipped)
	assert.Equal(t, 0, *res.Skipped)
	assert.Empty(t, res.Errors)
}

func TestCollectionRoutes(t *testing.T) {
	type call struct{ method, path, body string }
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.RequestURI(), string(body)})
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":"t1","date":"2025-01-02","project":"Widget","hours":2}]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"id":"t1"}`))
		}
	}, nil)

	entries := NewCollection[model.TimeEntry, model.TimeEntryDraft](c, "time-entries")
	entries.Query = func() url.Values {
		return url.Values{"startDate": {"2025-01-01"}, "endDate": {"2025-01-31"}}
	}
	entries.UpdateMethod = http.MethodPatch

	ctx := context.Background()
	items, err := entries.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Project)

	_, err = entries.Create(ctx, model.TimeEntryDraft{Date: "2025-01-03", Project: "Widget", Hours: 1})
	require.NoError(t, err)
	_, err = entries.Update(ctx, "t 1", model.TimeEntryDraft{Date: "2025-01-03", Project: "Widget", Hours: 3})
	require.NoError(t, err)
	require.NoError(t, entries.Delete(ctx, "t1"))

	require.Len(t, calls, 4)
	assert.Equal(t, call{http.MethodGet, "/api/time-entries?endDate=2025-01-31&startDate=2025-01-01", ""}, calls[0])
	assert.Equal(t, http.MethodPost, calls[1].method)
	assert.Equal(t, "/api/time-entries", calls[1].path)
	var posted map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[1].body), &posted))
	assert.Equal(t, "Widget", posted["project"])
	assert.Equal(t, http.MethodPatch, calls[2].method)
	assert.Equal(t, "/api/time-entries/t%201", calls[2].path)
	assert.Equal(t, call{http.MethodDelete, "/api/time-entries/t1", ""}, calls[3])
}

func TestCollectionListEmptyBodyYieldsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}, nil)

	items, err := NewCollection[model.Customer, model.CustomerDraft](c, "customers").List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestReportsDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports/hmrc/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "2024-04-01", r.URL.Query().Get("startDate"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("\"Project\",\"Hours\"\n"))
	}, nil)

	blob, err := NewReports(c).DownloadHMRC(context.Background(), "2024-04-01", "2025-03-31", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", blob.ContentType)
	assert.Equal(t, "\"Project\",\"Hours\"\n", string(blob.Data))
}

func TestFileTokenAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	_, err := FileToken{Path: path}.Token()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, SaveTokenFile(path, "  abc123 \n"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	tok, err := ChainTokens(StaticToken(""), FileToken{Path: path}).Token()
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
}
