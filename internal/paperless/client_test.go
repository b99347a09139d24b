package paperless

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Token = "test-token"
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestCorrespondentsFollowsPagination(t *testing.T) {
	var gotAuth, gotAccept []string

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		gotAccept = append(gotAccept, r.Header.Get("Accept"))

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "" {
			fmt.Fprintf(w, `{"count": 3, "next": %q, "results": [
				{"id": 1, "name": "John Doe", "document_count": 5},
				{"id": 2, "name": "Jane Smith", "document_count": 2}
			]}`, srv.URL+"/api/correspondents/?page=2")
		} else {
			fmt.Fprint(w, `{"count": 3, "next": null, "results": [
				{"id": 3, "name": "Acme Corp", "document_count": 9}
			]}`)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv)
	corrs, err := c.Correspondents(context.Background())
	require.NoError(t, err)

	require.Len(t, corrs, 3, "both pages concatenated in order")
	assert.Equal(t, []int{1, 2, 3}, []int{corrs[0].ID, corrs[1].ID, corrs[2].ID})
	assert.Equal(t, "Acme Corp", corrs[2].Name)

	require.Len(t, gotAuth, 2)
	for i := range gotAuth {
		assert.Equal(t, "Token test-token", gotAuth[i], "request %d auth header", i)
		assert.Equal(t, "application/json; version=9", gotAccept[i], "request %d accept header", i)
	}
}

func TestBulkSetCorrespondentPayload(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/documents/bulk_edit/", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `"OK"`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.BulkSetCorrespondent(context.Background(), []int{101, 102, 103}, 7, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "set_correspondent", gotBody["method"])
	assert.Equal(t, []any{float64(101), float64(102), float64(103)}, gotBody["documents"])
	params, ok := gotBody["parameters"].(map[string]any)
	require.True(t, ok, "parameters must be an object")
	assert.Equal(t, float64(7), params["correspondent"])
}

func TestDeleteCorrespondentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.DeleteCorrespondent(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "404 should be reported as not-found")
	assert.False(t, IsTimeout(err))
}

func TestBulkSetCorrespondentTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := testClient(t, srv)
	err := c.BulkSetCorrespondent(context.Background(), []int{1}, 7, 30*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "deadline expiry should be reported as timeout, got %v", err)
}

func TestCorrespondentDocumentsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/documents/", r.URL.Path)
		require.Equal(t, "42", r.URL.Query().Get("correspondent__id__in"))
		fmt.Fprint(w, `{"count": 2, "next": null, "results": [
			{"id": 10, "title": "Invoice", "correspondent": 42},
			{"id": 11, "title": "Letter", "correspondent": 42}
		]}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	docs, err := c.CorrespondentDocuments(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []int{10, 11}, DocumentIDs(docs))
	require.NotNil(t, docs[0].Correspondent)
	assert.Equal(t, 42, *docs[0].Correspondent)
}

func TestDocumentsCreatedBetweenHonorsLimit(t *testing.T) {
	calls := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "2026-08-18", r.URL.Query().Get("created__date__gte"))
		// Every page claims another page exists; the limit must stop
		// the walk.
		results := make([]string, 60)
		for i := range results {
			results[i] = fmt.Sprintf(`{"id": %d}`, calls*1000+i)
		}
		fmt.Fprintf(w, `{"count": 1000, "next": %q, "results": [%s]}`,
			srv.URL+"/api/documents/?created__date__gte=2026-08-18&page=2",
			joinJSON(results))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	docs, err := c.DocumentsCreatedBetween(context.Background(), "2026-08-18", "", 100)
	require.NoError(t, err)
	assert.Len(t, docs, 100)
	assert.Equal(t, 2, calls, "fetching should stop once the limit is reached")
}

func joinJSON(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

func TestNewClientValidation(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewClient(cfg)
	require.Error(t, err, "missing URL and token must be rejected")

	cfg.BaseURL = "ftp://example.com"
	cfg.Token = "t"
	_, err = NewClient(cfg)
	require.Error(t, err, "non-http scheme must be rejected")
}
