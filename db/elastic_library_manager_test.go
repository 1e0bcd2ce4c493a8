package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"books/models"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeIndex = "books"

// fakeElastic answers the index, document, update and scroll endpoints of a
// single index from memory.
type fakeElastic struct {
	mu       sync.Mutex
	indexed  bool
	docs     map[string]json.RawMessage
	requests []string
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	path := r.URL.Path
	switch {
	case path == "/"+fakeIndex:
		f.serveIndex(w, r)
	case path == "/"+fakeIndex+"/_search":
		f.serveSearch(w)
	case path == "/_search/scroll":
		f.serveScroll(w, r)
	case strings.HasPrefix(path, "/"+fakeIndex+"/_doc/"):
		f.serveDocument(w, r, strings.TrimPrefix(path, "/"+fakeIndex+"/_doc/"))
	case strings.HasPrefix(path, "/"+fakeIndex+"/_update/"):
		f.serveUpdate(w, r, strings.TrimPrefix(path, "/"+fakeIndex+"/_update/"))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"error":{"type":"unsupported"},"status":400}`)
	}
}

func (f *fakeElastic) serveIndex(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		if !f.indexed {
			w.WriteHeader(http.StatusNotFound)
		}
	case http.MethodPut:
		f.indexed = true
		_, _ = fmt.Fprintf(w, `{"acknowledged":true,"shards_acknowledged":true,"index":%q}`, fakeIndex)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// serveSearch answers the first scroll page with every document.
func (f *fakeElastic) serveSearch(w http.ResponseWriter) {
	if !f.indexed {
		writeIndexMissing(w)
		return
	}

	hits := make([]string, 0, len(f.docs))
	for id, doc := range f.docs {
		hits = append(hits, fmt.Sprintf(`{"_index":%q,"_id":%q,"_score":1,"_source":%s}`, fakeIndex, id, doc))
	}
	_, _ = fmt.Fprintf(w, `{"_scroll_id":"books-scroll","took":1,"hits":{"total":{"value":%d,"relation":"eq"},"hits":[%s]}}`,
		len(hits), strings.Join(hits, ","))
}

func (f *fakeElastic) serveScroll(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		_, _ = fmt.Fprint(w, `{"succeeded":true,"num_freed":1}`)
		return
	}
	_, _ = fmt.Fprintf(w, `{"_scroll_id":"books-scroll","took":1,"hits":{"total":{"value":%d,"relation":"eq"},"hits":[]}}`, len(f.docs))
}

func (f *fakeElastic) serveDocument(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPut, http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		f.docs[id] = body
		f.indexed = true
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"_index":%q,"_id":%q,"_version":1,"result":"created"}`, fakeIndex, id)
	case http.MethodGet:
		doc, found := f.docs[id]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, `{"_index":%q,"_id":%q,"found":false}`, fakeIndex, id)
			return
		}
		_, _ = fmt.Fprintf(w, `{"_index":%q,"_id":%q,"_version":1,"found":true,"_source":%s}`, fakeIndex, id, doc)
	case http.MethodDelete:
		if _, found := f.docs[id]; !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, `{"_index":%q,"_id":%q,"_version":1,"result":"not_found"}`, fakeIndex, id)
			return
		}
		delete(f.docs, id)
		_, _ = fmt.Fprintf(w, `{"_index":%q,"_id":%q,"_version":2,"result":"deleted"}`, fakeIndex, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// serveUpdate merges the partial "doc" of the request onto the stored source.
func (f *fakeElastic) serveUpdate(w http.ResponseWriter, r *http.Request, id string) {
	stored, found := f.docs[id]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, `{"error":{"type":"document_missing_exception","reason":"[%s]: document missing"},"status":404}`, id)
		return
	}

	var request struct {
		Doc map[string]json.RawMessage `json:"doc"`
	}
	source := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || json.Unmarshal(stored, &source) != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"error":{"type":"parse_exception"},"status":400}`)
		return
	}
	for field, value := range request.Doc {
		source[field] = value
	}

	merged, _ := json.Marshal(source)
	f.docs[id] = merged
	_, _ = fmt.Fprintf(w, `{"_index":%q,"_id":%q,"_version":2,"result":"updated"}`, fakeIndex, id)
}

func writeIndexMissing(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprintf(w, `{"error":{"type":"index_not_found_exception","index":%q},"status":404}`, fakeIndex)
}

func (f *fakeElastic) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newElasticLibrary(t *testing.T) (*ElasticLibraryManager, *fakeElastic) {
	t.Helper()

	fake := &fakeElastic{docs: map[string]json.RawMessage{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := elastic.NewClient(
		elastic.SetURL(server.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	require.NoError(t, err)

	library := CreateElasticLibrary(fakeIndex, client)
	library.now = tickingClock()
	return library, fake
}

func Test_ElasticLibrary_Migrate_CreatesMissingIndexOnce(t *testing.T) {
	// setup
	library, fake := newElasticLibrary(t)
	ctx := context.Background()

	// act
	require.NoError(t, library.Migrate(ctx))
	require.NoError(t, library.Migrate(ctx))

	// assert
	assert.Equal(t, []string{
		"HEAD /books",
		"PUT /books",
		"HEAD /books",
	}, fake.requestLog())
	assert.NoError(t, library.Ping(ctx))
}

func Test_ElasticLibrary_FindAll_MissingIndex(t *testing.T) {
	library, _ := newElasticLibrary(t)

	books, err := library.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func Test_ElasticLibrary_FindAll_ClearsScroll(t *testing.T) {
	library, fake := newElasticLibrary(t)
	ctx := context.Background()
	require.Equal(t, models.OutcomeOk, library.Create(ctx, models.NewBookFields("Dune", "Herbert", "", "")).Outcome)

	books, err := library.FindAll(ctx)

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Contains(t, fake.requestLog(), "DELETE /_search/scroll")
}

func Test_ElasticLibrary_Create_ValidationFailure_SendsNothing(t *testing.T) {
	library, fake := newElasticLibrary(t)

	result := library.Create(context.Background(), models.NewBookFields("", "Herbert", "", ""))

	assert.Equal(t, models.OutcomeValidationFailed, result.Outcome)
	assert.Empty(t, fake.requestLog())
}
