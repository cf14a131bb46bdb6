package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomokiyo/pjsbookshelf/pkg/glossary"
)

func newTestGlossary(t *testing.T) *glossary.Registry {
	t.Helper()
	dir := t.TempDir()
	authors := filepath.Join(dir, "authors-ja")
	require.NoError(t, os.MkdirAll(authors, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(authors, "manifest.yaml"), []byte(`id: authors-ja
version: "1.0"
entity_type: author
source: test
format:
  has_header: true
  key_column: "name"
metadata_columns:
  - name: reading
    column: "yomi"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(authors, "data.csv"), []byte("name,yomi\n長新太,チョウ シンタ\n"), 0o644))

	reg := glossary.NewRegistry(dir)
	require.NoError(t, reg.Load())
	return reg
}

func newTestEndpoints(t *testing.T) *Endpoints {
	t.Helper()
	return NewEndpoints(Deps{Glossary: newTestGlossary(t), MaxBatch: 2})
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e, err := New(newTestEndpoints(t))
	require.NoError(t, err)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	out := map[string]any{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr.Code, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestNormalize(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodPost, "/v1/normalize", `{"text":"ｶﾞｯｺｳ　ＡＢＣ"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ガッコウ ABC", body["normalized"])
	assert.Equal(t, "canonical", body["mode"])

	code, body = do(t, e, http.MethodPost, "/v1/normalize", `{"text":"ぐりとぐら","mode":"katakana"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "グリトグラ", body["normalized"])

	code, body = do(t, e, http.MethodPost, "/v1/normalize", `{"text":"x","lang":"ja"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "unknown_parameter", errorCode(body))

	code, body = do(t, e, http.MethodPost, "/v1/normalize", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "empty_request_body", errorCode(body))
}

func TestNormalizeBatch(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodPost, "/v1/normalize/batch", `{"texts":["ａ"," b "]}`)
	require.Equal(t, http.StatusOK, code)
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].(map[string]any)["normalized"])
	assert.Equal(t, "b", results[1].(map[string]any)["normalized"])

	code, body = do(t, e, http.MethodPost, "/v1/normalize/batch", `{"texts":["a","b","c"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "too_many_items", errorCode(body))

	code, body = do(t, e, http.MethodPost, "/v1/normalize/batch", `{"texts":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(body))
}

func TestClassify(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodGet, "/v1/classify/"+url.PathEscape("長新太")+"?types=author", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "japanese", body["script"])
	matches := body["matches"].([]any)
	require.Len(t, matches, 1)
	assert.Equal(t, "authors-ja", matches[0].(map[string]any)["dict_id"])

	code, body = do(t, e, http.MethodGet, "/v1/classify/"+url.PathEscape("長新太")+"?types=series", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["matches"])

	code, body = do(t, e, http.MethodGet, "/v1/classify/4834010759", "")
	require.Equal(t, http.StatusOK, code)
	id := body["identifier"].(map[string]any)
	assert.Equal(t, "isbn10", id["kind"])
}

func TestKana(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodPost, "/v1/kana", `{"text":"ヴァイオリン","to":"hiragana"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "う゛ぁいおりん", body["converted"])

	code, body = do(t, e, http.MethodPost, "/v1/kana", `{"text":"ぐりとぐら"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "グリトグラ", body["converted"])

	code, body = do(t, e, http.MethodPost, "/v1/kana", `{"text":"a","to":"romaji"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(body))
}

func TestISBN(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodGet, "/v1/isbn/4834010759", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "isbn10", body["kind"])
	assert.Equal(t, "9784834010756", body["isbn13"])

	code, body = do(t, e, http.MethodGet, "/v1/isbn/978-4-8340-1477-8", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "9784834014778", body["isbn"])

	code, body = do(t, e, http.MethodGet, "/v1/isbn/9784834014779", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["valid"])
	assert.NotContains(t, body, "isbn13")
}

func TestBookIDs(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodGet, "/v1/book-ids/a1-2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A001-02", body["canonical"])

	code, body = do(t, e, http.MethodGet, "/v1/book-ids/zz", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "invalid_identifier", errorCode(body))

	code, body = do(t, e, http.MethodPost, "/v1/book-ids/range", `{"first":"B998","count":3}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"B998", "B999", "B1000"}, body["ids"])

	code, body = do(t, e, http.MethodPost, "/v1/book-ids/range", `{"first":"B998","count":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(body))

	code, body = do(t, e, http.MethodPost, "/v1/book-ids/range", `{"first":"shelf","count":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(body))

	code, body = do(t, e, http.MethodPost, "/v1/book-ids/range", `{"first":"B99999","count":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "invalid_identifier", errorCode(body))

	code, body = do(t, e, http.MethodPost, "/v1/book-ids/parse", `{"text":"a1\n\nnope\nｂ２－３"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"A001", "B002-03"}, body["ids"])
	rejected := body["rejected"].([]any)
	require.Len(t, rejected, 1)
	assert.Equal(t, float64(3), rejected[0].(map[string]any)["line"])
}

func TestQuery(t *testing.T) {
	e := newTestServer(t)

	q := url.Values{"q": {"author:夏目 こころ"}}
	code, body := do(t, e, http.MethodGet, "/v1/query?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "books", body["target"])
	assert.Equal(t, "authors LIKE ? AND kana_title LIKE ?", body["where"])
	assert.Equal(t, []any{"%夏目%", "%ココロ%"}, body["args"])
	preds := body["predicates"].([]any)
	require.Len(t, preds, 2)
	assert.Equal(t, "authors", preds[0].(map[string]any)["field"])
	assert.Equal(t, "contains", preds[0].(map[string]any)["match"])

	q = url.Values{"q": {"０１２３"}, "target": {"members"}}
	code, body = do(t, e, http.MethodGet, "/v1/query?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "id = ?", body["where"])
	assert.Equal(t, []any{float64(123)}, body["args"])

	code, body = do(t, e, http.MethodGet, "/v1/query?q=", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "", body["where"])
	assert.Empty(t, body["predicates"])

	code, body = do(t, e, http.MethodGet, "/v1/query?q=a&target=shelves", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(body))

	q = url.Values{"q": {strings.Repeat("あ", DefaultMaxQueryLength+1)}}
	code, body = do(t, e, http.MethodGet, "/v1/query?"+q.Encode(), "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(body))
}

func TestReading_Disabled(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodGet, "/v1/reading?text="+url.QueryEscape("東京"), "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", errorCode(body))
}

func TestGlossaries(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodGet, "/v1/glossaries", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total_entries"])
	list := body["glossaries"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "authors-ja", list[0].(map[string]any)["id"])

	code, body = do(t, e, http.MethodGet, "/v1/glossaries/authors-ja", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "author", body["entity_type"])
	assert.Equal(t, float64(1), body["entries"])

	code, body = do(t, e, http.MethodGet, "/v1/glossaries/publishers-ja", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", errorCode(body))
	assert.Equal(t, "Glossary not found.", body["error"].(map[string]any)["message"])
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestNotFound(t *testing.T) {
	e := newTestServer(t)

	code, body := do(t, e, http.MethodGet, "/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", errorCode(body))
}
