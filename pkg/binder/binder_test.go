package binder

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomokiyo/pjsbookshelf/pkg/errcodes"
)

type params struct {
	Hello string   `json:"hello" mod:"trim" validate:"max=9"`
	Mode  string   `json:"mode" default:"canonical" validate:"oneof=canonical katakana"`
	Texts []string `json:"texts" validate:"max=2"`
	Omit  string   `json:"-"`
}

type queryParams struct {
	Q      string `query:"q" json:"q" mod:"canonical" validate:"required"`
	Target string `query:"target" json:"target" default:"books"`
	Limit  int    `query:"limit" json:"limit" validate:"lte=50"`
}

type identifierParams struct {
	ISBN   string `json:"isbn" validate:"omitempty,isbn_any"`
	BookID string `json:"book_id" validate:"omitempty,book_id"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestBind_JSON(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("only allows application/json", func(tt *testing.T) {
		c := newContext(echo.POST, "/", goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(echo.POST, "/", unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(echo.POST, "/", typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("modifies and defaults params", func(tt *testing.T) {
		c := newContext(echo.POST, "/", goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "world", p.Hello)
		assert.Equal(tt, "canonical", p.Mode)
	})

	t.Run("validates params", func(tt *testing.T) {
		c := newContext(echo.POST, "/", validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("validates slice lengths", func(tt *testing.T) {
		c := newContext(echo.POST, "/", `{"texts":["a","b","c"]}`, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"texts" length must be less than or equal to 2 elements`)
	})

	t.Run("validates oneof", func(tt *testing.T) {
		c := newContext(echo.POST, "/", `{"mode":"romaji"}`, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"mode" must be one of the following: "canonical", "katakana"`)
	})

	t.Run("rejects an empty body", func(tt *testing.T) {
		c := newContext(echo.POST, "/", "", echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.ErrorIs(tt, err, errcodes.EmptyRequestBody())
	})
}

func TestBind_Query(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes, canonicalizes and defaults", func(tt *testing.T) {
		c := newContext(echo.GET, "/?q=%EF%BC%A1%E3%80%80b&limit=10", "", "")
		p := queryParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "A b", p.Q)
		assert.Equal(tt, "books", p.Target)
		assert.Equal(tt, 10, p.Limit)
	})

	t.Run("rejects unknown keys", func(tt *testing.T) {
		c := newContext(echo.GET, "/?q=a&foo=bar", "", "")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("reports conversion errors", func(tt *testing.T) {
		c := newContext(echo.GET, "/?q=a&limit=ten", "", "")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("requires fields after canonicalizing", func(tt *testing.T) {
		c := newContext(echo.GET, "/?q=%E3%80%80", "", "")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"q" is required`)
	})

	t.Run("bounds numbers", func(tt *testing.T) {
		c := newContext(echo.GET, "/?q=a&limit=51", "", "")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" must be less than or equal to 50`)
	})
}

func TestBind_IdentifierValidators(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newContext(echo.POST, "/", `{"isbn":"978-4-8340-1477-8","book_id":"a1-2"}`, echo.MIMEApplicationJSON)
	require.NoError(t, b.Bind(&identifierParams{}, c))

	c = newContext(echo.POST, "/", `{"isbn":"9784834014779"}`, echo.MIMEApplicationJSON)
	err = b.Bind(&identifierParams{}, c)
	assert.Contains(t, err.Error(), `"isbn" is not a valid ISBN`)

	c = newContext(echo.POST, "/", `{"book_id":"AB-1"}`, echo.MIMEApplicationJSON)
	err = b.Bind(&identifierParams{}, c)
	assert.Contains(t, err.Error(), `"book_id" is not a valid book ID`)
}

func newContext(method, target, payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	if mime != "" {
		req.Header.Set(echo.HeaderContentType, mime)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
