package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"

	"github.com/tomokiyo/pjsbookshelf/pkg/binder"
	"github.com/tomokiyo/pjsbookshelf/pkg/errcodes"
	"github.com/tomokiyo/pjsbookshelf/pkg/kit"
)

// maxBodySize bounds request bodies, batch requests included.
const maxBodySize = "256K"

// New returns an echo instance serving every API route.
func New(eps *Endpoints) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = jsonSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
	}))

	health.RegisterRoutes(e)

	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	v1 := e.Group("/v1")
	v1.POST("/normalize", handle[normalizeRequest](eps.Normalize, nil))
	v1.POST("/normalize/batch", handle[normalizeBatchRequest](eps.NormalizeBatch, nil))
	v1.GET("/classify/:text", handle(eps.Classify, func(c echo.Context, req *classifyRequest) {
		req.Text = pathParam(c, "text")
	}))
	v1.POST("/kana", handle[kanaRequest](eps.Kana, nil))
	v1.GET("/isbn/:value", handle(eps.ISBN, setValue))
	v1.GET("/book-ids/:value", handle(eps.BookID, setValue))
	v1.POST("/book-ids/range", handle[bookIDRangeRequest](eps.BookIDRange, nil))
	v1.POST("/book-ids/parse", handle[bookIDListRequest](eps.BookIDList, nil))
	v1.GET("/query", handle[queryRequest](eps.Query, nil))
	v1.GET("/reading", handle[readingRequest](eps.Reading, nil))
	v1.GET("/glossaries", handle[struct{}](eps.Glossaries, nil))
	v1.GET("/glossaries/:id", handle(eps.Glossary, func(c echo.Context, req *glossaryRequest) {
		req.ID = pathParam(c, "id")
	}))

	return e, nil
}

// handle binds the request into a fresh T, after prepare has copied path
// parameters into it, and writes the endpoint's response as JSON.
func handle[T any](ep kit.Endpoint, prepare func(echo.Context, *T)) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(T)
		if prepare != nil {
			prepare(c, req)
		}
		if err := c.Bind(req); err != nil {
			return errors.WithStack(err)
		}

		ctx := c.Request().Context()
		if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
			ctx = kit.WithRequestID(ctx, id)
		}
		resp, err := ep(ctx, req)
		if err != nil {
			return errors.WithStack(err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func setValue(c echo.Context, req *valueRequest) {
	req.Value = pathParam(c, "value")
}

// pathParam returns the unescaped path parameter. Echo leaves parameters
// escaped when the request path has a raw form.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
