// Package binder binds echo requests into request structs. Bodies are JSON
// only; GET requests bind from the query string.
package binder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"

	"github.com/tomokiyo/pjsbookshelf/pkg/errcodes"
	"github.com/tomokiyo/pjsbookshelf/pkg/identifier"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder implements echo.Binder. It binds to a struct, runs the mod tags,
// applies defaults and validates.
type Binder struct {
	queryDecoder *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

// New initializes a Binder with the custom validators registered.
func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	conform := modifiers.New()
	conform.Register("canonical", canonicalModifier)
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("isbn_any", isbnValidator); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.RegisterValidation("book_id", bookIDValidator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{queryDecoder, conform, validate}, nil
}

// Bind binds, modifies, and validates payloads against the given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	log := logger.FromEchoContext(c)

	if req.ContentLength > 0 {
		ctype := req.Header.Get(echo.HeaderContentType)
		if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
			return errcodes.UnsupportedMediaType()
		}
		dec := json.NewDecoder(req.Body)
		dec.DisallowUnknownFields()
		defer req.Body.Close()
		if err := dec.Decode(i); err != nil {
			if matches := unknownFieldsRE.FindAllStringSubmatch(err.Error(), -1); len(matches) > 0 && len(matches[0]) > 1 {
				return errcodes.UnknownParameter(matches[0][1])
			}
			if err, ok := err.(*json.UnmarshalTypeError); ok {
				return errcodes.ValidationTypeError(formatUnmarshalTypeError(err))
			}
			log.Err(err).Error("unknown json decode error")
			return errcodes.MalformedPayload()
		}
	} else if req.Method == http.MethodGet {
		if err := b.decodeQuery(i, c.QueryParams()); err != nil {
			return err
		}
	} else {
		return errcodes.EmptyRequestBody()
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return errors.WithStack(err)
		}
		return errcodes.ValidationError(formatValidationError(errs[0]))
	}
	return nil
}

func (b *Binder) decodeQuery(i interface{}, params url.Values) error {
	err := b.queryDecoder.Decode(i, params)
	if err == nil {
		return nil
	}
	errs, ok := err.(schema.MultiError)
	if !ok {
		return errors.WithStack(err)
	}
	for _, err := range errs {
		if err, ok := err.(schema.ConversionError); ok {
			return errcodes.ValidationTypeError(formatSchemaConversionError(err))
		}
		if err, ok := err.(schema.UnknownKeyError); ok {
			return errcodes.UnknownParameter(err.Key)
		}
		return errors.WithStack(err)
	}
	return errors.WithStack(err)
}

// canonicalModifier rewrites a string field into its canonical form, the mod
// tag equivalent of jatext.Normalize.
func canonicalModifier(_ context.Context, fl mold.FieldLevel) error {
	if fl.Field().Kind() != reflect.String || !fl.Field().CanSet() {
		return nil
	}
	fl.Field().SetString(jatext.Normalize(fl.Field().String()))
	return nil
}

func isbnValidator(fl validator.FieldLevel) bool {
	_, err := identifier.ParseISBN(fl.Field().String())
	return err == nil
}

func bookIDValidator(fl validator.FieldLevel) bool {
	return identifier.IsBookID(fl.Field().String())
}
