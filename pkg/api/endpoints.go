// Package api exposes the text tools over HTTP (echo) and MCP. Both
// transports dispatch to the same kit.Endpoints.
package api

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/classify"
	"github.com/tomokiyo/pjsbookshelf/pkg/errcodes"
	"github.com/tomokiyo/pjsbookshelf/pkg/glossary"
	"github.com/tomokiyo/pjsbookshelf/pkg/identifier"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
	"github.com/tomokiyo/pjsbookshelf/pkg/kit"
	"github.com/tomokiyo/pjsbookshelf/pkg/lookup"
	"github.com/tomokiyo/pjsbookshelf/pkg/query"
	"github.com/tomokiyo/pjsbookshelf/pkg/reading"
)

const (
	DefaultMaxBatch       = 100
	DefaultMaxQueryLength = 256
)

// Deps are the collaborators the endpoints need. Glossary and Reader may be
// nil; without a Reader the reading endpoint reports 503.
type Deps struct {
	Glossary       *glossary.Registry
	Reader         *reading.Reader
	MaxBatch       int
	MaxQueryLength int
	Placeholder    lookup.Placeholder

	// Silent drops per-call logging, for transports that own stdout.
	Silent bool
}

// Endpoints holds one kit.Endpoint per operation.
type Endpoints struct {
	Normalize      kit.Endpoint
	NormalizeBatch kit.Endpoint
	Classify       kit.Endpoint
	Kana           kit.Endpoint
	ISBN           kit.Endpoint
	BookID         kit.Endpoint
	BookIDRange    kit.Endpoint
	BookIDList     kit.Endpoint
	Query          kit.Endpoint
	Reading        kit.Endpoint
	Glossaries     kit.Endpoint
	Glossary       kit.Endpoint
}

// NewEndpoints builds the endpoints, each wrapped with request IDs and
// logging.
func NewEndpoints(deps Deps) *Endpoints {
	if deps.MaxBatch <= 0 {
		deps.MaxBatch = DefaultMaxBatch
	}
	if deps.MaxQueryLength <= 0 {
		deps.MaxQueryLength = DefaultMaxQueryLength
	}
	var g classify.Glossary
	if deps.Glossary != nil {
		g = deps.Glossary
	}
	classifier := classify.New(g)

	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		if deps.Silent {
			return kit.RequestID()(ep)
		}
		return kit.Chain(kit.RequestID(), kit.Logging(name))(ep)
	}
	return &Endpoints{
		Normalize:      wrap("normalize", normalizeEndpoint()),
		NormalizeBatch: wrap("normalize_batch", normalizeBatchEndpoint(deps.MaxBatch)),
		Classify:       wrap("classify", classifyEndpoint(classifier)),
		Kana:           wrap("kana", kanaEndpoint()),
		ISBN:           wrap("isbn", isbnEndpoint()),
		BookID:         wrap("book_id", bookIDEndpoint()),
		BookIDRange:    wrap("book_id_range", bookIDRangeEndpoint()),
		BookIDList:     wrap("book_id_list", bookIDListEndpoint()),
		Query:          wrap("query", queryEndpoint(deps.MaxQueryLength, deps.Placeholder)),
		Reading:        wrap("reading", readingEndpoint(deps.Reader)),
		Glossaries:     wrap("glossaries", glossariesEndpoint(deps.Glossary)),
		Glossary:       wrap("glossary", glossaryEndpoint(deps.Glossary)),
	}
}

// --- normalize ---

type normalizeRequest struct {
	Text string `json:"text" query:"text"`
	Mode string `json:"mode" query:"mode" default:"canonical" validate:"oneof=canonical katakana hiragana fold none"`
}

type normalizeResponse struct {
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	Mode       string `json:"mode"`
}

func normalizeEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeRequest)
		return normalizeResponse{
			Text:       req.Text,
			Normalized: jatext.GetNormalizer(req.Mode)(req.Text),
			Mode:       req.Mode,
		}, nil
	}
}

type normalizeBatchRequest struct {
	Texts []string `json:"texts" validate:"required,min=1"`
	Mode  string   `json:"mode" default:"canonical" validate:"oneof=canonical katakana hiragana fold none"`
}

type normalizeBatchResponse struct {
	Results []normalizeResponse `json:"results"`
}

func normalizeBatchEndpoint(maxBatch int) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeBatchRequest)
		if len(req.Texts) > maxBatch {
			return nil, errcodes.TooManyItems(maxBatch)
		}
		normalize := jatext.GetNormalizer(req.Mode)
		results := make([]normalizeResponse, len(req.Texts))
		for i, text := range req.Texts {
			results[i] = normalizeResponse{Text: text, Normalized: normalize(text), Mode: req.Mode}
		}
		return normalizeBatchResponse{Results: results}, nil
	}
}

// --- classify ---

type classifyRequest struct {
	Text  string `json:"text" query:"-"`
	Types string `json:"types" query:"types"`
	Dicts string `json:"dicts" query:"dicts"`
}

func (r *classifyRequest) options() *glossary.Options {
	return &glossary.Options{Types: splitList(r.Types), Dicts: splitList(r.Dicts)}
}

func classifyEndpoint(c *classify.Classifier) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*classifyRequest)
		return c.Classify(req.Text, req.options()), nil
	}
}

// --- kana ---

type kanaRequest struct {
	Text string `json:"text" mod:"trim" validate:"required"`
	To   string `json:"to" default:"katakana" validate:"oneof=katakana hiragana"`
}

type kanaResponse struct {
	Text      string `json:"text"`
	Converted string `json:"converted"`
	To        string `json:"to"`
}

func kanaEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*kanaRequest)
		convert := jatext.HiraganaToKatakana
		if req.To == "hiragana" {
			convert = jatext.KatakanaToHiragana
		}
		return kanaResponse{Text: req.Text, Converted: convert(req.Text), To: req.To}, nil
	}
}

// --- identifiers ---

type valueRequest struct {
	Value string `json:"value" query:"-" validate:"required"`
}

type isbnResponse struct {
	Input  string          `json:"input"`
	Valid  bool            `json:"valid"`
	Kind   identifier.Kind `json:"kind,omitempty"`
	ISBN   string          `json:"isbn,omitempty"`
	ISBN13 string          `json:"isbn13,omitempty"`
}

func isbnEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*valueRequest)
		resp := isbnResponse{Input: req.Value}
		id, err := identifier.ParseISBN(req.Value)
		if err != nil {
			return resp, nil
		}
		resp.Valid = true
		resp.Kind = id.Kind
		resp.ISBN = id.Canonical
		if isbn13, err := identifier.ToISBN13(id.Canonical); err == nil {
			resp.ISBN13 = isbn13
		}
		return resp, nil
	}
}

type bookIDResponse struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical"`
}

func bookIDEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*valueRequest)
		canonical, err := identifier.NormalizeBookID(req.Value)
		if err != nil {
			return nil, err
		}
		return bookIDResponse{Input: req.Value, Canonical: canonical}, nil
	}
}

type bookIDRangeRequest struct {
	First string `json:"first" mod:"trim" validate:"required,book_id"`
	Count int    `json:"count" validate:"gte=1,lte=1000"`
}

type bookIDsResponse struct {
	IDs      []string                  `json:"ids"`
	Rejected []identifier.RejectedLine `json:"rejected,omitempty"`
}

func bookIDRangeEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*bookIDRangeRequest)
		ids, err := identifier.BookIDRange(req.First, req.Count)
		if err != nil {
			if errors.Is(err, identifier.ErrInvalidIdentifier) {
				return nil, err
			}
			return nil, errcodes.ValidationError(err.Error())
		}
		return bookIDsResponse{IDs: ids}, nil
	}
}

type bookIDListRequest struct {
	Text string `json:"text" validate:"required"`
}

func bookIDListEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*bookIDListRequest)
		ids, rejected := identifier.ParseBookIDList(req.Text)
		if ids == nil {
			ids = []string{}
		}
		return bookIDsResponse{IDs: ids, Rejected: rejected}, nil
	}
}

// --- query ---

type queryRequest struct {
	Q      string `json:"q" query:"q"`
	Target string `json:"target" query:"target" default:"books" validate:"oneof=books members"`
}

type queryResponse struct {
	Query      string            `json:"query"`
	Target     string            `json:"target"`
	Predicates []query.Predicate `json:"predicates"`
	Where      string            `json:"where"`
	Args       []any             `json:"args"`
}

func queryEndpoint(maxLength int, style lookup.Placeholder) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*queryRequest)
		if utf8.RuneCountInString(req.Q) > maxLength {
			return nil, errcodes.ValidationError(fmt.Sprintf("%q length must be less than or equal to %d characters", "q", maxLength))
		}
		cq, err := query.CompileFor(query.Target(req.Target), req.Q)
		if err != nil {
			return nil, errcodes.ValidationError(err.Error())
		}
		where, args := lookup.Where(cq, style)
		resp := queryResponse{
			Query:      jatext.Normalize(req.Q),
			Target:     req.Target,
			Predicates: cq.Predicates,
			Where:      where,
			Args:       args,
		}
		if resp.Predicates == nil {
			resp.Predicates = []query.Predicate{}
		}
		if resp.Args == nil {
			resp.Args = []any{}
		}
		return resp, nil
	}
}

// --- reading ---

type readingRequest struct {
	Text string `json:"text" query:"text" mod:"trim" validate:"required"`
}

type readingResponse struct {
	Text    string   `json:"text"`
	Reading string   `json:"reading"`
	Tokens  []string `json:"tokens"`
}

func readingEndpoint(r *reading.Reader) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		if r == nil {
			return nil, errcodes.Unavailable("Reading")
		}
		req := request.(*readingRequest)
		return readingResponse{
			Text:    req.Text,
			Reading: r.Katakana(req.Text),
			Tokens:  r.Tokens(req.Text),
		}, nil
	}
}

// --- glossaries ---

type glossariesResponse struct {
	Glossaries   []glossary.DictInfo `json:"glossaries"`
	TotalEntries int                 `json:"total_entries"`
}

func glossariesEndpoint(reg *glossary.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		if reg == nil {
			return glossariesResponse{Glossaries: []glossary.DictInfo{}}, nil
		}
		return glossariesResponse{Glossaries: reg.ListDicts(), TotalEntries: reg.TotalEntries()}, nil
	}
}

type glossaryRequest struct {
	ID string `json:"id" query:"-" mod:"trim" validate:"required"`
}

func glossaryEndpoint(reg *glossary.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*glossaryRequest)
		if reg == nil {
			return nil, errcodes.NotFound("Glossary")
		}
		info, ok := reg.Dict(req.ID)
		if !ok {
			return nil, errcodes.NotFound("Glossary")
		}
		return info, nil
	}
}
