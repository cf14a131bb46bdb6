package api

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
	"github.com/tomokiyo/pjsbookshelf/pkg/kit"
)

// NewMCPServer returns an MCP server with every tool registered.
func NewMCPServer(name, version string, eps *Endpoints) *server.MCPServer {
	srv := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, eps)
	return srv
}

// RegisterMCPTools registers the text tools on the server.
func RegisterMCPTools(srv *server.MCPServer, eps *Endpoints) {
	kit.RegisterMCPTool(srv, mcp.NewTool("normalize_text",
		mcp.WithDescription("Normalize Japanese text: fold full-width ASCII and half-width katakana, merge voicing marks, collapse whitespace."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to normalize")),
		mcp.WithString("mode", mcp.Description("canonical (default), katakana, hiragana, fold or none")),
	), eps.Normalize, func(req mcp.CallToolRequest) (any, error) {
		r := &normalizeRequest{Text: kit.StringArg(req, "text"), Mode: kit.StringArg(req, "mode")}
		if r.Mode != "" && !jatext.IsNormalizerMode(r.Mode) {
			return nil, errors.Errorf("unknown mode %q", r.Mode)
		}
		return r, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("classify_text",
		mcp.WithDescription("Report the script class of a text, the identifier it spells and the glossary entries it matches."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to classify")),
		mcp.WithString("types", mcp.Description("Comma-separated entity type filter (e.g. author,publisher)")),
		mcp.WithString("dicts", mcp.Description("Comma-separated glossary filter")),
	), eps.Classify, func(req mcp.CallToolRequest) (any, error) {
		return &classifyRequest{
			Text:  kit.StringArg(req, "text"),
			Types: kit.StringArg(req, "types"),
			Dicts: kit.StringArg(req, "dicts"),
		}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("convert_kana",
		mcp.WithDescription("Convert between hiragana and katakana."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to convert")),
		mcp.WithString("to", mcp.Description("katakana (default) or hiragana")),
	), eps.Kana, func(req mcp.CallToolRequest) (any, error) {
		r := &kanaRequest{Text: kit.StringArg(req, "text"), To: kit.StringArg(req, "to")}
		if r.To != "" && r.To != "katakana" && r.To != "hiragana" {
			return nil, errors.Errorf("to must be katakana or hiragana, got %q", r.To)
		}
		return r, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("validate_isbn",
		mcp.WithDescription("Validate an ISBN-10 or ISBN-13 and return its canonical ISBN-13."),
		mcp.WithString("isbn", mcp.Required(), mcp.Description("The ISBN, with or without hyphens")),
	), eps.ISBN, func(req mcp.CallToolRequest) (any, error) {
		return &valueRequest{Value: kit.StringArg(req, "isbn")}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("normalize_book_id",
		mcp.WithDescription("Canonicalize a shelf book ID such as a1-2 into A001-02."),
		mcp.WithString("book_id", mcp.Required(), mcp.Description("The book ID")),
	), eps.BookID, func(req mcp.CallToolRequest) (any, error) {
		return &valueRequest{Value: kit.StringArg(req, "book_id")}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("compile_query",
		mcp.WithDescription("Compile a search box query into field predicates and a parameterized WHERE clause."),
		mcp.WithString("q", mcp.Required(), mcp.Description("The raw search text")),
		mcp.WithString("target", mcp.Description("books (default) or members")),
	), eps.Query, func(req mcp.CallToolRequest) (any, error) {
		return &queryRequest{Q: kit.StringArg(req, "q"), Target: kit.StringArg(req, "target")}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("book_id_range",
		mcp.WithDescription("List consecutive canonical book IDs for a barcode sheet."),
		mcp.WithString("first", mcp.Required(), mcp.Description("The first book ID")),
		mcp.WithNumber("count", mcp.Description("How many IDs, 1 to 1000 (default 60)")),
	), eps.BookIDRange, func(req mcp.CallToolRequest) (any, error) {
		return &bookIDRangeRequest{
			First: kit.StringArg(req, "first"),
			Count: kit.IntArg(req, "count", 60),
		}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("list_glossaries",
		mcp.WithDescription("List the loaded glossaries with their entity type and entry count."),
	), eps.Glossaries, func(_ mcp.CallToolRequest) (any, error) {
		return nil, nil
	})
}
