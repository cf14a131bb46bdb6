package kit

import (
	"context"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/segmentio/encoding/json"
)

// Decoder builds an endpoint request from the arguments of an MCP call. A
// nil request is allowed for endpoints that take none.
type Decoder func(mcp.CallToolRequest) (any, error)

// RegisterMCPTool serves endpoint as an MCP tool. Default struct tags on the
// decoded request are applied before the call; the response is returned as
// JSON text. Failures become tool errors, not protocol errors.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode Decoder) {
	srv.AddTool(tool, func(ctx context.Context, call mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := decode(call)
		if err == nil && req != nil {
			err = defaults.Set(req)
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		resp, err := endpoint(WithTransport(ctx, TransportMCP), req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

// StringArg returns the named string argument of an MCP call, or "" when it
// is absent or not a string.
func StringArg(call mcp.CallToolRequest, name string) string {
	v, _ := call.GetArguments()[name].(string)
	return v
}

// IntArg returns the named numeric argument, or def. JSON numbers arrive as
// float64.
func IntArg(call mcp.CallToolRequest, name string, def int) int {
	switch v := call.GetArguments()[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}
