package kit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDecoder extracts the typed request of an endpoint from MCP tool arguments.
type MCPDecoder func(args map[string]any) (any, error)

// MCPTool binds an MCP tool definition to the Endpoint that serves it.
type MCPTool struct {
	Tool     mcp.Tool
	Endpoint Endpoint
	Decode   MCPDecoder // nil means the endpoint takes no request
}

// RegisterMCPTool registers t on srv. Decode and endpoint failures are reported
// as tool errors so the client sees the message; responses are returned as JSON text.
func RegisterMCPTool(srv *server.MCPServer, t MCPTool) {
	srv.AddTool(t.Tool, MCPHandler(t))
}

// MCPHandler adapts t to an mcp-go tool handler.
func MCPHandler(t MCPTool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var request any
		if t.Decode != nil {
			r, err := t.Decode(req.GetArguments())
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			request = r
		}

		resp, err := t.Endpoint(WithTransport(ctx, "mcp"), request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// StringArg returns the string argument name, or an error when required and absent.
func StringArg(args map[string]any, name string, required bool) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing %q", name)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string", name)
	}
	if required && s == "" {
		return "", fmt.Errorf("%q is empty", name)
	}
	return s, nil
}
