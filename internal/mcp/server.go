package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"jaybrain/internal/logging"
	"jaybrain/internal/tools"
)

const protocolVersion = "2024-11-05"

// Server exposes a *tools.Registry over the MCP stdio transport: one
// JSON-RPC 2.0 object per line on stdin, one per line back on stdout.
// It implements the same handful of methods the teacher's client-side
// transport speaks (initialize, tools/list, tools/call, ping), just
// from the other end of the pipe.
type Server struct {
	registry *tools.Registry
	name     string
	version  string
}

// NewServer builds a Server around registry. name/version populate the
// initialize handshake's serverInfo.
func NewServer(registry *tools.Registry, name, version string) *Server {
	return &Server{registry: registry, name: name, version: version}
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted or ctx is canceled. Malformed
// lines get a parse-error response rather than killing the loop, so
// one bad line from a misbehaving client doesn't end the session.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(ctx, line)
		if resp == nil {
			continue // notification: no reply
		}
		if err := writeResponse(w, resp); err != nil {
			return fmt.Errorf("mcp server: write response: %w", err)
		}
	}
	return scanner.Err()
}

func writeResponse(w io.Writer, resp *response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Server) handleLine(ctx context.Context, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		logging.MCPDebug("mcp server: malformed request: %v", err)
		return &response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "parse error"}}
	}

	result, rpcErr := s.dispatch(ctx, req)

	if req.ID == nil {
		return nil // notification (e.g. notifications/initialized)
	}

	resp := &response{JSONRPC: "2.0", ID: *req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
		return resp
	}
	data, err := json.Marshal(result)
	if err != nil {
		resp.Error = &rpcError{Code: codeInternalError, Message: err.Error()}
		return resp
	}
	resp.Result = data
	return resp
}

func (s *Server) dispatch(ctx context.Context, req request) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		return initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    capabilities{Tools: map[string]any{"listChanged": false}},
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		}, nil
	case "notifications/initialized", "ping":
		return map[string]any{}, nil
	case "tools/list":
		return s.listTools(), nil
	case "tools/call":
		return s.callTool(ctx, req.Params)
	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}
}

func (s *Server) listTools() map[string]any {
	all := s.registry.All()
	schemas := make([]toolSchema, 0, len(all))
	for _, t := range all {
		inputSchema, err := json.Marshal(t.Schema)
		if err != nil {
			continue
		}
		schemas = append(schemas, toolSchema{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: inputSchema,
		})
	}
	return map[string]any{"tools": schemas}
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params callParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "invalid tools/call params"}
	}

	result, err := s.registry.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		return callResult{
			Content: []contentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}

	return callResult{Content: []contentBlock{{Type: "text", Text: result.Result}}}, nil
}
