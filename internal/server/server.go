package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/markings-mcp/internal/embedding"
	"github.com/ironsheep/markings-mcp/internal/imaging"
	"github.com/ironsheep/markings-mcp/internal/markings"
)

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.PhotoCache
	embedder embedding.Embedder
	defaults markings.Config
	logger   *zap.Logger
	version  string
}

// Options configures a Server. Zero fields fall back to defaults: a no-op
// logger, markings.DefaultConfig and a seeded random embedder of length 128.
type Options struct {
	Embedder embedding.Embedder
	Defaults *markings.Config
	Logger   *zap.Logger
	Version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance.
//
// Parameters:
//   - opts: Collaborators and defaults. Zero fields are filled in as
//     described on Options.
//
// Returns:
//   - *Server: A server with an empty photo cache, ready for Run or Serve.
func New(opts Options) *Server {
	s := &Server{
		cache:    imaging.NewPhotoCache(),
		embedder: opts.Embedder,
		defaults: markings.DefaultConfig(),
		logger:   opts.Logger,
		version:  opts.Version,
	}
	if opts.Defaults != nil {
		s.defaults = *opts.Defaults
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.embedder == nil {
		s.embedder = embedding.NewRandom(128, 1)
	}
	if s.version == "" {
		s.version = "dev"
	}
	return s
}

// Run serves MCP requests from stdin and writes responses to stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r until EOF and
// writes one response line per request to w.
//
// Parameters:
//   - r: Request stream, one JSON-RPC message per line. Blank lines are skipped.
//   - w: Response stream. Notifications get no response.
//
// Returns:
//   - error: Non-nil only if reading r fails. Malformed lines are answered
//     with a -32700 parse error and do not stop the loop.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", zap.Error(err))
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.logger.Error("failed to encode response", zap.Error(err))
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "markings-mcp",
				"version": s.version,
			},
		},
	}
}
