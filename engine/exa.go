package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/use-agent/readmode/models"
)

const (
	defaultExaEndpoint = "https://mcp.exa.ai/mcp?tools=crawling_exa"
	exaProtocolVersion = "2024-11-05"
	exaMaxCharacters   = 50000
)

// exaFailureMarkers are service-side failure signals delivered inside an
// otherwise successful tool result.
var exaFailureMarkers = []string{
	"CRAWL_LIVECRAWL_TIMEOUT",
	"CRAWL_NOT_FOUND",
	"CRAWL_TIMEOUT",
}

// exaStrategy speaks JSON-RPC 2.0 to Exa's hosted MCP crawling tool.
//
// The session id round-trips through the mcp-session-id header. It is held
// process-wide (one exaStrategy instance lives inside the orchestrator) and
// cleared on any error so the next call re-initializes. Concurrent calls may
// race to initialize; a duplicate initialize is harmless and each call simply
// adopts the latest id the service returned.
type exaStrategy struct {
	client   *http.Client
	endpoint string

	mu      sync.Mutex
	session string
	nextID  int
}

func newExa(client *http.Client) *exaStrategy {
	return &exaStrategy{client: client, endpoint: defaultExaEndpoint}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *exaStrategy) Name() models.StrategyID { return models.StrategyExa }

func (s *exaStrategy) Fetch(ctx context.Context, target string) models.StrategyResult {
	if err := s.ensureSession(ctx); err != nil {
		return models.Failure(s.Name(), "initialize: "+err.Error())
	}

	resp, err := s.call(ctx, "tools/call", map[string]any{
		"name": "crawling_exa",
		"arguments": map[string]any{
			"url":           target,
			"maxCharacters": exaMaxCharacters,
		},
	})
	if err != nil {
		s.clearSession()
		return models.Failure(s.Name(), err.Error())
	}

	text, title, err := parseExaContent(resp)
	if err != nil {
		s.clearSession()
		return models.Failure(s.Name(), err.Error())
	}

	return models.StrategyResult{
		Strategy: s.Name(),
		Payload:  models.MarkdownPayload{Body: text},
		Title:    title,
	}
}

// ensureSession performs the MCP initialize handshake once per session.
func (s *exaStrategy) ensureSession(ctx context.Context) error {
	s.mu.Lock()
	have := s.session != ""
	s.mu.Unlock()
	if have {
		return nil
	}

	_, err := s.call(ctx, "initialize", map[string]any{
		"protocolVersion": exaProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "readmode",
			"version": "1.0.0",
		},
	})
	return err
}

func (s *exaStrategy) clearSession() {
	s.mu.Lock()
	s.session = ""
	s.mu.Unlock()
}

// call issues one JSON-RPC request, captures any session id from the
// response headers, and unwraps the SSE-framed body.
func (s *exaStrategy) call(ctx context.Context, method string, params any) (*rpcResponse, error) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	session := s.session
	s.mu.Unlock()

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if session != "" {
		req.Header.Set("Mcp-Session-Id", session)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if sid := resp.Header.Get("Mcp-Session-Id"); sid != "" {
		s.mu.Lock()
		s.session = sid
		s.mu.Unlock()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	payload := extractSSEData(raw)
	var rpc rpcResponse
	if err := json.Unmarshal(payload, &rpc); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if rpc.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpc.Error.Code, rpc.Error.Message)
	}
	return &rpc, nil
}

// extractSSEData returns the JSON of the first "data: " line when the body
// is an SSE frame, or the body unchanged when it is plain JSON.
func extractSSEData(body []byte) []byte {
	if !bytes.Contains(body, []byte("data:")) {
		return body
	}
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxBody)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data:") {
			return []byte(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	return body
}

// parseExaContent unwraps the tool result. content[0].text is either a JSON
// document ({results:[{text|content, title, …}]}) or raw text.
func parseExaContent(rpc *rpcResponse) (text, title string, err error) {
	if len(rpc.Result.Content) == 0 {
		return "", "", fmt.Errorf("empty tool result")
	}
	text = rpc.Result.Content[0].Text
	if rpc.Result.IsError {
		return "", "", fmt.Errorf("tool error: %s", truncate(text, 200))
	}

	var doc struct {
		Results []struct {
			Text    string `json:"text"`
			Content string `json:"content"`
			Title   string `json:"title"`
		} `json:"results"`
	}
	if jsonErr := json.Unmarshal([]byte(text), &doc); jsonErr == nil && len(doc.Results) > 0 {
		r := doc.Results[0]
		title = r.Title
		if r.Text != "" {
			text = r.Text
		} else {
			text = r.Content
		}
	}

	for _, marker := range exaFailureMarkers {
		if strings.Contains(text, marker) {
			return "", "", fmt.Errorf("crawl failed: %s", marker)
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", "", fmt.Errorf("empty crawl result")
	}
	return text, title, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
