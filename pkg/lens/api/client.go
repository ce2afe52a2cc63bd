// Package api is the typed HTTP/JSON client for the PrivacyLens server.
// The engine never talks to the wire anywhere else; every call here maps
// to exactly one server endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// User is the authenticated identity returned by login/session calls.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionInfo is the session-check response.
type SessionInfo struct {
	IsLoggedIn bool  `json:"isLoggedIn"`
	User       *User `json:"user,omitempty"`
}

// DocumentRef is one entry of the picker list.
type DocumentRef struct {
	PolicyID string `json:"policy_id"`
	Title    string `json:"title"`
}

// Analysis is the stored structured analysis of a document.
type Analysis struct {
	CompanyName  string  `json:"company_name"`
	RiskScore    float64 `json:"risk_score"`
	FinalSummary string  `json:"final_summary"`
}

// HistoryEntry is one persisted message, oldest first.
type HistoryEntry struct {
	Text   string `json:"text"`
	IsUser bool   `json:"is_user"`
}

// Document is the full load-document response.
type Document struct {
	PolicyID   string         `json:"policy_id"`
	PolicyText string         `json:"policy_text"`
	Analysis   Analysis       `json:"analysis"`
	History    []HistoryEntry `json:"history"`
}

// AgentInfo describes one entry of the agent catalog.
type AgentInfo struct {
	Key         string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Client talks to the PrivacyLens API. Safe for concurrent use; the
// bearer token is guarded so login/logout can race in-flight calls.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearerToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Session checks whether a session is active.
func (c *Client) Session(ctx context.Context) (*SessionInfo, error) {
	var out SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token and installs it.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.User, nil
}

func (c *Client) Signup(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/signup", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.SetToken("")
	return err
}

// ListDocuments fetches the picker list, newest first.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentRef, error) {
	var out []DocumentRef
	if err := c.do(ctx, http.MethodGet, "/api/chats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadDocument fetches a document's analysis and full history.
func (c *Client) LoadDocument(ctx context.Context, id string) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameDocument(ctx context.Context, id, title string) error {
	return c.do(ctx, http.MethodPut, "/api/chats/"+id, map[string]string{"title": title}, nil)
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+id, nil, nil)
}

// CreateAnalysis submits pasted text or a URL for analysis and returns
// the new document id, the navigation target.
func (c *Client) CreateAnalysis(ctx context.Context, sourceType, data string) (string, error) {
	var out struct {
		PolicyID string `json:"policy_id"`
	}
	body := map[string]string{"source_type": sourceType, "data": data}
	if err := c.do(ctx, http.MethodPost, "/api/analyze", body, &out); err != nil {
		return "", err
	}
	return out.PolicyID, nil
}

// SendQuestion asks a free-form question about a document.
func (c *Client) SendQuestion(ctx context.Context, question, policyID string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	body := map[string]string{"question": question, "policy_id": policyID}
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// ListAgents fetches the agent catalog. The server emits a mapping; the
// result is flattened to a slice sorted by key so catalog iteration is
// deterministic.
func (c *Client) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	var raw map[string]AgentInfo
	if err := c.do(ctx, http.MethodGet, "/api/agents", nil, &raw); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	agents := make([]AgentInfo, 0, len(keys))
	for _, k := range keys {
		info := raw[k]
		info.Key = k
		agents = append(agents, info)
	}
	return agents, nil
}

// RunAgent invokes one analysis agent. The result is returned raw; the
// caller decides whether it is narrative or structured.
func (c *Client) RunAgent(ctx context.Context, key, policyID, policyText string, params map[string]string) (json.RawMessage, error) {
	var out struct {
		Result json.RawMessage `json:"result"`
	}
	body := map[string]interface{}{
		"policy_id":   policyID,
		"policy_text": policyText,
		"params":      params,
	}
	if err := c.do(ctx, http.MethodPost, "/api/agents/"+key+"/analyze", body, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls the "error" field out of a failure body when there
// is one, otherwise synthesizes a message from the status code.
func errorMessage(status int, body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return fmt.Sprintf("server returned status %d", status)
}
