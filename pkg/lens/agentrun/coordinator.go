// Package agentrun executes a user-selected batch of analysis agents
// against one document and collects per-agent outcomes.
package agentrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/api"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/format"
)

// ErrRunInFlight rejects a second batch for a document whose previous
// batch has not finished. Two concurrent batches for the same document
// would interleave their persisted history entries.
var ErrRunInFlight = errors.New("an agent run is already in flight for this document")

// Outcome is the transient result of one agent call. It lives until the
// history resync replaces it with the persisted message.
type Outcome struct {
	AgentKey  string
	AgentName string
	Result    format.Result
	Failed    bool
}

// Runner is the per-agent analyze call, satisfied by *api.Client.
type Runner interface {
	RunAgent(ctx context.Context, key, policyID, policyText string, params map[string]string) (json.RawMessage, error)
}

// Resyncer refetches the persisted history after a batch, so server-side
// truth replaces the transient outcomes.
type Resyncer interface {
	Resync(ctx context.Context) error
}

// Coordinator runs agent batches strictly sequentially: each call
// completes before the next begins, bounding load on the analysis
// backend and making result order reproducible.
type Coordinator struct {
	runner  Runner
	catalog map[string]api.AgentInfo

	mu       sync.Mutex
	inFlight map[string]bool // keyed by document id
}

func NewCoordinator(runner Runner) *Coordinator {
	return &Coordinator{
		runner:   runner,
		catalog:  make(map[string]api.AgentInfo),
		inFlight: make(map[string]bool),
	}
}

// SetCatalog installs agent descriptors so outcomes carry display names.
// Unknown keys fall back to the raw key.
func (c *Coordinator) SetCatalog(agents []api.AgentInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range agents {
		c.catalog[a.Key] = a
	}
}

// Run executes the selection against one document. An empty selection is
// a no-op and returns before any network call. A per-agent failure
// produces an error-tagged outcome and the batch continues; after all
// agents finish, resync is attempted exactly once. A failed resync is
// reported through the returned error but never discards the outcomes.
func (c *Coordinator) Run(ctx context.Context, sel *Selection, documentID, documentText string, params map[string]string, resync Resyncer) ([]Outcome, error) {
	if sel == nil || sel.Len() == 0 {
		return nil, nil
	}

	c.mu.Lock()
	if c.inFlight[documentID] {
		c.mu.Unlock()
		return nil, ErrRunInFlight
	}
	c.inFlight[documentID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, documentID)
		c.mu.Unlock()
	}()

	outcomes := make([]Outcome, 0, sel.Len())
	for _, key := range sel.Keys() {
		outcome := Outcome{AgentKey: key, AgentName: c.displayName(key)}

		raw, err := c.runner.RunAgent(ctx, key, documentID, documentText, params)
		if err != nil {
			outcome.Failed = true
			outcome.Result = format.Narrative(fmt.Sprintf("Error: %s", err.Error()))
		} else {
			outcome.Result = format.DecodeResult(raw)
		}
		outcomes = append(outcomes, outcome)
	}

	if resync != nil {
		if err := resync.Resync(ctx); err != nil {
			return outcomes, fmt.Errorf("history resync failed: %w", err)
		}
	}
	return outcomes, nil
}

func (c *Coordinator) displayName(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if info, ok := c.catalog[key]; ok && info.Name != "" {
		return info.Name
	}
	return key
}
