// Package conversation owns the active document's identity, analysis
// summary and ordered message list, and keeps them consistent with the
// server-persisted history.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/agentrun"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/api"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/format"
)

// Greeting is shown for a document with zero stored messages. It is a
// display default and is never persisted.
const Greeting = "Hello! I've analyzed this policy. Ask me anything to get started."

// ErrSendInFlight rejects a second question while the previous one is
// still awaiting its reply, so a reply can never be appended after a
// later user message.
var ErrSendInFlight = errors.New("a question is already awaiting its reply")

// Conversation is the loaded state for one document.
type Conversation struct {
	DocumentID string
	PolicyText string
	Analysis   api.Analysis
	Messages   []format.Message
}

// Manager is the single owner of conversation state. All mutation goes
// through it; readers get copies.
type Manager struct {
	client *api.Client
	coord  *agentrun.Coordinator

	// epoch increments on every load/clear; a fetch started under an
	// older epoch discards its result instead of installing stale state.
	epoch atomic.Uint64

	mu       sync.Mutex
	active   *Conversation
	outcomes []agentrun.Outcome
	sending  bool
}

func NewManager(client *api.Client) *Manager {
	return &Manager{
		client: client,
		coord:  agentrun.NewCoordinator(client),
	}
}

// Coordinator exposes the agent run coordinator, e.g. to install the
// agent catalog once it is fetched.
func (m *Manager) Coordinator() *agentrun.Coordinator { return m.coord }

// LoadDocument fetches a document and installs it atomically: message
// list and analysis are replaced together, never interleaved. A load
// that resolves after a newer load (or a clear) started is discarded.
func (m *Manager) LoadDocument(ctx context.Context, id string) error {
	gen := m.epoch.Add(1)

	doc, err := m.client.LoadDocument(ctx, id)
	if err != nil {
		return err
	}

	if m.epoch.Load() != gen {
		// A newer navigation superseded this fetch.
		return nil
	}

	msgs := make([]format.Message, 0, len(doc.History))
	for _, h := range doc.History {
		msgs = append(msgs, format.DecodeMessage(h.Text, h.IsUser))
	}
	if len(msgs) == 0 {
		msgs = append(msgs, format.TextMessage(Greeting, false))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch.Load() != gen {
		return nil
	}
	m.active = &Conversation{
		DocumentID: doc.PolicyID,
		PolicyText: doc.PolicyText,
		Analysis:   doc.Analysis,
		Messages:   msgs,
	}
	m.outcomes = nil
	return nil
}

// Clear drops the active conversation (navigation away, logout). Any
// in-flight load or resync becomes stale.
func (m *Manager) Clear() {
	m.epoch.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = nil
	m.outcomes = nil
	m.sending = false
}

// Active returns the current document id and whether one is loaded.
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.DocumentID, true
}

// Analysis returns the active document's stored analysis.
func (m *Manager) Analysis() (api.Analysis, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return api.Analysis{}, false
	}
	return m.active.Analysis, true
}

// Messages returns a copy of the ordered message list.
func (m *Manager) Messages() []format.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	out := make([]format.Message, len(m.active.Messages))
	copy(out, m.active.Messages)
	return out
}

// Outcomes returns the transient agent run results shown in the result
// panel until the resync folds them into history.
func (m *Manager) Outcomes() []agentrun.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]agentrun.Outcome, len(m.outcomes))
	copy(out, m.outcomes)
	return out
}

// SendQuestion appends the user's message optimistically, asks the
// server, and appends the reply, or a synthetic error message on
// failure. The optimistic message is never rolled back: a failure shows
// up as an extra bot-side entry, not a retraction.
func (m *Manager) SendQuestion(ctx context.Context, text string) error {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return errors.New("no active document")
	}
	if m.sending {
		m.mu.Unlock()
		return ErrSendInFlight
	}
	m.sending = true
	id := m.active.DocumentID
	m.active.Messages = append(m.active.Messages, format.TextMessage(text, true))
	m.mu.Unlock()

	reply, err := m.client.SendQuestion(ctx, text, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sending = false
	if m.active == nil || m.active.DocumentID != id {
		// Navigated away mid-send; the reply belongs to a stale view.
		return nil
	}
	if err != nil {
		m.active.Messages = append(m.active.Messages,
			format.TextMessage(fmt.Sprintf("**Error:** %s", err.Error()), false))
		return err
	}
	m.active.Messages = append(m.active.Messages, format.TextMessage(reply, false))
	return nil
}

// RunSelectedAgents executes the selection through the coordinator and
// publishes the outcomes to the result panel. The coordinator triggers
// the history resync itself.
func (m *Manager) RunSelectedAgents(ctx context.Context, sel *agentrun.Selection, params map[string]string) ([]agentrun.Outcome, error) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return nil, errors.New("no active document")
	}
	id := m.active.DocumentID
	text := m.active.PolicyText
	m.mu.Unlock()

	outcomes, err := m.coord.Run(ctx, sel, id, text, params, m)

	m.mu.Lock()
	if m.active != nil && m.active.DocumentID == id {
		m.outcomes = outcomes
	}
	m.mu.Unlock()
	return outcomes, err
}

// Resync refetches the active document's history so persisted messages
// replace transient state. Satisfies agentrun.Resyncer.
func (m *Manager) Resync(ctx context.Context) error {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return nil
	}
	id := m.active.DocumentID
	m.mu.Unlock()
	return m.LoadDocument(ctx, id)
}
