// Package navigation maps the URL fragment to the top-level view and
// keeps conversation state in step with navigation and session events.
// It is the only component that transitions between top-level states;
// the conversation manager requests navigation, never performs it.
package navigation

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/api"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/conversation"
)

// State is the top-level view.
type State int

const (
	Unauthenticated State = iota
	Loading
	Picker
	Conversation
	AgentHub
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Picker:
		return "picker"
	case Conversation:
		return "conversation"
	case AgentHub:
		return "agent_hub"
	default:
		return "unauthenticated"
	}
}

// FragmentAgents is the literal fragment token for the agent hub view.
const FragmentAgents = "agents"

var numericFragment = regexp.MustCompile(`^[0-9]+$`)

const (
	cacheKeyDocuments = "documents"
	cacheKeyAgents    = "agents"
)

// Synchronizer is the navigation/session state machine. The document
// list and agent catalog are process-scoped caches invalidated by the
// mutating operations, not refetched ad hoc by every consumer.
type Synchronizer struct {
	client *api.Client
	conv   *conversation.Manager
	cache  *cache.Cache

	mu       sync.Mutex
	state    State
	fragment string
	user     *api.User
}

func NewSynchronizer(client *api.Client, conv *conversation.Manager) *Synchronizer {
	return &Synchronizer{
		client: client,
		conv:   conv,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
		state:  Unauthenticated,
	}
}

// State returns the current top-level state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fragment returns the current navigation token.
func (s *Synchronizer) Fragment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment
}

// User returns the authenticated user, if any.
func (s *Synchronizer) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Start runs the app-start session check, then resolves the initial
// fragment. Stays Unauthenticated when no session is active.
func (s *Synchronizer) Start(ctx context.Context, fragment string) error {
	s.setState(Loading, fragment)

	info, err := s.client.Session(ctx)
	if err != nil || !info.IsLoggedIn {
		s.mu.Lock()
		s.state = Unauthenticated
		s.fragment = ""
		s.user = nil
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.user = info.User
	s.mu.Unlock()
	return s.HandleFragment(ctx, fragment)
}

// Login authenticates and lands on the picker.
func (s *Synchronizer) Login(ctx context.Context, username, password string) error {
	user, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return s.HandleFragment(ctx, "")
}

// Logout clears the session, the fragment and all conversation state,
// unconditionally.
func (s *Synchronizer) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.conv.Clear()
	s.cache.Flush()
	s.mu.Lock()
	s.state = Unauthenticated
	s.fragment = ""
	s.user = nil
	s.mu.Unlock()
	return err
}

// HandleFragment is the single transition path for every navigation
// event: back/forward, programmatic navigation after a new analysis,
// and the initial load. An empty fragment shows the picker, a numeric
// fragment opens that document's conversation, the agents token opens
// the hub. A failed document load clears the fragment and falls back to
// the picker.
func (s *Synchronizer) HandleFragment(ctx context.Context, fragment string) error {
	switch {
	case fragment == FragmentAgents:
		s.conv.Clear()
		s.setState(AgentHub, FragmentAgents)
		return nil

	case numericFragment.MatchString(fragment):
		s.setState(Loading, fragment)
		if err := s.conv.LoadDocument(ctx, fragment); err != nil {
			s.conv.Clear()
			s.setState(Picker, "")
			if errors.Is(err, api.ErrNotFound) {
				return nil
			}
			return err
		}
		s.setState(Conversation, fragment)
		return nil

	default:
		s.conv.Clear()
		s.setState(Picker, "")
		return nil
	}
}

// CreateAnalysis submits a new document, invalidates the list cache and
// advances the fragment to the new id through the normal fragment path
// (no special-case transition).
func (s *Synchronizer) CreateAnalysis(ctx context.Context, sourceType, data string) (string, error) {
	id, err := s.client.CreateAnalysis(ctx, sourceType, data)
	if err != nil {
		return "", err
	}
	s.cache.Delete(cacheKeyDocuments)
	return id, s.HandleFragment(ctx, id)
}

// Documents returns the picker list from the cache, fetching on miss.
func (s *Synchronizer) Documents(ctx context.Context) ([]api.DocumentRef, error) {
	if v, found := s.cache.Get(cacheKeyDocuments); found {
		return v.([]api.DocumentRef), nil
	}
	docs, err := s.client.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyDocuments, docs, cache.DefaultExpiration)
	return docs, nil
}

// Agents returns the agent catalog, fetched once per session. The
// catalog is read-only so it never needs invalidation, only expiry.
func (s *Synchronizer) Agents(ctx context.Context) ([]api.AgentInfo, error) {
	if v, found := s.cache.Get(cacheKeyAgents); found {
		return v.([]api.AgentInfo), nil
	}
	agents, err := s.client.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyAgents, agents, cache.NoExpiration)
	s.conv.Coordinator().SetCatalog(agents)
	return agents, nil
}

// RenameDocument renames and invalidates the list cache.
func (s *Synchronizer) RenameDocument(ctx context.Context, id, title string) error {
	if err := s.client.RenameDocument(ctx, id, title); err != nil {
		return err
	}
	s.cache.Delete(cacheKeyDocuments)
	return nil
}

// DeleteDocument deletes, invalidates the list cache, and leaves the
// conversation if the deleted document was active.
func (s *Synchronizer) DeleteDocument(ctx context.Context, id string) error {
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(cacheKeyDocuments)
	if active, ok := s.conv.Active(); ok && active == id {
		return s.HandleFragment(ctx, "")
	}
	return nil
}

func (s *Synchronizer) setState(state State, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.fragment = fragment
}
