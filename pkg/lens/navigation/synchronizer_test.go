package navigation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/api"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/conversation"
)

type fixture struct {
	srv       *httptest.Server
	sync      *Synchronizer
	conv      *conversation.Manager
	listCalls atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"isLoggedIn": true,
			"user":       map[string]string{"username": "hirdy", "role": "admin"},
		})
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/api/chats", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls.Add(1)
		json.NewEncoder(w).Encode([]map[string]string{
			{"policy_id": "7", "title": "Acme Privacy Policy"},
		})
	})
	mux.HandleFunc("/api/chats/7", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"policy_id":   "7",
				"policy_text": "text",
				"analysis": map[string]interface{}{
					"company_name": "Acme", "risk_score": 2.0, "final_summary": "ok",
				},
				"history": []interface{}{},
			})
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
	mux.HandleFunc("/api/chats/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Chat not found or access denied"})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	client := api.NewClient(f.srv.URL)
	f.conv = conversation.NewManager(client)
	f.sync = NewSynchronizer(client, f.conv)
	return f
}

func TestStartResolvesFragment(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sync.Start(context.Background(), ""))
	assert.Equal(t, Picker, f.sync.State())

	require.NoError(t, f.sync.HandleFragment(context.Background(), "7"))
	assert.Equal(t, Conversation, f.sync.State())
	assert.Equal(t, "7", f.sync.Fragment())

	id, ok := f.conv.Active()
	require.True(t, ok)
	assert.Equal(t, "7", id)
}

func TestAgentsFragment(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.Start(context.Background(), "agents"))
	assert.Equal(t, AgentHub, f.sync.State())

	_, ok := f.conv.Active()
	assert.False(t, ok, "agent hub view clears the active conversation")
}

func TestNotFoundFallsBackToPicker(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.Start(context.Background(), "404"))

	assert.Equal(t, Picker, f.sync.State())
	assert.Equal(t, "", f.sync.Fragment(), "stale fragment must be cleared")
}

func TestSwitchingDocumentsClearsPreviousMessages(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.Start(context.Background(), "7"))
	require.Equal(t, Conversation, f.sync.State())

	// Navigating to the picker drops the conversation wholesale.
	require.NoError(t, f.sync.HandleFragment(context.Background(), ""))
	assert.Nil(t, f.conv.Messages())
}

func TestDocumentListCachedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.Start(context.Background(), ""))

	_, err := f.sync.Documents(context.Background())
	require.NoError(t, err)
	_, err = f.sync.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.listCalls.Load(), "second read must hit the cache")

	require.NoError(t, f.sync.RenameDocument(context.Background(), "7", "Renamed"))
	_, err = f.sync.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.listCalls.Load(), "rename invalidates the cache")
}

func TestLogoutResetsEverything(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.Start(context.Background(), "7"))

	require.NoError(t, f.sync.Logout(context.Background()))
	assert.Equal(t, Unauthenticated, f.sync.State())
	assert.Equal(t, "", f.sync.Fragment())
	assert.Nil(t, f.sync.User())

	_, ok := f.conv.Active()
	assert.False(t, ok)
}
