package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/api"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/format"
)

func docResponse(id, summary string, history []map[string]interface{}) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"policy_id":   id,
		"policy_text": "policy text for " + id,
		"analysis": map[string]interface{}{
			"company_name":  "Acme",
			"risk_score":    7.5,
			"final_summary": summary,
		},
		"history": history,
	})
	return body
}

func TestLoadDocumentGreetingForEmptyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(docResponse("42", "collects everything", nil))
	}))
	defer srv.Close()

	m := NewManager(api.NewClient(srv.URL))
	require.NoError(t, m.LoadDocument(context.Background(), "42"))

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Body)
	assert.False(t, msgs[0].IsFromUser)

	analysis, ok := m.Analysis()
	require.True(t, ok)
	assert.Equal(t, 7.5, analysis.RiskScore)
}

func TestLoadDocumentDecodesStructuredHistory(t *testing.T) {
	history := []map[string]interface{}{
		{"text": "What do they collect?", "is_user": true},
		{"text": `{"risk_level": "High", "risk_factors": ["no encryption"]}`, "is_user": false},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(docResponse("42", "s", history))
	}))
	defer srv.Close()

	m := NewManager(api.NewClient(srv.URL))
	require.NoError(t, m.LoadDocument(context.Background(), "42"))

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, format.KindText, msgs[0].Kind)
	assert.True(t, msgs[0].IsFromUser)
	assert.Equal(t, format.KindStructuredResult, msgs[1].Kind)
	assert.Len(t, msgs[1].Fields, 2)
}

func TestSendQuestionOfflineAppendsExactlyTwoMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(docResponse("42", "s", nil))
	}))

	m := NewManager(api.NewClient(srv.URL))
	require.NoError(t, m.LoadDocument(context.Background(), "42"))
	before := len(m.Messages())

	// Kill the server: the chat call now fails at the transport level.
	srv.Close()

	err := m.SendQuestion(context.Background(), "is my data sold?")
	assert.Error(t, err)

	msgs := m.Messages()
	require.Len(t, msgs, before+2, "optimistic user message plus one error message")

	userMsg := msgs[len(msgs)-2]
	assert.True(t, userMsg.IsFromUser)
	assert.Equal(t, "is my data sold?", userMsg.Body, "optimistic message is never rolled back")

	errMsg := msgs[len(msgs)-1]
	assert.False(t, errMsg.IsFromUser)
	assert.Contains(t, errMsg.Body, "**Error:**")
}

func TestSendQuestionAppendsReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chats/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write(docResponse("42", "s", nil))
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"reply": "They sell it to brokers."})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewManager(api.NewClient(srv.URL))
	require.NoError(t, m.LoadDocument(context.Background(), "42"))

	require.NoError(t, m.SendQuestion(context.Background(), "is my data sold?"))

	msgs := m.Messages()
	last := msgs[len(msgs)-1]
	assert.False(t, last.IsFromUser)
	assert.Equal(t, "They sell it to brokers.", last.Body)
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	started42 := make(chan struct{})
	release42 := make(chan struct{})
	var startOnce, releaseOnce sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chats/42", func(w http.ResponseWriter, r *http.Request) {
		startOnce.Do(func() { close(started42) })
		<-release42 // 42 resolves only after 43 has been requested
		w.Write(docResponse("42", "from 42", []map[string]interface{}{
			{"text": "old message from 42", "is_user": true},
		}))
	})
	mux.HandleFunc("/api/chats/43", func(w http.ResponseWriter, r *http.Request) {
		releaseOnce.Do(func() { close(release42) })
		w.Write(docResponse("43", "from 43", []map[string]interface{}{
			{"text": "message from 43", "is_user": true},
		}))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewManager(api.NewClient(srv.URL))

	done42 := make(chan error, 1)
	go func() { done42 <- m.LoadDocument(context.Background(), "42") }()
	<-started42 // 42's load epoch is now older than 43's

	require.NoError(t, m.LoadDocument(context.Background(), "43"))
	require.NoError(t, <-done42)

	id, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "43", id, "late-arriving 42 must not replace 43")

	for _, msg := range m.Messages() {
		assert.NotContains(t, msg.Body, "from 42", "no cross-document leakage")
	}
}
