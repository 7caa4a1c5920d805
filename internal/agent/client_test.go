package agent_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enchanted-day/backend/internal/agent"
	"enchanted-day/backend/internal/chat"
	app_errors "enchanted-day/backend/internal/errors"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/stream"
)

type captured struct {
	method string
	auth   string
	accept string
	body   agent.Request
}

// newAgentServer starts a stand-in for the chat endpoint. The handler decides
// the reply; every request is recorded into the returned slice pointer.
func newAgentServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req agent.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, captured{
			method: r.Method,
			auth:   r.Header.Get("Authorization"),
			accept: r.Header.Get("Accept"),
			body:   req,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestClient_Stream(t *testing.T) {
	srv, requests := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		stream.SetHeaders(w)
		sw := stream.NewWriter(w)
		assert.NoError(t, sw.WriteEvent(model.StreamEvent{Type: model.EventStart}))
		assert.NoError(t, sw.WriteEvent(model.StreamEvent{Type: model.EventContent, Content: "Hi"}))
		assert.NoError(t, sw.WriteDone())
	})

	client := agent.NewClient(srv.URL, agent.WithBearerToken("secret"))
	body, err := client.StreamChat(context.Background(), "hello", "wedding-1")
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `data: {"type":"content","content":"Hi"}`)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "Bearer secret", got.auth)
	assert.Equal(t, "text/event-stream", got.accept)
	assert.Equal(t, "hello", got.body.Prompt)
	assert.Equal(t, "wedding-1", got.body.WeddingID)
	assert.Equal(t, agent.TypeChat, got.body.Type)
	assert.True(t, got.body.Stream)
}

func TestClient_StatusError(t *testing.T) {
	srv, _ := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	client := agent.NewClient(srv.URL)
	_, err := client.StreamChat(context.Background(), "hello", "")

	var statusErr *agent.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Equal(t, "upstream unavailable", statusErr.Body)
}

func TestClient_Send(t *testing.T) {
	srv, requests := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Book the florist","suggestions":[{"label":"Vendors","path":"/vendors"}]}`))
	})

	client := agent.NewClient(srv.URL)
	resp, err := client.Send(context.Background(), &agent.Request{Prompt: "next step?"})
	require.NoError(t, err)

	assert.Equal(t, "Book the florist", resp.Response)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "/vendors", resp.Suggestions[0].Path)
	assert.False(t, (*requests)[0].body.Stream)
	assert.Equal(t, "application/json", (*requests)[0].accept)
}

func TestClient_Validation(t *testing.T) {
	srv, requests := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {})
	client := agent.NewClient(srv.URL)

	t.Run("Empty prompt", func(t *testing.T) {
		_, err := client.Send(context.Background(), &agent.Request{})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
		assert.ErrorContains(t, err, "Prompt")
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := client.Stream(context.Background(), &agent.Request{Prompt: "x", Type: "gossip"})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	assert.Empty(t, *requests, "invalid requests never reach the endpoint")
}

func TestClient_RateLimit(t *testing.T) {
	srv, requests := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {})

	// A zero-burst limiter can never grant a token.
	client := agent.NewClient(srv.URL, agent.WithRateLimit(0, 0))
	_, err := client.StreamChat(context.Background(), "hello", "")

	require.Error(t, err)
	assert.ErrorContains(t, err, "rate limiter")
	assert.Empty(t, *requests)
}

func TestClient_Workflows(t *testing.T) {
	srv, requests := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"ok","data":{"savings":1200}}`))
	})
	client := agent.NewClient(srv.URL)
	ctx := context.Background()

	opt, err := client.Optimize(ctx, "w1", agent.OptimizationGoals{Goals: []string{"budget", "guest comfort"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(opt.WorkflowID, "opt_"))
	assert.Equal(t, float64(1200), opt.Analysis["savings"])

	neg, err := client.Negotiate(ctx, "v1", agent.NegotiationTerms{WeddingID: "w1", Budget: 2500})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(neg.WorkflowID, "neg_"))

	search, err := client.SearchVendors(ctx, "w1", agent.VendorSearch{Category: "florist", Location: "Lisbon", Budget: 900.5})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(search.WorkflowID, "search_"))

	coord, err := client.CoordinateVendors(ctx, "w1", agent.Coordination{EventDate: "2027-06-12"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(coord.WorkflowID, "coord_"))
	assert.NotNil(t, coord.Logistics)

	require.Len(t, *requests, 4)
	assert.Equal(t, "Optimize wedding for goals: budget, guest comfort", (*requests)[0].body.Prompt)
	assert.Equal(t, agent.TypeOptimization, (*requests)[0].body.Type)
	assert.Equal(t, "Negotiate vendor contract with budget 2500", (*requests)[1].body.Prompt)
	assert.Equal(t, agent.TypeNegotiation, (*requests)[1].body.Type)
	assert.Equal(t, "Search for florist vendors in Lisbon with budget 900.5", (*requests)[2].body.Prompt)
	assert.Equal(t, agent.TypeVendorCoordination, (*requests)[3].body.Type)
}

func TestClient_StreamGuestInquiry(t *testing.T) {
	srv, requests := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data: [DONE]\n"))
	})
	client := agent.NewClient(srv.URL)

	body, err := client.StreamGuestInquiry(context.Background(), "g1", "Is there parking?", "")
	require.NoError(t, err)
	require.NoError(t, body.Close())

	got := (*requests)[0].body
	assert.Equal(t, agent.TypeGuestInquiry, got.Type)
	assert.Equal(t, "Guest inquiry: Is there parking?", got.Prompt)
	assert.Equal(t, "medium", got.Context["urgency"])
}

// TestClient_ChatSessionEndToEnd runs the whole client pipeline against a real
// HTTP stream that is flushed frame by frame.
func TestClient_ChatSessionEndToEnd(t *testing.T) {
	srv, _ := newAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		stream.SetHeaders(w)
		sw := stream.NewWriter(w)
		for _, ev := range []model.StreamEvent{
			{Type: model.EventStart, Agent: "EnchantedDay AI Assistant"},
			{Type: model.EventContent, Content: "<thinking>check spend"},
			{Type: model.EventContent, Content: "</thinking>Your budget "},
			{Type: model.EventContent, Content: "is on track."},
			{Type: model.EventEnd},
		} {
			assert.NoError(t, sw.WriteEvent(ev))
		}
		assert.NoError(t, sw.WriteDone())
	})

	session := chat.NewSession(agent.NewClient(srv.URL))
	var updates int
	var actions []chat.Action
	msg, err := session.Send(context.Background(), "How is my budget?", "w1", chat.Callbacks{
		AssistantUpdated:   func(chat.Message) { updates++ },
		AssistantFinalized: func(_ chat.Message, a []chat.Action) { actions = a },
	})

	require.NoError(t, err)
	assert.Equal(t, "Your budget is on track.", msg.Content)
	assert.Equal(t, "check spend", msg.Thinking)
	assert.False(t, msg.Streaming)
	assert.GreaterOrEqual(t, updates, 3)
	require.Len(t, actions, 1)
	assert.Equal(t, "View Budget", actions[0].Label)
	assert.Equal(t, "/budget", actions[0].Data["path"])
}
