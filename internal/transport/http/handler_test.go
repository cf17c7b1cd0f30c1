package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uigs/graph-engine/internal/conflict"
	"github.com/uigs/graph-engine/internal/graph/models"
	"github.com/uigs/graph-engine/internal/graph/store"
	"github.com/uigs/graph-engine/internal/ingest/archive"
	ingestmodels "github.com/uigs/graph-engine/internal/ingest/models"
)

type fakeDrainer struct {
	healthy   bool
	processed int
	err       error
	gotMax    int
}

func (f *fakeDrainer) ProcessPending(_ context.Context, max int) (int, error) {
	f.gotMax = max
	return f.processed, f.err
}

func (f *fakeDrainer) Healthy() bool { return f.healthy }

func newTestServer(t *testing.T, mem *store.MemoryStore, drainer Drainer) *httptest.Server {
	t.Helper()
	return newTestServerWithEvents(t, mem, drainer, archive.NewMemory())
}

func newTestServerWithEvents(t *testing.T, mem *store.MemoryStore, drainer Drainer, events EventReader) *httptest.Server {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	detector := conflict.NewDetector(mem, log)
	h := New(mem, detector, drainer, events, log)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

// seedConflict writes two disagreeing email claims for userID and returns
// the conflict edge id.
func seedConflict(t *testing.T, mem *store.MemoryStore, userID string) string {
	t.Helper()
	ctx := context.Background()

	_, err := mem.UpsertUser(ctx, userID)
	require.NoError(t, err)

	var claimIDs []string
	for _, value := range []string{"old@example.com", "new@example.com"} {
		cred := models.NewCredentialNode("did:example:issuer", "", "TestCredential", nil, "evt-seed")
		_, err = mem.CreateCredentialNode(ctx, cred, userID)
		require.NoError(t, err)

		claim := models.NewClaimNode("email", value)
		_, err = mem.CreateClaimNode(ctx, claim)
		require.NoError(t, err)
		_, err = mem.CreateSupportsEdge(ctx, cred.NodeID, claim.NodeID)
		require.NoError(t, err)
		claimIDs = append(claimIDs, claim.NodeID)
	}

	edgeID, err := mem.CreateContradictsEdge(ctx, claimIDs[1], claimIDs[0], 1.0)
	require.NoError(t, err)
	return edgeID
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, store.NewMemory(), &fakeDrainer{healthy: true})

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "graph-engine", body["service"])
}

func TestHandleReady(t *testing.T) {
	t.Run("ready when both dependencies answer", func(t *testing.T) {
		srv := newTestServer(t, store.NewMemory(), &fakeDrainer{healthy: true})

		var body map[string]any
		status := getJSON(t, srv.URL+"/ready", &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ready"])
	})

	t.Run("unhealthy queue means not ready", func(t *testing.T) {
		srv := newTestServer(t, store.NewMemory(), &fakeDrainer{healthy: false})

		var body map[string]any
		status := getJSON(t, srv.URL+"/ready", &body)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, false, body["ready"])
		assert.Equal(t, "not_ready", body["rabbitmq"])
	})
}

func TestHandleUserGraph(t *testing.T) {
	mem := store.NewMemory()
	seedConflict(t, mem, "user-1")
	srv := newTestServer(t, mem, &fakeDrainer{healthy: true})

	t.Run("returns nodes and edges", func(t *testing.T) {
		var graph models.UserGraph
		status := getJSON(t, srv.URL+"/users/user-1/graph", &graph)
		assert.Equal(t, http.StatusOK, status)
		// user + 2 credentials + 2 claims
		assert.Equal(t, 5, graph.NodeCount)
		// 2 BELONGS_TO + 2 SUPPORTS + 1 CONTRADICTS
		assert.Equal(t, 5, graph.EdgeCount)
	})

	t.Run("unknown user returns an empty graph", func(t *testing.T) {
		var graph models.UserGraph
		status := getJSON(t, srv.URL+"/users/ghost/graph", &graph)
		assert.Equal(t, http.StatusOK, status)
		assert.Zero(t, graph.NodeCount)
	})
}

func TestHandleUserConflicts(t *testing.T) {
	mem := store.NewMemory()
	edgeID := seedConflict(t, mem, "user-1")
	srv := newTestServer(t, mem, &fakeDrainer{healthy: true})

	t.Run("lists conflicts", func(t *testing.T) {
		var body struct {
			Conflicts []models.ConflictRecord `json:"conflicts"`
		}
		status := getJSON(t, srv.URL+"/users/user-1/conflicts", &body)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, body.Conflicts, 1)
		assert.Equal(t, edgeID, body.Conflicts[0].ConflictID)
		assert.Equal(t, "email", body.Conflicts[0].Attribute)
	})

	t.Run("no conflicts yields an empty array", func(t *testing.T) {
		var body map[string]json.RawMessage
		status := getJSON(t, srv.URL+"/users/ghost/conflicts", &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "[]", string(body["conflicts"]), "clients get an array, never null")
	})
}

func TestHandleNode(t *testing.T) {
	mem := store.NewMemory()
	srv := newTestServer(t, mem, &fakeDrainer{healthy: true})

	ctx := context.Background()
	_, err := mem.UpsertUser(ctx, "user-1")
	require.NoError(t, err)
	claim := models.NewClaimNode("email", "a@example.com")
	_, err = mem.CreateClaimNode(ctx, claim)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		var node models.Node
		status := getJSON(t, srv.URL+"/nodes/"+claim.NodeID, &node)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, models.NodeTypeClaim, node.NodeType)
	})

	t.Run("missing node is 404", func(t *testing.T) {
		var body map[string]string
		status := getJSON(t, srv.URL+"/nodes/no-such-node", &body)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", body["error"])
	})
}

func TestHandleEvent(t *testing.T) {
	mem := store.NewMemory()
	events := archive.NewMemory()
	srv := newTestServerWithEvents(t, mem, &fakeDrainer{healthy: true}, events)

	ctx := context.Background()
	require.NoError(t, events.Append(ctx, ingestmodels.Event{
		EventID:    "evt-1",
		UserID:     "user-1",
		SourceType: ingestmodels.SourceTypeVC,
		Payload:    json.RawMessage(`{"type":["VerifiableCredential"]}`),
		Timestamp:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}))

	t.Run("found", func(t *testing.T) {
		var event ingestmodels.Event
		status := getJSON(t, srv.URL+"/events/evt-1", &event)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "user-1", event.UserID)
		assert.Equal(t, ingestmodels.SourceTypeVC, event.SourceType)
	})

	t.Run("missing event is 404", func(t *testing.T) {
		var body map[string]string
		status := getJSON(t, srv.URL+"/events/no-such-event", &body)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", body["error"])
	})

	t.Run("no archive yields service unavailable", func(t *testing.T) {
		srv := newTestServerWithEvents(t, mem, &fakeDrainer{healthy: true}, nil)

		var body map[string]string
		status := getJSON(t, srv.URL+"/events/evt-1", &body)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestHandleUserEvents(t *testing.T) {
	mem := store.NewMemory()
	events := archive.NewMemory()
	srv := newTestServerWithEvents(t, mem, &fakeDrainer{healthy: true}, events)

	ctx := context.Background()
	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		require.NoError(t, events.Append(ctx, ingestmodels.Event{
			EventID:   id,
			UserID:    "user-1",
			Payload:   json.RawMessage(`{}`),
			Timestamp: time.Now().UTC(),
		}))
	}

	t.Run("lists newest first", func(t *testing.T) {
		var body struct {
			Events []ingestmodels.Event `json:"events"`
			Count  int                  `json:"count"`
		}
		status := getJSON(t, srv.URL+"/users/user-1/events", &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 3, body.Count)
		require.Len(t, body.Events, 3)
		assert.Equal(t, "evt-3", body.Events[0].EventID)
	})

	t.Run("honors the limit", func(t *testing.T) {
		var body struct {
			Events []ingestmodels.Event `json:"events"`
		}
		status := getJSON(t, srv.URL+"/users/user-1/events?limit=2", &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body.Events, 2)
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		var body map[string]string
		status := getJSON(t, srv.URL+"/users/user-1/events?limit=0", &body)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown user yields an empty array", func(t *testing.T) {
		var body map[string]json.RawMessage
		status := getJSON(t, srv.URL+"/users/ghost/events", &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "[]", string(body["events"]), "clients get an array, never null")
	})
}

func TestHandleResolveConflict(t *testing.T) {
	mem := store.NewMemory()
	edgeID := seedConflict(t, mem, "user-1")
	srv := newTestServer(t, mem, &fakeDrainer{healthy: true})

	t.Run("accepts a preferred claim", func(t *testing.T) {
		resp, err := http.Post(
			srv.URL+"/conflicts/"+edgeID+"/resolve",
			"application/json",
			strings.NewReader(`{"preferred_claim_id":"claim-1"}`),
		)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["resolved"])
		assert.Equal(t, edgeID, body["conflict_id"])
	})

	t.Run("missing preferred claim is a bad request", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/conflicts/x/resolve", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid body is a bad request", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/conflicts/x/resolve", "application/json", strings.NewReader(`not json`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleProcess(t *testing.T) {
	t.Run("drains up to max messages", func(t *testing.T) {
		drainer := &fakeDrainer{healthy: true, processed: 3}
		srv := newTestServer(t, store.NewMemory(), drainer)

		resp, err := http.Post(srv.URL+"/process?max=5", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 5, drainer.gotMax)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(3), body["messages_processed"])
	})

	t.Run("defaults max when absent", func(t *testing.T) {
		drainer := &fakeDrainer{healthy: true}
		srv := newTestServer(t, store.NewMemory(), drainer)

		resp, err := http.Post(srv.URL+"/process", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 100, drainer.gotMax)
	})

	t.Run("rejects a non-positive max", func(t *testing.T) {
		srv := newTestServer(t, store.NewMemory(), &fakeDrainer{healthy: true})

		for _, q := range []string{"max=0", "max=-1", "max=abc"} {
			resp, err := http.Post(srv.URL+"/process?"+q, "application/json", nil)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		}
	})

	t.Run("drain failure reports what was processed", func(t *testing.T) {
		drainer := &fakeDrainer{healthy: true, processed: 2, err: errors.New("channel closed")}
		srv := newTestServer(t, store.NewMemory(), drainer)

		resp, err := http.Post(srv.URL+"/process", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, float64(2), body["messages_processed"])
	})

	t.Run("no consumer yields service unavailable", func(t *testing.T) {
		srv := newTestServer(t, store.NewMemory(), nil)

		resp, err := http.Post(srv.URL+"/process", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, store.NewMemory(), &fakeDrainer{healthy: true})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
