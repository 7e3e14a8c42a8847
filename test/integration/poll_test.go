package integration

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/sudheer2004/PollProject/internal/adapters/handler/http"
	"github.com/sudheer2004/PollProject/internal/adapters/handler/ws"
	repo "github.com/sudheer2004/PollProject/internal/adapters/repository/postgres"
	"github.com/sudheer2004/PollProject/internal/core/domain"
	"github.com/sudheer2004/PollProject/internal/core/services"
)

// TestArchiveRoundTrip verifies a snapshot survives the trip through the
// postgres archive: poll row, options with vote counts in position order,
// and individual answers.
func TestArchiveRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupDB(t)
	archive := repo.NewArchiveRepository(db)
	ctx := context.Background()

	ended := time.Now().UTC().Truncate(time.Millisecond)
	snap := &domain.PollSnapshot{
		ID:            uuid.New(),
		Sequence:      1,
		Question:      "Mars or Venus?",
		Options:       []string{"Mars", "Venus"},
		CorrectAnswer: "Mars",
		Results:       map[string]int{"Mars": 2, "Venus": 1},
		Responses: []domain.Answer{
			{StudentName: "Alice", Option: "Mars", SubmittedAt: ended.Add(-20 * time.Second)},
			{StudentName: "Bob", Option: "Venus", SubmittedAt: ended.Add(-10 * time.Second)},
			{StudentName: "Carol", Option: "Mars", SubmittedAt: ended.Add(-5 * time.Second)},
		},
		TimeLimit:      30,
		CreatedAt:      ended.Add(-30 * time.Second),
		EndedAt:        ended,
		AutoEnded:      true,
		TotalStudents:  3,
		TotalResponses: 3,
	}

	require.NoError(t, archive.Save(ctx, snap))

	snaps, err := archive.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	got := snaps[0]
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, int64(1), got.Sequence)
	assert.Equal(t, "Mars or Venus?", got.Question)
	assert.Equal(t, "Mars", got.CorrectAnswer)
	assert.Equal(t, []string{"Mars", "Venus"}, got.Options)
	assert.Equal(t, map[string]int{"Mars": 2, "Venus": 1}, got.Results)
	assert.Equal(t, 30, got.TimeLimit)
	assert.True(t, got.AutoEnded)
	assert.Equal(t, 3, got.TotalStudents)
	assert.Equal(t, 3, got.TotalResponses)

	require.Len(t, got.Responses, 3)
	assert.Equal(t, "Alice", got.Responses[0].StudentName)
	assert.Equal(t, "Carol", got.Responses[2].StudentName)
}

// TestGetRecentOrderAndLimit confirms newest-first ordering and the limit.
func TestGetRecentOrderAndLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupDB(t)
	archive := repo.NewArchiveRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 1; i <= 3; i++ {
		snap := &domain.PollSnapshot{
			ID:        uuid.New(),
			Sequence:  int64(i),
			Question:  "Q",
			Options:   []string{"A", "B"},
			Results:   map[string]int{"A": 0, "B": 0},
			TimeLimit: 60,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		require.NoError(t, archive.Save(ctx, snap))
	}

	snaps, err := archive.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, int64(3), snaps[0].Sequence)
	assert.Equal(t, int64(2), snaps[1].Sequence)
}

// TestPollSessionFlow exercises the full stack: websocket clients against
// the real router, with completed polls landing in postgres and coming
// back through both the websocket history event and the REST endpoint.
func TestPollSessionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupDB(t)
	archive := repo.NewArchiveRepository(db)

	gateway := ws.NewGateway()
	engine := services.NewPollEngine(gateway, archive)
	gateway.Bind(engine)

	router := handler.NewHandler(handler.NewPollHandler(engine), gateway)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	presenter := dialWS(t, wsURL)
	alice := dialWS(t, wsURL)

	// Alice joins the session.
	sendWS(t, alice, domain.EventJoinPoll, map[string]string{"studentName": "Alice"})
	var update domain.StudentUpdate
	readWSUntil(t, presenter, domain.EventStudentUpdate, &update)
	if update.TotalStudents == 0 {
		readWSUntil(t, presenter, domain.EventStudentUpdate, &update)
	}
	require.Equal(t, 1, update.TotalStudents)

	// The presenter starts a poll and Alice answers.
	sendWS(t, presenter, domain.EventQuestionStarted, map[string]any{
		"question":      "Mars or Venus?",
		"options":       []string{"Mars", "Venus"},
		"timeLimit":     30,
		"correctAnswer": "Mars",
	})
	var started domain.QuestionStarted
	readWSUntil(t, alice, domain.EventQuestionStarted, &started)
	require.Equal(t, "Mars or Venus?", started.Question)

	sendWS(t, alice, domain.EventSubmitAnswer, map[string]string{"studentName": "Alice", "answer": "Mars"})
	var results map[string]int
	readWSUntil(t, presenter, domain.EventPollResults, &results)
	require.Equal(t, map[string]int{"Mars": 1, "Venus": 0}, results)

	// Everyone answered, so the poll ends on its own after the grace delay.
	var ended domain.PollEnded
	readWSUntil(t, presenter, domain.EventPollEnded, &ended)
	assert.Equal(t, "Mars", ended.CorrectAnswer)
	assert.Equal(t, 1, ended.TotalResponses)
	assert.False(t, ended.AutoEnded)

	// The archived poll is visible over the websocket history event.
	require.Eventually(t, func() bool {
		sendWS(t, presenter, domain.EventGetPollHistory, nil)
		var history []domain.PollSnapshot
		readWSUntil(t, presenter, domain.EventPollHistory, &history)
		return len(history) == 1 && history[0].Question == "Mars or Venus?"
	}, 5*time.Second, 200*time.Millisecond)

	// And over REST.
	resp, err := server.Client().Get(server.URL + "/api/polls")
	require.NoError(t, err)
	defer resp.Body.Close()
	var history []domain.PollSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, map[string]int{"Mars": 1, "Venus": 0}, history[0].Results)
}

type wsEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(wsEnvelope{Event: event, Data: data}))
}

func readWSUntil(t *testing.T, conn *websocket.Conn, event string, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var env wsEnvelope
		require.NoError(t, conn.ReadJSON(&env), "waiting for %s", event)
		if env.Event == event {
			require.NoError(t, json.Unmarshal(env.Data, v))
			return
		}
	}
}
