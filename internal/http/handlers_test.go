package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/thecooltechguy/smash-leaderboard/internal/config"
	"github.com/thecooltechguy/smash-leaderboard/internal/database"
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/notifier"
	"github.com/thecooltechguy/smash-leaderboard/internal/processor"
	"github.com/thecooltechguy/smash-leaderboard/internal/pubsub"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
	"github.com/thecooltechguy/smash-leaderboard/internal/standings"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier, slackSigningSecret string) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock()
	standingsSvc := standings.NewService(store, metricsSvc)
	proc := processor.New(store, notif, metricsSvc, ps, standingsSvc)
	server := NewServer(store, standingsSvc, metricsSvc, metricsHandler, cfg, notif, proc, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, teardown
}

func seedPlayers(t *testing.T, server *Server, ids ...string) {
	t.Helper()
	players := make([]smash.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, smash.Player{ID: id, Name: id})
	}
	require.NoError(t, server.Store.UpsertPlayers(players))
}

func seedDuel(t *testing.T, server *Server, matchID, winner, loser string, createdAt int64) {
	t.Helper()
	match := &smash.Match{ID: matchID, CreatedAt: createdAt}
	participants := []smash.Participant{
		{MatchID: matchID, PlayerID: winner, Character: "Fox", KOs: 3, HasWon: true},
		{MatchID: matchID, PlayerID: loser, Character: "Marth", KOs: 1, Falls: 3},
	}
	require.NoError(t, server.Store.AddMatch(match, participants))
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := strings.NewReader(form.Encode())
	req, err := http.NewRequest("POST", targetURL, body)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	bodyBytes, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))

	req.Header.Set("X-Slack-Signature", "v0="+signature)

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestStandingsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)
	seedDuel(t, server, "m2", "alice", "bob", 1700086400)

	req, err := http.NewRequest("GET", "/standings", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var result standings.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result.Leaderboard, 2)
	assert.Equal(t, "alice", result.Leaderboard[0].PlayerID)
	assert.Equal(t, 2, result.Leaderboard[0].Wins)
	assert.Equal(t, 2, result.Leaderboard[0].WinStreak)
	// Neither player has faced enough top opponents yet.
	assert.Len(t, result.Unranked, 2)
}

func TestUnrankedHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	req, err := http.NewRequest("GET", "/standings/unranked", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var unranked []standings.PlayerStanding
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &unranked))
	require.Len(t, unranked, 2)
	assert.False(t, unranked[0].Ranked)
}

func TestListPlayersHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")

	req, err := http.NewRequest("GET", "/players", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var players []smash.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 2)
	assert.Equal(t, smash.DefaultRating, players[0].Rating)
}

func TestPlayerStatsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	t.Run("found by fuzzy name", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players/stats?name=ali", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var standing standings.PlayerStanding
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standing))
		assert.Equal(t, "alice", standing.PlayerID)
		assert.Equal(t, 1, standing.Wins)
	})

	t.Run("missing name parameter", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players/stats", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players/stats?name=zelda", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMatchesHandler_List(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)
	seedDuel(t, server, "m2", "bob", "alice", 1700086400)

	req, err := http.NewRequest("GET", "/matches?limit=1", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var records []league.MatchRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "m2", records[0].Match.ID, "newest match should come first")
	assert.Len(t, records[0].Participants, 2)
}

func TestMatchesHandler_Record(t *testing.T) {
	t.Run("records a valid match", func(t *testing.T) {
		server, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()

		seedPlayers(t, server, "alice", "bob")

		payload := `{"participants":[
			{"player_id":"alice","character":"Fox","kos":3,"has_won":true},
			{"player_id":"bob","character":"Marth","kos":1,"falls":3}
		]}`
		req, err := http.NewRequest("POST", "/matches", strings.NewReader(payload))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["id"])

		records, err := server.Store.ListMatches(10, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, resp["id"], records[0].Match.ID)
		assert.Equal(t, smash.StatusNew, records[0].Match.ProcessingStatus)
	})

	t.Run("rejects unknown player", func(t *testing.T) {
		server, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()

		seedPlayers(t, server, "alice")

		payload := `{"participants":[
			{"player_id":"alice","has_won":true},
			{"player_id":"ghost"}
		]}`
		req, err := http.NewRequest("POST", "/matches", strings.NewReader(payload))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("accepts CPU participants without a player id", func(t *testing.T) {
		server, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()

		seedPlayers(t, server, "alice")

		payload := `{"participants":[
			{"player_id":"alice","has_won":true},
			{"is_cpu":true,"character":"Kirby"}
		]}`
		req, err := http.NewRequest("POST", "/matches", strings.NewReader(payload))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("dry run does not persist", func(t *testing.T) {
		server, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()

		seedPlayers(t, server, "alice", "bob")

		payload := `{"participants":[
			{"player_id":"alice","has_won":true},
			{"player_id":"bob"}
		]}`
		req, err := http.NewRequest("POST", "/matches?dry_run=true", strings.NewReader(payload))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		records, err := server.Store.ListMatches(10, 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestArchiveMatchHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	// Archiving removes the match from the standings aggregates.
	req, err := http.NewRequest("POST", "/matches/archive?matchID=m1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	result, err := server.Standings.Get()
	require.NoError(t, err)
	require.Len(t, result.Leaderboard, 2)
	assert.Zero(t, result.Leaderboard[0].Wins)

	// Unarchiving brings it back.
	req, err = http.NewRequest("POST", "/matches/unarchive?matchID=m1", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	result, err = server.Standings.Get()
	require.NoError(t, err)
	totalWins := 0
	for _, standing := range result.Leaderboard {
		totalWins += standing.Wins
	}
	assert.Equal(t, 1, totalWins)

	// Unknown match is a 404.
	req, err = http.NewRequest("POST", "/matches/archive?matchID=nope", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	req, err := http.NewRequest("POST", "/clear?matchID=m1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := server.Store.ListMatches(10, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	req, err = http.NewRequest("POST", "/clear", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	players, err := server.Store.GetAllPlayers()
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestProcessMatchesHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, teardown := setupTestServer(t, notif, "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", time.Now().Unix())

	req, err := http.NewRequest("POST", "/process", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, notif.SendResultNotificationCalls, 1, "Fresh match should be announced")

	records, err := server.Store.ListMatches(10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, smash.StatusCompleted, records[0].Match.ProcessingStatus)
}

func TestStandingsRefreshHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	packed, err := msgpack.Marshal(&pubsub.StandingsRefreshEvent{MatchID: "m1"})
	require.NoError(t, err)

	wrapper := map[string]any{
		"subscription": "projects/test/subscriptions/standings-refresh",
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString(packed),
		},
	}
	body, err := json.Marshal(wrapper)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/pubsub/standings-refresh", bytes.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "OK", rr.Body.String())
}

func TestInsightsHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	for _, path := range []string{"/insights/overall", "/insights/characters", "/insights/rivalries", "/insights/form"} {
		req, err := http.NewRequest("GET", path, nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "unexpected status for %s", path)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	}
}

func TestLeaderboardCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatLeaderboardResponseFunc = func(result *standings.Result) (any, error) {
		return slack.Message{}, nil
	}
	server, teardown := setupTestServer(t, mockNotifier, testSlackSigningSecret)
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	t.Run("valid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})

	t.Run("invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "wrong-secret")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	notif := notifier.NewMock()
	notif.FormatPlayerStatsResponseFunc = func(standing *standings.PlayerStanding, query string) (any, error) {
		return slack.Message{}, nil
	}
	notif.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		return slack.Message{}, nil
	}
	server, teardown := setupTestServer(t, notif, "")
	defer teardown()

	seedPlayers(t, server, "alice", "bob")
	seedDuel(t, server, "m1", "alice", "bob", 1700000000)

	t.Run("known player", func(t *testing.T) {
		form := url.Values{"text": {"alice"}}
		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.Len(t, notif.SendPlayerNotFoundCalls, 0)
		assert.NotNil(t, notif.LastPlayerStatsResponse)
	})

	t.Run("unknown player", func(t *testing.T) {
		form := url.Values{"text": {"zelda"}}
		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotNil(t, notif.LastPlayerNotFoundResponse)
	})

	t.Run("missing player name", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(""))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
