package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"github.com/thecooltechguy/smash-leaderboard/internal/insights"
	"github.com/thecooltechguy/smash-leaderboard/internal/pubsub"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			s.Standings.Invalidate()
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			s.Standings.Invalidate()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

// StandingsHandler serves the full standings: the rating-sorted leaderboard
// plus the unranked progress list.
func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.Standings.Get()
		if err != nil {
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			log.Error("Failed to compute standings", "error", err)
			return
		}
		respondJSON(w, result)
	}
}

// UnrankedHandler serves only the unranked players, closest to qualifying first.
func (s *Server) UnrankedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.Standings.Get()
		if err != nil {
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			log.Error("Failed to compute standings", "error", err)
			return
		}
		respondJSON(w, result.Unranked)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		respondJSON(w, players)
	}
}

// PlayerStatsHandler serves one player's standing, looked up by (fuzzy) name.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Query parameter 'name' is required", http.StatusBadRequest)
			return
		}

		player, err := s.Store.GetPlayerByName(name)
		if err != nil {
			http.Error(w, "Player not found", http.StatusNotFound)
			log.Warn("Player lookup failed", "name", name, "error", err)
			return
		}

		standing, err := s.Standings.ForPlayer(player.ID)
		if err != nil {
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			log.Error("Failed to compute standings", "error", err)
			return
		}
		if standing == nil {
			http.Error(w, "Player has no standing yet", http.StatusNotFound)
			return
		}
		respondJSON(w, standing)
	}
}

// MatchesHandler lists recorded matches on GET and records a new one on POST.
func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.addMatch(w, r)
		default:
			s.listMatches(w, r)
		}
	}
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	matches, err := s.Store.ListMatches(limit, offset)
	if err != nil {
		http.Error(w, "Failed to get matches", http.StatusInternalServerError)
		log.Error("Failed to get matches from store", "error", err)
		return
	}
	respondJSON(w, matches)
}

type addMatchRequest struct {
	CreatedAt    int64 `json:"created_at"`
	Participants []struct {
		PlayerID      string `json:"player_id"`
		Character     string `json:"character"`
		IsCPU         bool   `json:"is_cpu"`
		KOs           int    `json:"kos"`
		Falls         int    `json:"falls"`
		SelfDestructs int    `json:"self_destructs"`
		HasWon        bool   `json:"has_won"`
	} `json:"participants"`
}

func (s *Server) addMatch(w http.ResponseWriter, r *http.Request) {
	var req addMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if len(req.Participants) == 0 {
		http.Error(w, "At least one participant is required", http.StatusBadRequest)
		return
	}

	match := &smash.Match{
		ID:        uuid.NewString(),
		CreatedAt: req.CreatedAt,
	}
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}

	participants := make([]smash.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		if !p.IsCPU {
			if p.PlayerID == "" {
				http.Error(w, "Non-CPU participants need a player_id", http.StatusBadRequest)
				return
			}
			if !s.Store.IsKnownPlayer(p.PlayerID) {
				http.Error(w, fmt.Sprintf("Unknown player %s", p.PlayerID), http.StatusBadRequest)
				return
			}
		}
		participants = append(participants, smash.Participant{
			MatchID:       match.ID,
			PlayerID:      p.PlayerID,
			Character:     p.Character,
			IsCPU:         p.IsCPU,
			KOs:           p.KOs,
			Falls:         p.Falls,
			SelfDestructs: p.SelfDestructs,
			HasWon:        p.HasWon,
		})
	}

	if isDryRunFromContext(r) {
		log.Info("[Dry Run] Would record match", "matchID", match.ID, "participants", len(participants))
		respondCreated(w, match.ID)
		return
	}

	if err := s.Store.AddMatch(match, participants); err != nil {
		http.Error(w, "Failed to record match", http.StatusInternalServerError)
		log.Error("Failed to record match", "error", err, "matchID", match.ID)
		return
	}
	s.Metrics.IncMatchesRecorded()
	s.Standings.Invalidate()

	log.Info("Recorded match", "matchID", match.ID, "participants", len(participants))
	respondCreated(w, match.ID)
}

func respondCreated(w http.ResponseWriter, matchID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"id": matchID}); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// ArchiveMatchHandler toggles a match's archived flag. Archived matches vanish
// from standings and insights but remain in the match history.
func (s *Server) ArchiveMatchHandler(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "Query parameter 'matchID' is required", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would update archived flag", "matchID", matchID, "archived", archived)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "OK")
			return
		}

		if err := s.Store.SetMatchArchived(matchID, archived); err != nil {
			http.Error(w, "Match not found", http.StatusNotFound)
			log.Warn("Failed to update archived flag", "error", err, "matchID", matchID)
			return
		}
		s.Standings.Invalidate()

		log.Info("Updated archived flag", "matchID", matchID, "archived", archived)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match processing...")
		isDryRun := isDryRunFromContext(r)

		s.Processor.ProcessMatches(isDryRun)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match processing completed.")
		log.Info("Match processing finished.")
	}
}

// StandingsRefreshHandler receives pubsub push messages asking for a
// standings recompute.
func (s *Server) StandingsRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received standings refresh message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		event := pubsub.StandingsRefreshEvent{}
		s.pubsub.ProcessMessage(rawData, &event)

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would refresh standings", "matchID", event.MatchID)
			w.Write([]byte("OK"))
			return
		}

		s.Standings.Invalidate()
		if _, err := s.Standings.Get(); err != nil {
			log.Error("Failed to recompute standings", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to recompute standings", http.StatusInternalServerError)
			return
		}
		log.Info("Standings refreshed", "matchID", event.MatchID)
		w.Write([]byte("OK"))
	}
}

func (s *Server) OverallInsightsHandler() http.HandlerFunc {
	return s.insightsHandler(func(snap *smash.Snapshot) any { return insights.Overall(snap) })
}

func (s *Server) CharacterInsightsHandler() http.HandlerFunc {
	return s.insightsHandler(func(snap *smash.Snapshot) any { return insights.Characters(snap) })
}

func (s *Server) RivalryInsightsHandler() http.HandlerFunc {
	return s.insightsHandler(func(snap *smash.Snapshot) any { return insights.Rivalries(snap) })
}

func (s *Server) FormInsightsHandler() http.HandlerFunc {
	return s.insightsHandler(func(snap *smash.Snapshot) any { return insights.Form(snap) })
}

func (s *Server) insightsHandler(compute func(*smash.Snapshot) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.Store.Snapshot()
		if err != nil {
			http.Error(w, "Failed to read snapshot", http.StatusInternalServerError)
			log.Error("Failed to read snapshot for insights", "error", err)
			return
		}
		respondJSON(w, compute(snap))
	}
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}
