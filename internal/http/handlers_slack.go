package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// verifySlackSignature checks the request against the configured signing
// secret. Verification is skipped when no secret is configured, which keeps
// local development and tests simple.
func (s *Server) verifySlackSignature(w http.ResponseWriter, r *http.Request) bool {
	secret := s.Cfg.Slack.SigningSecret
	if secret == "" {
		return true
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, secret)
	if err != nil {
		log.Error("Failed to create Slack secrets verifier", "error", err)
		http.Error(w, "Invalid Slack signature headers", http.StatusBadRequest)
		return false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return false
	}
	// Restore the body so the handler can still parse the form.
	r.Body = io.NopCloser(bytes.NewReader(body))

	if _, err := verifier.Write(body); err != nil {
		http.Error(w, "Failed to verify request", http.StatusInternalServerError)
		return false
	}
	if err := verifier.Ensure(); err != nil {
		log.Warn("Rejected Slack request with bad signature", "error", err)
		http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
		return false
	}
	return true
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.verifySlackSignature(w, r) {
			return
		}

		result, err := s.Standings.Get()
		if err != nil {
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			log.Error("Failed to compute standings", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(result)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.verifySlackSignature(w, r) {
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)

		var msg any
		player, lookupErr := s.Store.GetPlayerByName(playerName)
		var err error
		if lookupErr != nil {
			log.Warn("Could not find player", "player", playerName, "error", lookupErr)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		} else {
			standing, standingErr := s.Standings.ForPlayer(player.ID)
			if standingErr != nil {
				http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
				log.Error("Failed to compute standings", "error", standingErr)
				return
			}
			if standing == nil {
				msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
			} else {
				msg, err = s.Notifier.FormatPlayerStatsResponse(standing, playerName)
			}
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
