package processor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/pubsub"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, standings Standings) *Processor {
	return &Processor{
		store:     store,
		notifier:  notifier,
		metrics:   metrics,
		pubsub:    pubsub,
		standings: standings,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for i := range matches {
		startTime := time.Now()
		p.processMatch(&matches[i], dryRun)
		duration := time.Since(startTime).Milliseconds()
		p.metrics.ObserveProcessingDuration(float64(duration))
		p.metrics.IncMatchesProcessed()
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(match *smash.Match, dryRun bool) {
	log.Info("Processing match", "matchID", match.ID, "initial_status", match.ProcessingStatus, "archived", match.Archived)
	for {
		currentState := match.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", match.ID, "status", currentState)

		switch currentState {
		case smash.StatusNew:
			if match.Archived {
				// Archived matches never feed notifications or standings.
				log.Info("Match is archived. Setting match to completed.", "matchID", match.ID)
				p.updateStatus(match, smash.StatusCompleted, dryRun)
				break
			}

			// Old matches are ingested silently so historic data can be
			// backfilled without spamming the channel.
			recordedAt := time.Unix(match.CreatedAt, 0)
			if time.Since(recordedAt) < 24*time.Hour {
				log.Info("Match is new. Sending result notification.", "matchID", match.ID)
				rec, err := p.store.GetMatch(match.ID)
				if err != nil {
					log.Error("Failed to load match for notification", "error", err, "matchID", match.ID)
					return
				}
				names, err := p.playerNames()
				if err != nil {
					log.Error("Failed to load player names for notification", "error", err, "matchID", match.ID)
					return
				}
				if err := p.notifier.SendResultNotification(rec, names, dryRun); err != nil {
					log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
				}
			} else {
				log.Info("Match is older than a day. Skipping result notification.", "matchID", match.ID)
			}
			p.updateStatus(match, smash.StatusResultNotified, dryRun)

		case smash.StatusResultNotified:
			log.Info("Match result has been notified. Refreshing standings.", "matchID", match.ID)
			if !dryRun {
				p.pubsub.SendMessage(pubsub.EventStandingsRefresh, &pubsub.StandingsRefreshEvent{MatchID: match.ID})
				p.standings.Invalidate()
			}
			p.updateStatus(match, smash.StatusStandingsRefreshed, dryRun)

		case smash.StatusStandingsRefreshed:
			log.Info("Standings refreshed. Marking match as complete.", "matchID", match.ID)
			p.updateStatus(match, smash.StatusCompleted, dryRun)

		case smash.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", match.ID)
			return // End of the line for this match

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", match.ID)
			return // Exit if status is unknown
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.ID, "final_status", match.ProcessingStatus)
}

func (p *Processor) playerNames() (map[string]string, error) {
	players, err := p.store.GetAllPlayers()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(players))
	for _, player := range players {
		name := player.DisplayName
		if name == "" {
			name = player.Name
		}
		names[player.ID] = name
	}
	return names, nil
}

func (p *Processor) updateStatus(match *smash.Match, newStatus smash.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(match.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", match.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}
