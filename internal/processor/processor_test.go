package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/notifier"
	"github.com/thecooltechguy/smash-leaderboard/internal/pubsub"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

type fakeStandings struct {
	invalidations int
}

func (f *fakeStandings) Invalidate() { f.invalidations++ }

func newTestMatch(status smash.ProcessingStatus, createdAt int64) smash.Match {
	return smash.Match{
		ID:               "m1",
		CreatedAt:        createdAt,
		ProcessingStatus: status,
	}
}

func TestProcessor_ProcessMatches(t *testing.T) {
	t.Run("fresh match runs the full lifecycle", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		st := &fakeStandings{}
		p := New(store, notif, metr, ps, st)

		match := newTestMatch(smash.StatusNew, time.Now().Unix())
		store.GetMatchesForProcessingFunc = func() ([]smash.Match, error) {
			return []smash.Match{match}, nil
		}
		store.GetMatchFunc = func(matchID string) (*league.MatchRecord, error) {
			return &league.MatchRecord{
				Match: match,
				Participants: []smash.Participant{
					{MatchID: "m1", PlayerID: "alice", HasWon: true},
					{MatchID: "m1", PlayerID: "bob"},
				},
			}, nil
		}
		store.GetAllPlayersFunc = func() ([]smash.Player, error) {
			return []smash.Player{{ID: "alice", Name: "alice"}, {ID: "bob", Name: "bob"}}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendResultNotificationCalls, 1, "A result notification should be sent")
		assert.Equal(t, "m1", notif.SendResultNotificationCalls[0].Record.Match.ID)

		require.Len(t, ps.SendMessageCalls, 1, "A standings refresh event should be published")
		assert.Equal(t, string(pubsub.EventStandingsRefresh), ps.SendMessageCalls[0].Topic)
		event, ok := ps.SendMessageCalls[0].Data.(*pubsub.StandingsRefreshEvent)
		require.True(t, ok, "Data sent to pubsub should be a StandingsRefreshEvent")
		assert.Equal(t, "m1", event.MatchID)

		assert.Equal(t, 1, st.invalidations, "Standings cache should be invalidated once")

		require.Len(t, store.UpdateProcessingStatusCalls, 3, "Status should be updated three times")
		assert.Equal(t, smash.StatusResultNotified, store.UpdateProcessingStatusCalls[0].Status)
		assert.Equal(t, smash.StatusStandingsRefreshed, store.UpdateProcessingStatusCalls[1].Status)
		assert.Equal(t, smash.StatusCompleted, store.UpdateProcessingStatusCalls[2].Status)

		assert.Equal(t, 1, metr.MatchesProcessed())
	})

	t.Run("archived match completes without notifications", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		st := &fakeStandings{}
		p := New(store, notif, metr, ps, st)

		match := newTestMatch(smash.StatusNew, time.Now().Unix())
		match.Archived = true
		store.GetMatchesForProcessingFunc = func() ([]smash.Match, error) {
			return []smash.Match{match}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendResultNotificationCalls, 0, "No result notification should be sent")
		require.Len(t, ps.SendMessageCalls, 0, "No pubsub event should be published")
		assert.Zero(t, st.invalidations)
		require.Len(t, store.UpdateProcessingStatusCalls, 1, "Status should jump straight to completed")
		assert.Equal(t, smash.StatusCompleted, store.UpdateProcessingStatusCalls[0].Status)
	})

	t.Run("old match refreshes standings without notifying", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		st := &fakeStandings{}
		p := New(store, notif, metr, ps, st)

		// Recorded two days ago, e.g. a backfill import.
		match := newTestMatch(smash.StatusNew, time.Now().Add(-48*time.Hour).Unix())
		store.GetMatchesForProcessingFunc = func() ([]smash.Match, error) {
			return []smash.Match{match}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendResultNotificationCalls, 0, "No result notification should be sent for old matches")
		require.Len(t, ps.SendMessageCalls, 1, "Standings should still be refreshed")
		assert.Equal(t, 1, st.invalidations)
		require.Len(t, store.UpdateProcessingStatusCalls, 3)
		assert.Equal(t, smash.StatusCompleted, store.UpdateProcessingStatusCalls[2].Status)
	})

	t.Run("match resumes mid-lifecycle", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		st := &fakeStandings{}
		p := New(store, notif, metr, ps, st)

		match := newTestMatch(smash.StatusResultNotified, time.Now().Unix())
		store.GetMatchesForProcessingFunc = func() ([]smash.Match, error) {
			return []smash.Match{match}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, notif.SendResultNotificationCalls, 0, "Result notification should not be sent again")
		require.Len(t, ps.SendMessageCalls, 1)
		require.Len(t, store.UpdateProcessingStatusCalls, 2)
		assert.Equal(t, smash.StatusStandingsRefreshed, store.UpdateProcessingStatusCalls[0].Status)
		assert.Equal(t, smash.StatusCompleted, store.UpdateProcessingStatusCalls[1].Status)
	})

	t.Run("dry run advances in memory without side effects", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		st := &fakeStandings{}
		p := New(store, notif, metr, ps, st)

		match := newTestMatch(smash.StatusResultNotified, time.Now().Unix())
		store.GetMatchesForProcessingFunc = func() ([]smash.Match, error) {
			return []smash.Match{match}, nil
		}

		p.ProcessMatches(true)

		require.Len(t, ps.SendMessageCalls, 0, "Dry run must not publish events")
		assert.Zero(t, st.invalidations, "Dry run must not invalidate the cache")
		require.Len(t, store.UpdateProcessingStatusCalls, 0, "Dry run must not write status updates")
	})

	t.Run("no matches is a no-op", func(t *testing.T) {
		store := league.NewMock()
		p := New(store, notifier.NewMock(), metrics.NewMock(), pubsub.NewMock(), &fakeStandings{})

		p.ProcessMatches(false)

		require.Len(t, store.UpdateProcessingStatusCalls, 0)
	})
}
