package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
	"github.com/thecooltechguy/smash-leaderboard/internal/standings"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	rec := &league.MatchRecord{
		Match: smash.Match{ID: "m1", CreatedAt: 1700000000},
		Participants: []smash.Participant{
			{MatchID: "m1", PlayerID: "alice", Character: "Fox", KOs: 3, HasWon: true},
			{MatchID: "m1", PlayerID: "bob", Character: "Marth", KOs: 1},
		},
	}

	err := notifier.SendResultNotification(rec, map[string]string{"alice": "Alice", "bob": "Bob"}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatResultNotification(t *testing.T) {
	rec := &league.MatchRecord{
		Match: smash.Match{ID: "m1", CreatedAt: 1700000000},
		Participants: []smash.Participant{
			{MatchID: "m1", PlayerID: "bob", Character: "Marth", KOs: 1, Falls: 3},
			{MatchID: "m1", PlayerID: "alice", Character: "Fox", KOs: 3, Falls: 1, HasWon: true},
		},
	}

	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(rec, map[string]string{"alice": "Alice", "bob": "Bob"})
	require.Len(t, msg.Blocks.BlockSet, 3, "Expected header, time and result blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Match finished")

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, result.Text.Text, "Alice won!")
	// Winner is listed before the loser regardless of row order.
	assert.Less(t,
		strings.Index(result.Text.Text, "Alice"),
		strings.Index(result.Text.Text, "Bob"),
	)
}

func TestFormatResultNotification_CPUOpponent(t *testing.T) {
	rec := &league.MatchRecord{
		Match: smash.Match{ID: "m1", CreatedAt: 1700000000},
		Participants: []smash.Participant{
			{MatchID: "m1", PlayerID: "alice", Character: "Fox", HasWon: true},
			{MatchID: "m1", IsCPU: true, Character: "Kirby"},
		},
	}

	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(rec, map[string]string{"alice": "Alice"})

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, result.Text.Text, "CPU (Kirby)")
}

func TestFormatLeaderboard(t *testing.T) {
	result := &standings.Result{
		Leaderboard: []standings.PlayerStanding{
			{PlayerID: "alice", Name: "alice", DisplayName: "Alice", Rating: 1400, Wins: 8, Losses: 2, WinRate: 80.0, WinStreak: 3, Ranked: true},
			{PlayerID: "bob", Name: "bob", Rating: 1200, Wins: 2, Losses: 8, WinRate: 20.0},
		},
		Unranked: []standings.PlayerStanding{
			{PlayerID: "bob", Name: "bob", Rating: 1200},
		},
	}

	client := &Notifier{channelID: "C123"}
	msg := client.formatLeaderboard(result)
	// Header + one block per player + unranked context.
	require.Len(t, msg.Blocks.BlockSet, 4)

	first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, first.Text.Text, "1. 🥇 Alice")
	assert.Contains(t, first.Text.Text, "Rating: 1400")
	assert.Contains(t, first.Text.Text, "80.0% (8/10)")
}

func TestFormatLeaderboard_Empty(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatLeaderboard(&standings.Result{})
	require.Len(t, msg.Blocks.BlockSet, 2)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "No ranked players yet")
}

func TestFormatPlayerStats(t *testing.T) {
	standing := &standings.PlayerStanding{
		PlayerID:      "alice",
		Name:          "alice",
		DisplayName:   "Alice",
		Rating:        1400,
		Wins:          8,
		Losses:        2,
		WinRate:       80.0,
		KOs:           24,
		MainCharacter: "Fox",
		WinStreak:     3,
		Ranked:        true,
	}

	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerStats(standing, "ali")
	require.Len(t, msg.Blocks.BlockSet, 2)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Alice")

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "*Rating*: 1400 (Ranked)")
	assert.Contains(t, section.Text.Text, "*Main*: Fox")
}

func TestFormatPlayerNotFound(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerNotFound("zelda")
	require.Len(t, msg.Blocks.BlockSet, 1)

	section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "zelda")
}
