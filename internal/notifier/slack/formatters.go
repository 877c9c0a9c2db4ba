package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/standings"
)

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(rec *league.MatchRecord, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🎮 Match finished! 🎮", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	timeStr := time.Unix(rec.Match.CreatedAt, 0).Format("Monday 02 Jan, 15:04")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", timeStr, false, false), nil, nil))

	// Per-player lines, winner first.
	var winnerName string
	var lines []string
	for _, pass := range []bool{true, false} {
		for _, part := range rec.Participants {
			if part.HasWon != pass {
				continue
			}
			name := names[part.PlayerID]
			if part.IsCPU {
				name = "CPU"
			} else if name == "" {
				name = part.PlayerID
			}
			if part.HasWon && winnerName == "" && !part.IsCPU {
				winnerName = name
			}
			character := part.Character
			if character == "" {
				character = "?"
			}
			lines = append(lines, fmt.Sprintf("• %s (%s) — %d KOs, %d falls, %d SDs",
				name, character, part.KOs, part.Falls, part.SelfDestructs))
		}
	}

	resultHeader := "Result:"
	if winnerName != "" {
		resultHeader = fmt.Sprintf("Result: %s won! 🏆", winnerName)
	}

	if len(lines) > 0 {
		text := resultHeader + "\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Result: No participants recorded.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the current standings.
func (s *Notifier) formatLeaderboard(result *standings.Result) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 Smash Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if result == nil || len(result.Leaderboard) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No ranked players yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, standing := range result.Leaderboard {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		name := standing.DisplayName
		if name == "" {
			name = standing.Name
		}
		playerText := fmt.Sprintf("%d. %s %s\n> Rating: %d | Win %%: %.1f%% (%d/%d) | Streak: %d",
			rank,
			medal,
			name,
			standing.Rating,
			standing.WinRate,
			standing.Wins,
			standing.Wins+standing.Losses,
			standing.WinStreak,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	if n := len(result.Unranked); n > 0 {
		contextText := fmt.Sprintf("%d unranked player(s) still working towards a ranking.", n)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's standing.
func (s *Notifier) formatPlayerStats(standing *standings.PlayerStanding, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	name := standing.DisplayName
	if name == "" {
		name = standing.Name
	}

	// Header
	headerText := fmt.Sprintf("🎮 Stats for %s 🎮", name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	rankedText := "Unranked"
	if standing.Ranked {
		rankedText = "Ranked"
	}
	main := standing.MainCharacter
	if main == "" {
		main = "—"
	}
	playerText := fmt.Sprintf("> *Rating*: %d (%s)\n> *Win %%*: %.1f%% (%d/%d)\n> *Main*: %s\n> *KOs*: %d\n> *Win Streak*: %d",
		standing.Rating,
		rankedText,
		standing.WinRate,
		standing.Wins,
		standing.Wins+standing.Losses,
		main,
		standing.KOs,
		standing.WinStreak,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
