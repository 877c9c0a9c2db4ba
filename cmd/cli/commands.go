package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(unrankedCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerStatsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the current leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/standings")
	},
}

var unrankedCmd = &cobra.Command{
	Use:   "unranked",
	Short: "Show unranked players and their qualification progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/standings/unranked")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var playerStatsCmd = &cobra.Command{
	Use:   "stats [player name]",
	Short: "Show a single player's standing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/stats?name=" + url.QueryEscape(args[0]))
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the match processing lifecycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/process")
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights [overall|characters|rivalries|form]",
	Short: "Show league insights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/insights/" + args[0])
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
