package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var dryRun bool

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the round without saving it")
	newSessionCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the rollover without saving it")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(removePlayerCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(newSessionCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(resetHistoryCmd)
	rootCmd.AddCommand(opsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player [name]",
	Short: "Add a player to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/players", map[string]string{"name": args[0]})
	},
}

var removePlayerCmd = &cobra.Command{
	Use:   "remove-player [id]",
	Short: "Remove a player from the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("player id must be an integer: %w", err)
		}
		return performDeleteRequest("/players?id=" + url.QueryEscape(args[0]))
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List all rounds in the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/rounds")
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the next round of games",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/rounds/generate"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performPostRequest(endpoint, nil)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score [round] [court] [team-a] [team-b]",
	Short: "Record the score for a game",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums := make([]int, 4)
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("argument %q must be an integer: %w", a, err)
			}
			nums[i] = n
		}
		return performPostRequest("/scores", map[string]int{
			"round_number": nums[0],
			"court":        nums[1],
			"team_a_score": nums[2],
			"team_b_score": nums[3],
		})
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the current session rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/rankings")
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current session number",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/session")
	},
}

var newSessionCmd = &cobra.Command{
	Use:   "new-session",
	Short: "Archive the current session and start a new one",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/session/new"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performPostRequest(endpoint, nil)
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List archived sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/sessions")
	},
}

var resetHistoryCmd = &cobra.Command{
	Use:   "reset-history",
	Short: "Reset the fairness history counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/history/reset", nil)
	},
}

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Show the persistent operation counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ops")
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

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := http.Post(url, "application/json", body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performDeleteRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
