package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/meltforce/fitlog/internal/config"
	"github.com/meltforce/fitlog/internal/suggest"
	"github.com/spf13/cobra"
)

var rulesOnly bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <exercise>",
	Short: "Print the next suggested exercise as JSON",
	Long:  "Resolve a suggestion for a single logged exercise. Useful to check the remote model configuration.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "skip the remote model")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	log := newLogger(os.Stderr)

	cfg, err := config.LoadSuggest(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	exercise := strings.Join(args, " ")
	var history []suggest.HistoryEntry
	if !rulesOnly {
		history = []suggest.HistoryEntry{{Exercise: exercise, Sets: 1, Timestamp: time.Now().UTC()}}
	}

	remote := suggest.NewRemoteClient(suggest.RemoteConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout(),
	})
	out := suggest.NewResolver(remote, log).ResolveOutcome(cmd.Context(), exercise, history)

	result := map[string]any{
		"source":     out.Source,
		"suggestion": out.Suggestion,
	}
	if out.Failure != 0 {
		result["remote_failure"] = out.Failure.String()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
