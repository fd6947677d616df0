package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank"
	chiTransport "github.com/kailas-cloud/clientrank/internal/transport/chi"
)

var (
	rankInput  string
	rankNow    string
	rankPretty bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a client snapshot and print the result as JSON",
	Long: `Rank reads a snapshot in the POST /v1/rank body format (clients, tasks,
appointments, alerts, health, semanticResults, query, filters, recentOnly)
and prints the ranked list.

Examples:
  clientrank rank --input book.json
  cat book.json | clientrank rank --now 2024-06-15T12:00:00Z --pretty`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankInput, "input", "-", "Snapshot file, - for stdin")
	rankCmd.Flags().StringVar(&rankNow, "now", "", "Evaluate time predicates at this RFC3339 instant")
	rankCmd.Flags().BoolVar(&rankPretty, "pretty", false, "Indent output")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, logger, _, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := readInput(cmd.InOrStdin(), rankInput)
	if err != nil {
		return err
	}
	req, err := chiTransport.DecodeRankRequest(data)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if rankNow != "" {
		at, err := time.Parse(time.RFC3339, rankNow)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		req.Now = &at
	}

	ctx := cmd.Context()
	// a one-shot ranking only needs storage for recentOnly; degrade instead of failing
	c, err := newSDKClient(ctx, cfg, logger, clientrank.WithSoftStart())
	if err != nil {
		return err
	}
	defer c.Close()

	in, dropped, err := req.ToInput(c.DefaultFilters())
	if err != nil {
		return err
	}
	res := c.Rank(ctx, in)
	logger.Debug("Ranked snapshot",
		zap.Int("returned", len(res.Items)),
		zap.Int("dropped", dropped),
	)

	return printJSON(cmd.OutOrStdout(), chiTransport.NewRankResponse(res, dropped), rankPretty)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" || path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
