package main

import (
	"github.com/spf13/cobra"
)

var recentPretty bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Inspect or update the recently opened clients",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the recent history as a JSON map of client id to epoch millis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, _, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		c, err := newSDKClient(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		return printJSON(cmd.OutOrStdout(), c.Recent(cmd.Context()), recentPretty)
	},
}

var recentTouchCmd = &cobra.Command{
	Use:   "touch <client-id>",
	Short: "Record that a client was opened now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, _, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		c, err := newSDKClient(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		return c.TouchRecent(cmd.Context(), args[0])
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recently opened client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, _, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		c, err := newSDKClient(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		return c.ClearRecent(cmd.Context())
	},
}

func init() {
	recentListCmd.Flags().BoolVar(&recentPretty, "pretty", false, "Indent output")
	recentCmd.AddCommand(recentListCmd, recentTouchCmd, recentClearCmd)
	rootCmd.AddCommand(recentCmd)
}
