package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var compareQari string

var compareCmd = &cobra.Command{
	Use:   "compare <recording.wav>",
	Short: "Compare a recitation against a stored Qari profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if compareQari == "" {
			return fmt.Errorf("--qari is required")
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		res, err := engine.Compare(cmd.Context(), args[0], compareQari)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareQari, "qari", "q", "", "name of the reference reciter")
	rootCmd.AddCommand(compareCmd)
}
