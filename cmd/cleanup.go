package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/docproc/internal/processor"
)

var cleanupKeepMain bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <output-dir>",
	Short: "Remove intermediate files from an output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proc, err := processor.New(cfg)
		if err != nil {
			return err
		}
		proc.CleanupTempFiles(args[0], cleanupKeepMain)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupKeepMain, "keep-main", true, "keep .md and .json files")
	rootCmd.AddCommand(cleanupCmd)
}
