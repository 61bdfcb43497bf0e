package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/docproc/internal/processor"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <document.json>",
	Short: "Render a processed document as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		structure, err := readStructureJSON(args[0])
		if err != nil {
			return err
		}

		proc, err := processor.New(cfg)
		if err != nil {
			return err
		}

		md, err := proc.ExportMarkdown(structure, exportOut)
		if err != nil {
			return err
		}
		if exportOut == "" {
			fmt.Fprint(os.Stdout, md)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write Markdown to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
