package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/chunker"
)

var chunkOut string

var chunkCmd = &cobra.Command{
	Use:   "chunk <document.json>",
	Short: "Split a processed document into retrieval chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		structure, err := readStructureJSON(args[0])
		if err != nil {
			return err
		}

		outDir := chunkOut
		if outDir == "" {
			outDir = filepath.Join(filepath.Dir(args[0]), "chunks")
		}

		c := chunker.New(cfg.Chunker)
		chunks := c.Chunk(structure)

		manifest, err := c.WriteChunks(outDir, structure.Title, chunks)
		if err != nil {
			return err
		}

		zap.L().Info("chunks written",
			zap.String("dir", outDir),
			zap.Int("chunks", manifest.TotalChunks),
			zap.Int("max_tokens", manifest.MaxTokens),
		)
		return nil
	},
}

func init() {
	chunkCmd.Flags().StringVar(&chunkOut, "out", "", "chunk output directory (default <document dir>/chunks)")
	rootCmd.AddCommand(chunkCmd)
}
