package processor

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/model"
)

// ExportMarkdown writes the structure's Markdown rendering to outputFile and
// returns the content. An empty outputFile renders without writing. When the
// engine produced no Markdown, a minimal rendering is synthesized from the
// structure itself.
func (p *Processor) ExportMarkdown(structure *model.DocumentStructure, outputFile string) (string, error) {
	content := structure.MarkdownContent
	if content == "" {
		content = markdownFromStructure(structure)
	}
	if outputFile == "" {
		return content, nil
	}

	if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
		zap.L().Error("markdown export failed", zap.String("path", outputFile), zap.Error(err))
		return "", eris.Wrapf(err, "processor: write markdown %s", outputFile)
	}

	zap.L().Info("markdown exported", zap.String("path", outputFile), zap.Int("bytes", len(content)))
	return content, nil
}

// markdownFromStructure synthesizes Markdown from the normalized record:
// title, authors, sections by heading level, and a tables appendix.
func markdownFromStructure(structure *model.DocumentStructure) string {
	var b strings.Builder

	if structure.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", structure.Title)
	}

	if len(structure.Authors) > 0 {
		fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(structure.Authors, ", "))
	}

	for _, s := range structure.Sections {
		level := s.Level + 1
		if level < 2 {
			level = 2
		}
		if level > 6 {
			level = 6
		}
		title := s.Title
		if title == "" {
			title = "Untitled Section"
		}
		fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), title)
		if s.Content != "" {
			b.WriteString(s.Content)
			b.WriteString("\n\n")
		}
	}

	if len(structure.Tables) > 0 {
		b.WriteString("## Tables\n\n")
		for i, t := range structure.Tables {
			fmt.Fprintf(&b, "### Table %d\n\n", i+1)
			fmt.Fprintf(&b, "Page: %d\n\n", t.Page)
			if t.FilePath != "" {
				fmt.Fprintf(&b, "Data file: %s\n\n", t.FilePath)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
