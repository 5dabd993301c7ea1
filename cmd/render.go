package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chesskit/studytree/api"
	"github.com/chesskit/studytree/internal/tree"
	"github.com/chesskit/studytree/internal/view"
	"github.com/chesskit/studytree/internal/wire"
)

var (
	renderPath   string
	renderJSON   bool
	renderConfig string
	showComputer bool
	showGlyphs   bool
	showComments bool
)

var renderCmd = &cobra.Command{
	Use:   "render [tree.json]",
	Short: "Project a game tree into its display layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read tree: %w", err)
		}
		root, err := wire.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("parse tree: %w", err)
		}

		cfg := view.DefaultConfig()
		if renderConfig != "" {
			dc, err := loadDisplayConfig(renderConfig)
			if err != nil {
				return err
			}
			dc.apply(&cfg)
		}
		// Explicit flags win over the config file.
		if cmd.Flags().Changed("show-computer") {
			cfg.ShowComputer = showComputer
		}
		if cmd.Flags().Changed("show-glyphs") {
			cfg.ShowGlyphs = showGlyphs
		}
		if cmd.Flags().Changed("show-comments") {
			cfg.ShowComments = showComments
		}
		if renderPath != "" {
			cfg.Path = tree.ParsePath(renderPath)
		}

		cells := view.Render(cfg, root)
		logger.Debug("rendered tree",
			zap.Int("cells", len(cells)),
			zap.String("path", cfg.Path.String()))

		if renderJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cells)
		}
		writeCells(cmd.OutOrStdout(), cells, 0)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderPath, "path", "p", "", "Current display path (concatenated node ids)")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Emit the cell structure as JSON")
	renderCmd.Flags().StringVarP(&renderConfig, "config", "c", "", "Path to a YAML display config")
	renderCmd.Flags().BoolVar(&showComputer, "show-computer", true, "Include computer-generated branches")
	renderCmd.Flags().BoolVar(&showGlyphs, "show-glyphs", true, "Append glyph symbols to variation moves")
	renderCmd.Flags().BoolVar(&showComments, "show-comments", true, "Render comment callouts")
	rootCmd.AddCommand(renderCmd)
}

// writeCells prints the cell layout as indented text: the mainline run on
// one line, interrupt content and variation lines indented below it.
func writeCells(w io.Writer, cells []api.Cell, indent int) {
	prefix := strings.Repeat("  ", indent)
	line := prefix
	flush := func() {
		if strings.TrimSpace(line) != "" {
			fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
		line = prefix
	}
	for _, c := range cells {
		switch c.Kind {
		case api.KindInterrupt:
			flush()
			writeCells(w, c.Cells, indent+1)
		case api.KindLines:
			flush()
			for _, row := range c.Lines {
				writeCells(w, row, indent+1)
			}
		case api.KindInline:
			line += "(" + inlineText(c.Cells) + ") "
		case api.KindComment:
			line += "{ " + c.Text + " } "
		case api.KindIndex:
			line += c.Text + ". "
		default:
			line += c.Text + " "
		}
	}
	flush()
}

// inlineText flattens nested cells into a single space-joined string.
func inlineText(cells []api.Cell) string {
	var parts []string
	for _, c := range cells {
		switch c.Kind {
		case api.KindInline:
			parts = append(parts, "("+inlineText(c.Cells)+")")
		case api.KindLines:
			for _, row := range c.Lines {
				parts = append(parts, inlineText(row))
			}
		case api.KindComment:
			parts = append(parts, "{ "+c.Text+" }")
		case api.KindIndex:
			parts = append(parts, c.Text+".")
		default:
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, " ")
}
