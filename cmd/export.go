package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chesskit/studytree/internal/wire"
)

var exportMode string

var exportCmd = &cobra.Command{
	Use:   "export [tree.json]",
	Short: "Re-serialize a game tree in a chosen wire mode",
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

		var out []byte
		switch exportMode {
		case "full":
			out, err = wire.Marshal(root, wire.Full)
		case "minimal":
			out, err = wire.Marshal(root, wire.Minimal)
		case "partition":
			out, err = wire.MarshalPartition(root)
		default:
			return fmt.Errorf("unknown mode %q (want full, minimal or partition)", exportMode)
		}
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}

		logger.Debug("exported tree",
			zap.String("mode", exportMode),
			zap.Int("bytes", len(out)))
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportMode, "mode", "m", "full", "Wire mode: full, minimal or partition")
	rootCmd.AddCommand(exportCmd)
}
