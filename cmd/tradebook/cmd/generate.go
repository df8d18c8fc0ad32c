package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Checker-Finance/tradebook/internal/generator"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

var (
	genCount int
	genSeed  uint64
	genOut   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic trade file",
	Long: `Generate a deterministic synthetic dataset and write it as {"data": [...]}.

The output can be served with TRADES_SOURCE=file TRADES_FILE=<path>.`,
	Example: `  tradebook generate --count 500 --seed 7 -o data/trades.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := generator.Generate(generator.Config{
			Count: genCount,
			Seed:  genSeed,
			Now:   time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if genOut != "" && genOut != "-" {
			f, err := os.Create(genOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", genOut, err)
			}
			defer f.Close()
			w = f
		}
		if err := writeTrades(w, trades); err != nil {
			return err
		}
		if verbose && genOut != "" && genOut != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d trades to %s\n", len(trades), genOut)
		}
		return nil
	},
}

func init() {
	defaults := generator.DefaultConfig()
	generateCmd.Flags().IntVarP(&genCount, "count", "n", defaults.Count, "number of trades")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", defaults.Seed, "random seed")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "-", "output file (- for stdout)")
}

func writeTrades(w io.Writer, trades []model.Trade) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(model.TradeDocument{Data: trades}); err != nil {
		return fmt.Errorf("encode trades: %w", err)
	}
	return nil
}
