package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

var (
	btFast  int
	btSlow  int
	btKType string
	btQty   float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest SYMBOL",
	Short: "Run an MA-crossover backtest on the bot's bar data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if btFast >= btSlow {
			return fmt.Errorf("fast MA (%d) must be below slow MA (%d)", btFast, btSlow)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result, err := newClient().BacktestMA(ctx, models.BacktestRequest{
			Symbol: args[0],
			Fast:   btFast,
			Slow:   btSlow,
			KType:  btKType,
			Qty:    btQty,
		})
		if err != nil {
			return err
		}

		metrics := newTable("METRIC", "VALUE")
		keys := make([]string, 0, len(result.Metrics))
		for k := range result.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			metrics.Append([]string{k, fmt.Sprintf("%g", result.Metrics[k])})
		}
		metrics.Render()

		if len(result.TradesSample) == 0 {
			return nil
		}
		fmt.Println()
		trades := newTable("ENTRY", "EXIT", "SIDE", "ENTRY PX", "EXIT PX", "QTY", "PNL")
		for _, t := range result.TradesSample {
			trades.Append([]string{
				t.EntryTS, t.ExitTS, t.Side,
				fmt.Sprintf("%.2f", t.EntryPx),
				fmt.Sprintf("%.2f", t.ExitPx),
				fmt.Sprintf("%g", t.Qty),
				fmt.Sprintf("%+.2f", t.PnL),
			})
		}
		trades.Render()
		return nil
	},
}

func init() {
	backtestCmd.Flags().IntVar(&btFast, "fast", 9, "fast MA period")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 21, "slow MA period")
	backtestCmd.Flags().StringVar(&btKType, "ktype", "K_1M", "candle interval (K_1M, K_5M, K_15M, K_30M, K_60M, K_DAY)")
	backtestCmd.Flags().Float64Var(&btQty, "qty", 1, "shares per trade")

	rootCmd.AddCommand(backtestCmd)
}
