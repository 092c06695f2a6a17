package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/110782829/moomoo-chatgpt-trader/internal/history"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List positions for the active account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdCtx()
		defer cancel()
		positions, err := newClient().Positions(ctx)
		if err != nil {
			return err
		}

		table := newTable("SYMBOL", "QTY", "AVG PRICE", "VALUE", "PNL")
		for _, p := range positions {
			table.Append([]string{
				p.Symbol,
				strconv.FormatFloat(p.Qty, 'f', -1, 64),
				fmt.Sprintf("%.2f", p.AvgPrice),
				fmt.Sprintf("%.2f", p.MarketValue),
				fmt.Sprintf("%+.2f", p.PnL),
			})
		}
		table.Render()
		return nil
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders for the active account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdCtx()
		defer cancel()
		orders, err := newClient().Orders(ctx)
		if err != nil {
			return err
		}

		table := newTable("ID", "SYMBOL", "SIDE", "TYPE", "QTY", "PRICE", "STATUS")
		for _, o := range orders {
			table.Append([]string{
				o.ID, o.Symbol, o.Side, o.OrderType,
				strconv.FormatFloat(o.Qty, 'f', -1, 64),
				fmt.Sprintf("%.2f", o.Price),
				o.Status,
			})
		}
		table.Render()
		return nil
	},
}

var feedLimit int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show recent activity recorded by the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := history.Open(getBaseDir())
		if err != nil {
			return err
		}
		defer hist.Close()

		items, err := hist.Recent(feedLimit)
		if err != nil {
			return err
		}

		width := 100
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
			width = w
		}
		for _, it := range items {
			line := fmt.Sprintf("%s  %-9s %s", it.Timestamp.Format("01-02 15:04:05"), it.Kind, it.Message)
			fmt.Println(ansi.Truncate(line, width, "…"))
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().IntVar(&feedLimit, "limit", 50, "number of entries to show")
	rootCmd.AddCommand(positionsCmd, ordersCmd, feedCmd)
}
