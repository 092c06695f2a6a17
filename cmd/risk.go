package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Inspect or change the bot's risk limits",
}

var riskShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current risk limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdCtx()
		defer cancel()
		rc, err := newClient().RiskConfig(ctx)
		if err != nil {
			return err
		}

		state := "disabled"
		if rc.Enabled {
			state = "enabled"
		}
		fmt.Printf("checks            %s\n", state)
		fmt.Printf("max $/trade       %.2f\n", rc.MaxUSDPerTrade)
		fmt.Printf("max positions     %d\n", rc.MaxOpenPositions)
		fmt.Printf("max daily loss    %.2f\n", rc.MaxDailyLossUSD)
		fmt.Printf("hours (PT)        %s - %s\n", rc.TradingHoursPT.Start, rc.TradingHoursPT.End)
		fmt.Printf("flatten before    %d min\n", rc.FlattenBeforeCloseMin)
		if len(rc.SymbolWhitelist) > 0 {
			fmt.Printf("whitelist         %s\n", strings.Join(rc.SymbolWhitelist, " "))
		}
		return nil
	},
}

var (
	riskEnable    bool
	riskDisable   bool
	riskMaxUSD    float64
	riskMaxPos    int
	riskMaxLoss   float64
	riskFlatten   int
	riskWhitelist []string
)

var riskSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change risk limits; unset flags keep their current value",
	RunE: func(cmd *cobra.Command, args []string) error {
		if riskEnable && riskDisable {
			return fmt.Errorf("--enable and --disable are mutually exclusive")
		}

		ctx, cancel := cmdCtx()
		defer cancel()
		client := newClient()
		rc, err := client.RiskConfig(ctx)
		if err != nil {
			return err
		}

		if riskEnable {
			rc.Enabled = true
		}
		if riskDisable {
			rc.Enabled = false
		}
		if cmd.Flags().Changed("max-usd") {
			rc.MaxUSDPerTrade = riskMaxUSD
		}
		if cmd.Flags().Changed("max-positions") {
			rc.MaxOpenPositions = riskMaxPos
		}
		if cmd.Flags().Changed("max-daily-loss") {
			rc.MaxDailyLossUSD = riskMaxLoss
		}
		if cmd.Flags().Changed("flatten-min") {
			rc.FlattenBeforeCloseMin = riskFlatten
		}
		if cmd.Flags().Changed("whitelist") {
			rc.SymbolWhitelist = riskWhitelist
		}

		if err := client.SetRiskConfig(ctx, *rc); err != nil {
			return err
		}
		fmt.Println("risk limits saved")
		return nil
	},
}

func init() {
	riskSetCmd.Flags().BoolVar(&riskEnable, "enable", false, "turn risk checks on")
	riskSetCmd.Flags().BoolVar(&riskDisable, "disable", false, "turn risk checks off")
	riskSetCmd.Flags().Float64Var(&riskMaxUSD, "max-usd", 0, "max notional USD per trade")
	riskSetCmd.Flags().IntVar(&riskMaxPos, "max-positions", 0, "max open positions")
	riskSetCmd.Flags().Float64Var(&riskMaxLoss, "max-daily-loss", 0, "max daily loss in USD")
	riskSetCmd.Flags().IntVar(&riskFlatten, "flatten-min", 0, "flatten positions this many minutes before close")
	riskSetCmd.Flags().StringSliceVar(&riskWhitelist, "whitelist", nil, "restrict trading to these symbols")

	riskCmd.AddCommand(riskShowCmd, riskSetCmd)
	rootCmd.AddCommand(riskCmd)
}
