package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/110782829/moomoo-chatgpt-trader/internal/api"
	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
	"github.com/110782829/moomoo-chatgpt-trader/internal/settings"
)

var (
	connectHost string
	connectPort int
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the bot to its OpenD gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdCtx()
		defer cancel()

		host := connectHost
		if host == "" {
			host = cfg.Host
		}
		port := connectPort
		if port == 0 {
			port = cfg.Port
		}
		res, err := newClient().Connect(ctx, api.ConnectRequest{Host: host, Port: port})
		if err != nil {
			return err
		}
		fmt.Printf("connected to gateway %s:%d\n", res.Host, res.Port)
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the bot from its gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdCtx()
		defer cancel()
		if err := newClient().Disconnect(ctx); err != nil {
			return err
		}
		fmt.Println("disconnected")
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List gateway accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdCtx()
		defer cancel()
		accounts, err := newClient().ListAccounts(ctx)
		if err != nil {
			return err
		}

		table := newTable("ACCOUNT", "ENV", "TYPE")
		for _, a := range accounts {
			table.Append([]string{a.ID, string(a.Env), a.AccType})
		}
		table.Render()
		return nil
	},
}

var accountUseCmd = &cobra.Command{
	Use:   "use ACCOUNT_ID",
	Short: "Select the active account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := models.EnvSimulate
		if useReal {
			env = models.EnvReal
		}

		ctx, cancel := cmdCtx()
		defer cancel()
		if err := newClient().SelectAccount(ctx, args[0], env); err != nil {
			return err
		}

		cfg.AccountID = args[0]
		cfg.TradeEnv = env
		if err := settings.Save(getBaseDir(), cfg); err != nil {
			logger.Warn("settings save failed", "err", err)
		}
		fmt.Printf("account %s active (%s)\n", args[0], env)
		return nil
	},
}

var useReal bool

func init() {
	connectCmd.Flags().StringVar(&connectHost, "host", "", "OpenD host (default from settings)")
	connectCmd.Flags().IntVar(&connectPort, "port", 0, "OpenD port (default from settings)")
	accountUseCmd.Flags().BoolVar(&useReal, "real", false, "trade the REAL environment instead of SIMULATE")

	rootCmd.AddCommand(connectCmd, disconnectCmd, accountsCmd, accountUseCmd)
}

func cmdCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// newTable builds a borderless table matching the rest of the CLI output.
func newTable(headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
