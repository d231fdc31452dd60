package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/moneymanager/internal/infrastructure/config"
	"github.com/iho/moneymanager/internal/infrastructure/logger"
	"github.com/iho/moneymanager/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type client struct {
	baseURL string
	http    *http.Client
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "moneymanager-cli",
		Short:         "Money Manager CLI tool",
		Long:          `A command line interface for the Money Manager API and its database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Money Manager API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	api := func() *client {
		return &client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
	}

	rootCmd.AddCommand(
		newDashboardCmd(api),
		newCategoriesCmd(api),
		newAccountsCmd(api),
		newMigrateCmd(),
	)

	return rootCmd
}

func newDashboardCmd(api func() *client) *cobra.Command {
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard reports",
	}

	var period, date string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and balance for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("period", period)
			if date != "" {
				q.Set("date", date)
			}

			var summary struct {
				TotalIncome  string `json:"total_income"`
				TotalExpense string `json:"total_expense"`
				Balance      string `json:"balance"`
				Period       string `json:"period"`
				PeriodLabel  string `json:"period_label"`
			}
			if err := api().get("/api/v1/dashboard/summary?"+q.Encode(), &summary); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", summary.Period, summary.PeriodLabel)
			fmt.Fprintf(out, "Income:  %s\n", summary.TotalIncome)
			fmt.Fprintf(out, "Expense: %s\n", summary.TotalExpense)
			fmt.Fprintf(out, "Balance: %s\n", summary.Balance)
			return nil
		},
	}
	summaryCmd.Flags().StringVar(&period, "period", "MONTHLY", "WEEKLY, MONTHLY or YEARLY")
	summaryCmd.Flags().StringVar(&date, "date", "", "Reference date: YYYY, YYYY-MM, YYYY-MM-DD or ISO 8601")

	var chartPeriod string
	var year int
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Show per-bucket income and expense for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("period", chartPeriod)
			if year > 0 {
				q.Set("year", fmt.Sprint(year))
			}

			var chart struct {
				Labels  []string `json:"labels"`
				Income  []string `json:"income"`
				Expense []string `json:"expense"`
			}
			if err := api().get("/api/v1/dashboard/chart?"+q.Encode(), &chart); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PERIOD\tINCOME\tEXPENSE")
			for i, label := range chart.Labels {
				fmt.Fprintf(w, "%s\t%s\t%s\n", label, chart.Income[i], chart.Expense[i])
			}
			return w.Flush()
		},
	}
	chartCmd.Flags().StringVar(&chartPeriod, "period", "MONTHLY", "WEEKLY, MONTHLY or YEARLY")
	chartCmd.Flags().IntVar(&year, "year", 0, "Chart year (default current)")

	dashboardCmd.AddCommand(summaryCmd, chartCmd)
	return dashboardCmd
}

func newCategoriesCmd(api func() *client) *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Category catalog",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Seed the default categories into an empty catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Created int `json:"created"`
			}
			if err := api().post("/api/v1/categories/initialize", &result); err != nil {
				return err
			}
			if result.Created == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Categories already initialized")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d categories\n", result.Created)
			return nil
		},
	}

	categoriesCmd.AddCommand(initCmd)
	return categoriesCmd
}

func newAccountsCmd(api func() *client) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts and balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Accounts []struct {
					ID      string `json:"id"`
					Name    string `json:"name"`
					Balance string `json:"balance"`
				} `json:"accounts"`
			}
			if err := api().get("/api/v1/accounts/?limit=100", &result); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBALANCE")
			for _, a := range result.Accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, truncate(a.Name, 32), a.Balance)
			}
			return w.Flush()
		},
	}

	accountsCmd.AddCommand(listCmd)
	return accountsCmd
}

// migrate talks to the database directly, configured the same way as the server.
func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	run := func(apply func(string, zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			lg := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: cmd.ErrOrStderr()})
			return apply(cfg.DatabaseURL, lg)
		}
	}

	migrateCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: run(postgres.RunMigrationsDown)},
	)
	return migrateCmd
}

func (c *client) get(path string, dst any) error {
	return c.do(http.MethodGet, path, dst)
}

func (c *client) post(path string, dst any) error {
	return c.do(http.MethodPost, path, dst)
}

func (c *client) do(method, path string, dst any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", apiErr.Error, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
