package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/facturio/facturio/internal/config"
	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/logger"
	"github.com/facturio/facturio/internal/postgres"
	"github.com/facturio/facturio/internal/repository"
	"github.com/facturio/facturio/internal/service"
	"github.com/facturio/facturio/internal/types"
	"github.com/spf13/cobra"
)

// invoicectl is a maintenance tool for inspecting invoice computations
// offline: feed it an invoice JSON document and it prints the derived totals
// breakdown or lifecycle status without touching any store.

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Inspect invoice totals and status derivation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newTotalsCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newReportCmd())
	return root
}

func newBilling() (service.BillingService, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		cfg = config.GetDefaultConfig()
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewBillingService(service.ServiceParams{
		Logger: log,
		Config: cfg,
	}), nil
}

func loadInvoice(path string) (*invoice.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inv invoice.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse invoice document: %w", err)
	}
	return &inv, nil
}

func newTotalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals <invoice.json>",
		Short: "Compute the totals breakdown for an invoice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			billing, err := newBilling()
			if err != nil {
				return err
			}
			inv, err := loadInvoice(args[0])
			if err != nil {
				return err
			}

			totals := billing.ComputeTotals(inv)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subtotal:          %s\n", totals.Subtotal.StringFixed(2))
			fmt.Fprintf(out, "discount:          %s\n", totals.Discount.StringFixed(2))
			fmt.Fprintf(out, "taxable subtotal:  %s\n", totals.TaxableSubtotal.StringFixed(2))

			labels := make([]string, 0, len(totals.Taxes))
			for label := range totals.Taxes {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, label := range labels {
				fmt.Fprintf(out, "tax %-14s %s\n", label+":", totals.Taxes[label].StringFixed(2))
			}

			fmt.Fprintf(out, "shipping:          %s\n", totals.Shipping.StringFixed(2))
			fmt.Fprintf(out, "total:             %s\n", totals.Total.StringFixed(2))
			fmt.Fprintf(out, "payments:          %s\n", totals.Payments.StringFixed(2))
			fmt.Fprintf(out, "balance:           %s\n", totals.Balance.StringFixed(2))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <invoice.json>",
		Short: "Derive the lifecycle status for an invoice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			billing, err := newBilling()
			if err != nil {
				return err
			}
			inv, err := loadInvoice(args[0])
			if err != nil {
				return err
			}

			totals := billing.ComputeTotals(inv)
			status := billing.ResolveStatus(totals, inv.DueDate, inv.Status, time.Now().UTC())
			fmt.Fprintf(cmd.OutOrStdout(), "stored:   %s\nresolved: %s\n", inv.Status, status)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var fromArg, toArg, account string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the period summary from the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cfg)
			if err != nil {
				return err
			}
			db, err := postgres.NewDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repos := repository.NewRepositories(db, log)
			reports := service.NewReportsService(service.ServiceParams{
				Logger:      log,
				Config:      cfg,
				InvoiceRepo: repos.Invoice,
				PaymentRepo: repos.Payment,
				ClientRepo:  repos.Client,
			})

			var from, to *time.Time
			if fromArg != "" {
				t, err := time.Parse("2006-01-02", fromArg)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				from = &t
			}
			if toArg != "" {
				t, err := time.Parse("2006-01-02", toArg)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				to = &t
			}

			ctx := context.WithValue(cmd.Context(), types.CtxAccountID, account)
			resp, err := reports.Summary(ctx, from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, row := range resp.Rows {
				fmt.Fprintf(out, "%s  %-12s %-24s %10s %10s %10s\n",
					row.Date.Format("2006-01-02"), row.Number, row.Client,
					row.Total.StringFixed(2), row.Payments.StringFixed(2),
					row.Balance.StringFixed(2))
			}
			fmt.Fprintf(out, "\ninvoices:   %d\n", len(resp.Rows))
			fmt.Fprintf(out, "total:      %s\n", resp.Summary.Total.StringFixed(2))
			fmt.Fprintf(out, "tax total:  %s\n", resp.Summary.TaxTotal.StringFixed(2))
			fmt.Fprintf(out, "net income: %s\n", resp.Summary.NetIncome.StringFixed(2))
			fmt.Fprintf(out, "payments:   %s\n", resp.Summary.Payments.StringFixed(2))
			fmt.Fprintf(out, "balance:    %s\n", resp.Summary.Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromArg, "from", "", "start of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toArg, "to", "", "end of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&account, "account", types.DefaultAccountID, "account to report on")
	return cmd
}
