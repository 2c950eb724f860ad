package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gst-engine/internal/core"
	"gst-engine/internal/db"
	"gst-engine/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	companyID    int
	fromStr      string
	toStr        string
	outPath      string
	validateOnly bool
)

func main() {
	_ = godotenv.Load()
	logger.Setup()

	rootCmd := &cobra.Command{
		Use:   "gstr",
		Short: "Generate GSTR returns as CSV files",
		Long: `gstr validates a filing period and exports GSTR-1 (outward supplies)
or GSTR-3B (summary return) as CSV, reading from the database named by
DATABASE_URL.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().IntVar(&companyID, "company", 1, "company id")
	rootCmd.PersistentFlags().StringVar(&fromStr, "from", "", "period start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&toStr, "to", "", "period end date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output CSV path (default gstr1.csv / gstr3b.csv)")
	rootCmd.PersistentFlags().BoolVar(&validateOnly, "validate-only", false, "list compliance problems without generating the return")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "gstr1",
			Short: "Export the GSTR-1 outward-supply return",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), "gstr1")
			},
		},
		&cobra.Command{
			Use:   "gstr3b",
			Short: "Export the GSTR-3B summary return",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), "gstr3b")
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, report string) error {
	start, end, err := parsePeriod()
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	numbering := core.NewDocumentNumberService()
	invoices := core.NewInvoiceService(pool, numbering)
	purchases := core.NewPurchaseService(pool, numbering)
	gstr := core.NewGSTRService(pool, invoices, purchases)

	if validateOnly {
		return validate(ctx, gstr, report, start, end)
	}

	path := outPath
	if path == "" {
		path = report + ".csv"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch report {
	case "gstr1":
		r, err := gstr.GenerateGSTR1(ctx, companyID, start, end)
		if err != nil {
			return err
		}
		if err := r.WriteCSV(f); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(r.Rows), path)
	case "gstr3b":
		r, err := gstr.GenerateGSTR3B(ctx, companyID, start, end)
		if err != nil {
			return err
		}
		if err := r.WriteCSV(f); err != nil {
			return err
		}
		fmt.Printf("Wrote GSTR-3B summary to %s\n", path)
	}
	return nil
}

func validate(ctx context.Context, gstr core.GSTRService, report string, start, end time.Time) error {
	var problems core.ComplianceErrors
	var err error
	if report == "gstr1" {
		problems, err = gstr.ValidateGSTR1(ctx, companyID, start, end)
	} else {
		problems, err = gstr.ValidateGSTR3B(ctx, companyID, start, end)
	}
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Println("Period is filing-ready.")
		return nil
	}
	for _, p := range problems {
		fmt.Printf("- %s\n", p)
	}
	return fmt.Errorf("%d compliance problems found", len(problems))
}

func parsePeriod() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", fromStr)
	}
	end, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", toStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to precedes --from")
	}
	return start, end, nil
}
