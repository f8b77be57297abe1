package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fitout-erp/internal/adapters/web"
	"fitout-erp/internal/app"
	"fitout-erp/internal/config"
	"fitout-erp/internal/core"
	"fitout-erp/internal/db"
	"fitout-erp/internal/export"
	"fitout-erp/migrations"
)

// Env carries what every command may need. Commands that touch the database open
// their own pool from Config so offline commands run without one.
type Env struct {
	Config *config.Config
	Log    *zap.Logger
}

// NewRootCommand builds the fitout command tree.
func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "fitout",
		Short:         "Quotation lifecycle and procurement comparison tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newPriceCommand(),
		newCompareCommand(),
		newMigrateCommand(env),
		newTokenCommand(env),
		newQuotationCommand(env),
		newMaterialRequestCommand(env),
	)
	return root
}

// newPriceCommand prices a quotation draft read from a JSON file without a database.
func newPriceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "price <file.json>",
		Short: "Price quotation lines and print document totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req app.PriceQuotationRequest
			if err := readJSONFile(args[0], &req); err != nil {
				return err
			}
			printPricing(cmd.OutOrStdout(), app.PriceLines(req))
			return nil
		},
	}
}

// compareInput is the offline comparison file format.
type compareInput struct {
	MaterialRequestID int                        `json:"material_request_id"`
	Items             []core.MaterialRequestItem `json:"items"`
	Quotes            []core.VendorQuote         `json:"quotes"`
}

func newCompareCommand() *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "compare <file.json>",
		Short: "Build a vendor quote comparison from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in compareInput
			if err := readJSONFile(args[0], &in); err != nil {
				return err
			}
			m := core.CompareVendorQuotes(in.MaterialRequestID, in.Items, in.Quotes)
			printComparison(cmd.OutOrStdout(), m)
			if xlsxPath == "" {
				return nil
			}
			data, err := export.ComparisonWorkbook(m)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), xlsxPath, data)
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the comparison workbook to this path")
	return cmd
}

func newMigrateCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, env.Config.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := db.Migrate(ctx, pool, migrations.Files, env.Log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func newTokenCommand(env *Env) *cobra.Command {
	var userID int
	var username string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a user",
		Long: "Issue an API token for a user. --user signs for a user ID without a database;\n" +
			"--username looks up an active user first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username != "" {
				err := withService(cmd.Context(), env, func(svc app.ApplicationService) error {
					u, err := svc.FindUser(cmd.Context(), username)
					if err != nil {
						return fmt.Errorf("find user %q: %w", username, err)
					}
					userID = u.ID
					return nil
				})
				if err != nil {
					return err
				}
			}
			if userID <= 0 {
				return fmt.Errorf("--user or --username is required")
			}
			tok, err := web.SignToken(env.Config.JWT.Secret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user ID the token is issued for")
	cmd.Flags().StringVar(&username, "username", "", "username the token is issued for")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.MarkFlagsMutuallyExclusive("user", "username")
	return cmd
}

func newQuotationCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quotation",
		Aliases: []string{"quote", "q"},
		Short:   "Inspect stored quotations",
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a quotation with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd.Context(), env, func(svc app.ApplicationService) error {
				q, err := svc.GetQuotation(cmd.Context(), id)
				if err != nil {
					return err
				}
				printQuotation(cmd.OutOrStdout(), q)
				return nil
			})
		},
	}

	var out string
	pdf := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Render a quotation as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd.Context(), env, func(svc app.ApplicationService) error {
				f, err := svc.QuotationPDF(cmd.Context(), id)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = f.Filename
				}
				return writeOutput(cmd.OutOrStdout(), path, f.Data)
			})
		},
	}
	pdf.Flags().StringVarP(&out, "output", "o", "", "output path (default quotation-<id>.pdf)")

	cmd.AddCommand(show, pdf)
	return cmd
}

func newMaterialRequestCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "material-request",
		Aliases: []string{"mr"},
		Short:   "Inspect material requests and their vendor quotes",
	}

	var xlsxPath string
	compare := &cobra.Command{
		Use:   "compare <id>",
		Short: "Compare the vendor quotes of a stored material request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd.Context(), env, func(svc app.ApplicationService) error {
				m, err := svc.CompareQuotes(cmd.Context(), id)
				if err != nil {
					return err
				}
				printComparison(cmd.OutOrStdout(), m)
				if xlsxPath == "" {
					return nil
				}
				f, err := svc.ComparisonWorkbook(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), xlsxPath, f.Data)
			})
		},
	}
	compare.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the comparison workbook to this path")

	cmd.AddCommand(compare)
	return cmd
}

// withService opens a pool, builds the application service and runs fn.
// Notifications are never sent from the CLI.
func withService(ctx context.Context, env *Env, fn func(app.ApplicationService) error) error {
	pool, err := db.NewPool(ctx, env.Config.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(newService(pool, env))
}

func newService(pool *pgxpool.Pool, env *Env) app.ApplicationService {
	return app.NewFromPool(pool, env.Config, nil, env.Log)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func readJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}

func writeOutput(w io.Writer, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(w, "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func printPricing(w io.Writer, res *app.PricingResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "  %-28s %-11s %10s %16s\n", "ITEM", "BASIS", "AREA", "LINE TOTAL")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, l := range res.Lines {
		fmt.Fprintf(w, "  %-28s %-11s %10s %16s\n",
			truncate(l.ItemName, 28), l.Basis, fixedOrDash(l.AreaSqm), l.LineTotal.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	printTotals(w, res.Totals)
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func printTotals(w io.Writer, t core.DocumentTotals) {
	fmt.Fprintf(w, "  %-52s %16s\n", "Subtotal", t.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "  %-52s %16s\n", "Discount", t.Discount.StringFixed(2))
	fmt.Fprintf(w, "  %-52s %16s\n", "VAT ("+t.VATPercent.String()+"%)", t.VATAmount.StringFixed(2))
	fmt.Fprintf(w, "  %-52s %16s\n", "TOTAL", t.Total.StringFixed(2))
}

func printQuotation(w io.Writer, q *core.Quotation) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "  Quotation %d  %s\n", q.ID, q.Status)
	fmt.Fprintf(w, "  Client   : %s\n", q.ClientName)
	fmt.Fprintf(w, "  Validity : %d days\n", q.ValidityDays)
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "  %-4s %-34s %12s %16s\n", "#", "ITEM", "AREA", "LINE TOTAL")
	for _, l := range q.Lines {
		fmt.Fprintf(w, "  %-4d %-34s %12s %16s\n",
			l.LineNumber, truncate(l.ItemName, 34), fixedOrDash(l.AreaSqm), l.LineTotal.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	printTotals(w, core.QuotationTotals(q))
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func printComparison(w io.Writer, m *core.ComparisonMatrix) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Vendor quote comparison: material request %d\n", m.MaterialRequestID)
	if len(m.Columns) == 0 {
		fmt.Fprintln(w, "  No quotes submitted.")
		return
	}
	width := 34 + 18*len(m.Columns)
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "  %-24s %8s", "ITEM", "QTY")
	for _, c := range m.Columns {
		fmt.Fprintf(w, " %17s", truncate(c.VendorName, 17))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", width))
	for _, row := range m.Rows {
		fmt.Fprintf(w, "  %-24s %8s", truncate(row.ItemName, 24), row.Quantity.String())
		for _, cell := range row.Cells {
			v := "-"
			if cell.Quoted {
				v = cell.UnitRate.StringFixed(2)
				if cell.Lowest {
					v = "*" + v
				}
			}
			fmt.Fprintf(w, " %17s", v)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.Repeat("-", width))
	fmt.Fprintf(w, "  %-33s", "TOTAL")
	for _, c := range m.Columns {
		v := c.TotalAmount.StringFixed(2)
		if !c.Complete {
			v += "!"
		}
		fmt.Fprintf(w, " %17s", v)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", width))
	if m.BestQuoteIndex >= 0 {
		best := m.Columns[m.BestQuoteIndex]
		fmt.Fprintf(w, "  Best quote: %s (%s), total %s\n", best.VendorName, best.QuoteNumber, best.TotalAmount.StringFixed(2))
	}
	fmt.Fprintln(w, "  * lowest rate for the item   ! quote does not cover every item")
}

func fixedOrDash(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
