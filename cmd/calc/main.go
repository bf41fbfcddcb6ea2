// Command calc runs the property calculators from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"realty-calc/config"
	"realty-calc/domain"
	"realty-calc/service"
	"realty-calc/telemetry"
)

type app struct {
	cfg     config.Config
	jsonOut bool
	explain bool

	irr   *service.IRRService
	loan  *service.LoanService
	roi   *service.ROIService
	terms *service.TermComparisonService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "calc",
		Short:        "Property investment and home loan calculators",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			telemetry.SetupLogging(cfg.Log.Level, cfg.Log.Format)
			a.setup(cfg)
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print the result as JSON")
	root.PersistentFlags().BoolVar(&a.explain, "explain", false, "add a plain-language explanation")

	root.AddCommand(a.irrCmd(), a.loanCmd(), a.roiCmd(), a.compareTermsCmd())
	return root
}

// setup builds the services without history or cache; the CLI is one-shot.
func (a *app) setup(cfg config.Config) {
	a.cfg = cfg
	advisor := service.NewAdvisorService(service.AdvisorConfig{
		APIKey:  cfg.Advisor.APIKey,
		APIURL:  cfg.Advisor.APIURL,
		Model:   cfg.Advisor.Model,
		Timeout: cfg.Advisor.Timeout,
	})
	a.irr = service.NewIRRService(nil, nil, service.WithAdvisor(advisor))
	a.loan = service.NewLoanService(nil, nil, cfg.Calculator.MaxSchedulePoints, service.WithAdvisor(advisor))
	a.roi = service.NewROIService(nil, nil, service.WithAdvisor(advisor))
	a.terms = service.NewTermComparisonService(a.loan, nil, nil, service.WithAdvisor(advisor))
}

func (a *app) irrCmd() *cobra.Command {
	var input domain.IRRInput
	cmd := &cobra.Command{
		Use:     "irr",
		Short:   "Internal rate of return of an investment",
		Example: "  calc irr --investment 100000 --flows 20000,25000,30000,35000,40000",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Explain = a.explain
			result, err := a.irr.CalculateIRR(context.Background(), input)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Status\t%s\n", result.Status)
				fmt.Fprintf(w, "IRR\t%.4f%%\n", result.RatePercent)
				fmt.Fprintf(w, "NPV at IRR\t%.2f\n", result.NPVAtRate)
				fmt.Fprintf(w, "Iterations\t%d\n", result.Iterations)
				printExplanation(w, result.Explanation)
			})
		},
	}
	cmd.Flags().Float64Var(&input.InitialInvestment, "investment", 0, "initial investment")
	cmd.Flags().Float64SliceVar(&input.CashFlows, "flows", nil, "cash flows for years 1..n, comma separated")
	_ = cmd.MarkFlagRequired("investment")
	return cmd
}

func (a *app) loanCmd() *cobra.Command {
	var input domain.LoanInput
	cmd := &cobra.Command{
		Use:     "loan",
		Short:   "Monthly installment and amortization schedule of a home loan",
		Example: "  calc loan --principal 10000 --rate 9.85 --years 20",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Explain = a.explain
			result, err := a.loan.CalculateLoan(context.Background(), input)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Status\t%s\n", result.Status)
				fmt.Fprintf(w, "Financed\t%.2f\n", result.EffectivePrincipal)
				fmt.Fprintf(w, "Monthly installment\t%.2f\n", result.MonthlyPayment)
				fmt.Fprintf(w, "Yearly\t%.2f\n", result.YearlyPayment)
				fmt.Fprintf(w, "Total payment\t%.2f\n", result.TotalPayment)
				fmt.Fprintf(w, "Total interest\t%.2f\n", result.TotalInterest)
				if len(result.Schedule) > 0 {
					fmt.Fprintln(w, "\nPeriod\tRemaining\tPaid")
					for _, p := range result.Schedule {
						fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", p.Period, p.RemainingPrincipal, p.CumulativePaid)
					}
				}
				printExplanation(w, result.Explanation)
			})
		},
	}
	cmd.Flags().Float64Var(&input.Principal, "principal", 0, "property price or loan amount")
	cmd.Flags().Float64Var(&input.DownPayment, "down", 0, "down payment, capped at 80% of the principal")
	cmd.Flags().Float64Var(&input.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().Float64Var(&input.TermYears, "years", 0, "loan term in years")
	cmd.Flags().IntVar(&input.MaxSchedulePoints, "points", 0, "yearly schedule points to show")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}

func (a *app) roiCmd() *cobra.Command {
	var input domain.ROIInput
	cmd := &cobra.Command{
		Use:     "roi",
		Short:   "Return on a rental property",
		Example: "  calc roi --price 300000 --rent 1500 --tenure 10",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Explain = a.explain
			result, err := a.roi.CalculateROI(context.Background(), input)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Status\t%s\n", result.Status)
				fmt.Fprintf(w, "ROI\t%.4f%%\n", result.ROI)
				fmt.Fprintf(w, "Total returns\t%.2f\n", result.TotalReturns)
				fmt.Fprintf(w, "Monthly return\t%.4f%%\n", result.MonthlyReturn)
				fmt.Fprintf(w, "Yearly return\t%.4f%%\n", result.YearlyReturn)
				printExplanation(w, result.Explanation)
			})
		},
	}
	cmd.Flags().Float64Var(&input.PropertyPrice, "price", 0, "property price")
	cmd.Flags().Float64Var(&input.MonthlyRent, "rent", 0, "monthly rent")
	cmd.Flags().Float64Var(&input.LockInYears, "lock-in", 0, "lock-in period in years")
	cmd.Flags().Float64Var(&input.TenureYears, "tenure", 0, "agreement tenure in years")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func (a *app) compareTermsCmd() *cobra.Command {
	var input domain.TermComparisonInput
	cmd := &cobra.Command{
		Use:     "compare-terms",
		Short:   "Rank loan terms that fit a monthly budget",
		Example: "  calc compare-terms --principal 200000 --rate 6 --min 10 --max 30 --budget 1500",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Explain = a.explain
			result, err := a.terms.CompareTerms(context.Background(), input)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Recommended term\t%d years\n", result.RecommendedTermYears)
				fmt.Fprintln(w, "\nYears\tMonthly\tInterest\tScore")
				for _, r := range result.Recommendations {
					fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\n", r.TermYears, r.MonthlyPayment, r.TotalInterest, r.Score)
				}
				if a.explain {
					printExplanation(w, result.Recommendations[0].Reason)
				}
			})
		},
	}
	cmd.Flags().Float64Var(&input.Principal, "principal", 0, "property price or loan amount")
	cmd.Flags().Float64Var(&input.DownPayment, "down", 0, "down payment")
	cmd.Flags().Float64Var(&input.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&input.MinTermYears, "min", 5, "shortest term in years")
	cmd.Flags().IntVar(&input.MaxTermYears, "max", 30, "longest term in years")
	cmd.Flags().Float64Var(&input.MaxMonthlyPayment, "budget", 0, "highest affordable monthly installment")
	cmd.Flags().StringVar(&input.Preference, "preference", service.PreferenceBalanced, "minimize_interest, minimize_payment or balanced")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func (a *app) print(out io.Writer, result any, table func(io.Writer)) error {
	if a.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func printExplanation(w io.Writer, text string) {
	if text != "" {
		fmt.Fprintf(w, "\n%s\n", text)
	}
}
