package main

import (
	"context"
	"fmt"
	"investorly/api"
	"investorly/cmd"
	"investorly/internal"
	"investorly/internal/domain"
	"investorly/internal/service"
	"investorly/internal/util"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func withDeps(run func(h *api.ApiHandler, args []string) error) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		h, err := cmd.InitializeDependencies()
		if err != nil {
			return err
		}
		defer cmd.CloseDependencies(h)
		return run(h, args)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "investorly",
		Short:         "Simulate hypothetical portfolios from historical prices",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newSimulateCmd(),
		newAssetsCmd(),
		newFetchCmd(),
		newGenerateFixedIncomeCmd(),
		newChatCmd(),
	)
	return root
}

// parseAllocations reads TICKER=PCT pairs
func parseAllocations(pairs []string) (domain.AllocationSet, error) {
	out := domain.AllocationSet{}
	for _, p := range pairs {
		ticker, pct, ok := strings.Cut(p, "=")
		if !ok {
			return nil, domain.ValidationError{Field: "alloc", Reason: fmt.Sprintf("expected TICKER=PCT, got %q", p)}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return nil, domain.ValidationError{Field: "alloc", Reason: fmt.Sprintf("invalid percentage for %s: %v", ticker, err)}
		}
		out[domain.NormalizeTicker(ticker)] += v
	}
	return out, nil
}

func newSimulateCmd() *cobra.Command {
	var (
		amount  float64
		date    string
		end     string
		allocs  []string
		rescale bool
		asJson  bool
	)
	c := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a portfolio from an investment date",
		RunE: withDeps(func(h *api.ApiHandler, args []string) error {
			allocations, err := parseAllocations(allocs)
			if err != nil {
				return err
			}
			if rescale {
				allocations = service.NormalizeAllocations(allocations)
			}
			start, err := util.ParseDate(date)
			if err != nil {
				return err
			}
			in := service.SimulatePortfolioInput{
				InvestmentAmount: amount,
				InvestmentDate:   start,
				Allocations:      allocations,
			}
			if end != "" {
				e, err := util.ParseDate(end)
				if err != nil {
					return err
				}
				in.EndDate = &e
			}

			result, errs, err := h.SimulationService.SimulatePortfolio(in)
			if err != nil {
				return err
			}
			summary := service.ComposeDashboard(result, allocations, amount, h.CapitalGainsRate)
			if asJson {
				util.Pprint(map[string]any{"summary": summary, "errors": errs})
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ASSET\tINITIAL\tCURRENT\tGAIN/LOSS\tRETURN %")
			for _, l := range summary.Lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.Ticker, l.Initial, l.Current, l.GainLoss, l.GainLossPct)
			}
			fmt.Fprintf(w, "TOTAL\t%s\t%s\t%s\t%s\n", summary.TotalInitial, summary.TotalCurrent, summary.TotalGainLoss, summary.TotalGainLossPct)
			w.Flush()
			fmt.Printf("after tax (%s%%): %s\n", summary.TaxRate.Mul(hundred), summary.AfterTaxValue)
			fmt.Printf("risk level: %d\n", service.RiskFromAllocation(allocations, h.AssetRegistry))
			for _, e := range errs {
				fmt.Printf("warning: %s\n", e)
			}
			return nil
		}),
	}
	c.Flags().Float64Var(&amount, "amount", 10000, "investment amount in dollars")
	c.Flags().StringVar(&date, "date", "", "investment date, YYYY-MM-DD")
	c.Flags().StringVar(&end, "end", "", "optional end date, YYYY-MM-DD")
	c.Flags().StringSliceVar(&allocs, "alloc", nil, "allocation as TICKER=PCT, repeatable")
	c.Flags().BoolVar(&rescale, "rescale", false, "scale allocations over 100% down instead of failing")
	c.Flags().BoolVar(&asJson, "json", false, "print json")
	_ = c.MarkFlagRequired("date")
	_ = c.MarkFlagRequired("alloc")
	return c
}

func newAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List supported assets",
		RunE: func(c *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TICKER\tNAME\tCATEGORY")
			for _, a := range domain.DefaultAssetRegistry().List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Ticker, a.Name, a.Category.DisplayName())
			}
			return w.Flush()
		},
	}
}

func newFetchCmd() *cobra.Command {
	var since string
	c := &cobra.Command{
		Use:   "fetch [tickers...]",
		Short: "Download daily prices into the dataset directory",
		RunE: withDeps(func(h *api.ApiHandler, args []string) error {
			start, err := util.ParseDate(since)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return internal.UpdateRegistryPrices(start, h.AssetRegistry, h.PriceRepository)
			}
			for _, ticker := range args {
				n, err := internal.IngestPrices(ticker, start, h.AssetRegistry, h.PriceRepository)
				if err != nil {
					return err
				}
				zap.S().Infof("saved %d rows to %s", n, h.PriceRepository.Path(ticker))
			}
			return nil
		}),
	}
	c.Flags().StringVar(&since, "since", "2015-01-01", "first date to fetch")
	return c
}

func newGenerateFixedIncomeCmd() *cobra.Command {
	var start, end string
	c := &cobra.Command{
		Use:   "generate-fixed-income",
		Short: "Write synthetic savings and CD series",
		RunE: withDeps(func(h *api.ApiHandler, args []string) error {
			s, err := util.ParseDate(start)
			if err != nil {
				return err
			}
			e := util.Today()
			if end != "" {
				e, err = util.ParseDate(end)
				if err != nil {
					return err
				}
			}
			written, err := internal.GenerateFixedIncomeDatasets(s, e, h.AssetRegistry, h.PriceRepository)
			if err != nil {
				return err
			}
			for _, ticker := range written {
				zap.S().Infof("wrote %s", h.PriceRepository.Path(ticker))
			}
			return nil
		}),
	}
	c.Flags().StringVar(&start, "start", "2015-11-25", "first day of the series")
	c.Flags().StringVar(&end, "end", "", "last day of the series, defaults to today")
	return c
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask the investment assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: withDeps(func(h *api.ApiHandler, args []string) error {
			out, err := h.ChatService.Respond(context.Background(), service.ChatRequest{
				Messages: []domain.ChatMessage{
					{Role: domain.ChatRoleUser, Content: strings.Join(args, " ")},
				},
			})
			if err != nil {
				return err
			}
			fmt.Println(out.Response)
			return nil
		}),
	}
}
