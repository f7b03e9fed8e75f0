package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"loan-calculator/internal/analysis"
	"loan-calculator/internal/config"
	"loan-calculator/internal/data"
	"loan-calculator/internal/loan"
	"loan-calculator/internal/model"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "quote":
		cmdQuote(os.Args[2:])
	case "schedule":
		cmdSchedule(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli quote --amount 10000 --term 12 --ltv 60 --mode interest_only [--prices data/prices.json] [--fetch]")
	fmt.Println("  cli schedule --amount 10000 --term 12 --ltv 60 --mode principal_and_interest --out results/schedule.csv")
	fmt.Println("  cli compare --amount 10000 --term 12 [--prices data/prices.json]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - amounts may be typed with $ and thousands separators")
	fmt.Println("  - without --prices or --fetch collateral is shown in USD only")
}

type inputFlags struct {
	amount  *string
	term    *int
	ltv     *int
	mode    *string
	cfgPath *string
}

func addInputFlags(fs *flag.FlagSet) inputFlags {
	return inputFlags{
		amount:  fs.String("amount", "", "Loan amount in USD (default from config)"),
		term:    fs.Int("term", 0, "Loan term in months, 3-36 (default from config)"),
		ltv:     fs.Int("ltv", 0, "LTV tier percent: 30, 40, 50, 60 or 70 (default from config)"),
		mode:    fs.String("mode", "", "Repayment mode: interest_only or principal_and_interest"),
		cfgPath: fs.String("config", "", "Path to YAML config"),
	}
}

// resolve merges the flags over the configured defaults. An out-of-range
// amount exits with status 1.
func (f inputFlags) resolve() (model.LoanInput, *config.Config) {
	cfg, err := config.Load(*f.cfgPath)
	if err != nil {
		fail(err)
	}
	in := cfg.Calculator.Defaults()

	if strings.TrimSpace(*f.amount) != "" {
		amount, err := loan.ResolveAmount(*f.amount)
		if err != nil {
			if errors.Is(err, loan.ErrInvalidAmount) {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fail(err)
		}
		in.Amount = amount
	}
	if *f.term != 0 {
		in.TermMonths = *f.term
	}
	if *f.ltv != 0 {
		tier, err := model.TierByPercent(*f.ltv)
		if err != nil {
			fail(err)
		}
		in.AnnualRatePercent = tier.AnnualRatePercent
	}
	if *f.mode != "" {
		mode, err := model.ParseRepaymentMode(*f.mode)
		if err != nil {
			fail(err)
		}
		in.RepaymentMode = mode
	}
	if err := in.Validate(); err != nil {
		fail(err)
	}
	return in, cfg
}

func cmdQuote(args []string) {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	flags := addInputFlags(fs)
	pricesPath := fs.String("prices", "", "Path to a price snapshot JSON file")
	fetch := fs.Bool("fetch", false, "Fetch current prices from the market-data provider")
	_ = fs.Parse(args)

	in, cfg := flags.resolve()
	prices := loadPrices(cfg, *pricesPath, *fetch)

	res, err := loan.New().Compute(in, prices)
	if err != nil {
		fail(err)
	}

	d := res.Display
	fmt.Printf("%-22s %s\n", "Loan Amount", d.LoanAmount)
	fmt.Printf("%-22s %s\n", "Interest Rate", d.InterestRate)
	fmt.Printf("%-22s %s\n", "Repayment", in.RepaymentMode.Label())
	fmt.Printf("%-22s %s\n", d.MonthlyLabel, d.MonthlyPayment)
	if d.FinalPayment != "" {
		fmt.Printf("%-22s %s\n", "Final Payment", d.FinalPayment)
	}
	fmt.Printf("%-22s %s\n", "Total Loan Cost", d.TotalLoanCost)
	fmt.Printf("%-22s %s\n", "Total Interest", d.TotalInterest)
	fmt.Printf("%-22s %s\n", "Collateral Required", d.CollateralRequired)
	for _, c := range d.CollateralInCrypto {
		fmt.Printf("  %-20s %s\n", c.Symbol, c.Quantity)
	}
	fmt.Printf("%-22s %s\n", "Stake Token Amount", d.StakeTokenAmount)
}

func cmdSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	flags := addInputFlags(fs)
	outPath := fs.String("out", "results/schedule.csv", "Output CSV path")
	_ = fs.Parse(args)

	in, _ := flags.resolve()

	installments, err := loan.New().Schedule(in)
	if err != nil {
		fail(err)
	}
	summary := loan.Summarize(in.RepaymentMode, installments)

	if err := loan.WriteScheduleCSVFile(*outPath, summary.Rows); err != nil {
		fail(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(summary.Rows), *outPath)
	fmt.Printf("Total paid=%s Total interest=%s\n", loan.FormatMoney(summary.TotalPaid), loan.FormatMoney(summary.TotalInterest))
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	flags := addInputFlags(fs)
	pricesPath := fs.String("prices", "", "Path to a price snapshot JSON file")
	_ = fs.Parse(args)

	in, cfg := flags.resolve()
	prices := loadPrices(cfg, *pricesPath, false)

	quotes, err := analysis.CompareTiers(loan.New(), in.Amount, in.TermMonths, prices)
	if err != nil {
		fail(err)
	}

	fmt.Printf("%-4s %-5s %-6s %-22s %-10s %-12s %-12s %-12s\n", "rank", "ltv", "rate", "mode", "monthly", "final", "total", "interest")
	for i, q := range quotes {
		d := q.Result.Display
		final := d.FinalPayment
		if final == "" {
			final = "-"
		}
		fmt.Printf("%-4d %-5s %-6s %-22s %-10s %-12s %-12s %-12s\n",
			i+1,
			q.Tier.Label,
			d.InterestRate,
			q.Mode.Label(),
			d.MonthlyPayment,
			final,
			d.TotalLoanCost,
			d.TotalInterest,
		)
	}
}

// loadPrices prefers an explicit snapshot file, then a live fetch. Failures
// only cost the crypto collateral lines.
func loadPrices(cfg *config.Config, path string, fetch bool) []model.MarketPrice {
	if path != "" {
		snap, err := data.LoadSnapshot(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return nil
		}
		return snap.Prices()
	}
	if !fetch {
		return nil
	}

	client := data.NewCoinGeckoClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.Assets)
	client.VsCurrency = cfg.MarketData.VsCurrency
	client.Client.Timeout = cfg.MarketData.Timeout

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MarketData.Timeout+time.Second)
	defer cancel()
	prices, err := client.FetchPrices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: market data unavailable: %v\n", err)
		return nil
	}
	return prices
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(2)
}
