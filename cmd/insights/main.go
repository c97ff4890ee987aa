// cmd/insights/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/bevora/distops/internal/cache"
	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/engine"
	"github.com/bevora/distops/internal/notify"
	"github.com/bevora/distops/internal/repository"
	"github.com/bevora/distops/internal/service"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDecimalFlag(name, usage string, required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     name,
		Usage:    usage,
		Required: required,
		Value:    "0",
	}
}

func decimalArg(c *cli.Context, name string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(c.String(name))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return value, nil
}

func runSummary(c *cli.Context) error {
	db, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eng := engine.New(engine.Policy{})
	insightService := service.NewInsightService(
		repository.NewSalesRepository(db),
		repository.NewInventoryRepository(db),
		eng,
		cache.NewNoopInsightCache(),
		c.Int("catalog-cap"),
		0,
	)

	summary, err := insightService.Summary(c.Context)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}

	return printJSON(summary)
}

func runEvaluate(c *cli.Context) error {
	input := domain.DiscountEvaluationInput{}

	fields := []struct {
		flag string
		dest *decimal.Decimal
	}{
		{"cost", &input.ProductCost},
		{"price", &input.SalesPrice},
		{"discount", &input.DiscountPercent},
		{"commission", &input.PaymentCommission},
		{"tax", &input.TaxPercent},
		{"operational-costs", &input.OperationalCosts},
		{"min-margin", &input.MinAcceptableMargin},
	}
	for _, f := range fields {
		value, err := decimalArg(c, f.flag)
		if err != nil {
			return err
		}
		*f.dest = value
	}

	eng := engine.New(engine.Policy{})
	marginService := service.NewMarginService(eng, notify.NewLogChannel())

	result, err := marginService.Evaluate(c.Context, input)
	if err != nil {
		return err
	}

	return printJSON(result)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "insights",
		Usage: "Run inventory insights and margin checks from the command line",
		Commands: []*cli.Command{
			{
				Name:  "summary",
				Usage: "Build the catalog insight summary and print it as JSON",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "catalog-cap",
						Usage: "Maximum number of products to analyze",
						Value: 100,
					},
				},
				Action: runSummary,
			},
			{
				Name:  "evaluate",
				Usage: "Evaluate a proposed discount against the margin guard",
				Flags: []cli.Flag{
					newDecimalFlag("cost", "Product cost", true),
					newDecimalFlag("price", "Sales price before discount", true),
					newDecimalFlag("discount", "Discount as a fraction, e.g. 0.10", false),
					newDecimalFlag("commission", "Payment method commission as a fraction", false),
					newDecimalFlag("tax", "Tax as a fraction", false),
					newDecimalFlag("operational-costs", "Per-sale operational costs", false),
					newDecimalFlag("min-margin", "Minimum acceptable margin percent", false),
				},
				Action: runEvaluate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
