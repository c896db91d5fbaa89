package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nurpe/service-cart/internal/catalog"
	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/service"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var catalogDir string
	var verbose bool

	loadCatalog := func() (*service.CatalogService, error) {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
		if verbose {
			log = log.Level(zerolog.DebugLevel)
		}
		cat, err := catalog.NewLoader(log).LoadDir(catalogDir)
		if err != nil {
			return nil, err
		}
		return service.NewCatalogService(cat), nil
	}

	root := &cobra.Command{
		Use:          "catalog-cli",
		Short:        "Inspect the service catalog and its price rules",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "directory with categories.json, services.json and pricerules.json (default: embedded catalog)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log catalog loading details")

	root.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "Print every category with its price rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalogService, err := loadCatalog()
			if err != nil {
				return err
			}
			printCategories(cmd.OutOrStdout(), catalogService.ListCategories())
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "quote <service-id> <quantity>",
		Short: "Compute the final price of a service for a quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid service id %q", args[0])
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			catalogService, err := loadCatalog()
			if err != nil {
				return err
			}
			quote, err := catalogService.Quote(serviceID, quantity)
			if err != nil {
				return err
			}
			printQuote(cmd.OutOrStdout(), *quote)
			return nil
		},
	})

	return root
}

func printCategories(out io.Writer, views []service.CategoryView) {
	for _, view := range views {
		fmt.Fprintf(out, "%s\n", view.Category.Name)
		if len(view.RulesText) == 0 {
			fmt.Fprintln(out, "  no price rules")
		}
		for _, rule := range view.RulesText {
			fmt.Fprintf(out, "  - %s\n", rule)
		}
		for _, svc := range view.Services {
			printService(out, svc)
		}
	}
}

func printService(out io.Writer, svc model.Service) {
	fmt.Fprintf(out, "  #%d %s: %s\n", svc.ID, svc.Name, svc.UnitPrice.String())
}

func printQuote(out io.Writer, quote service.Quote) {
	fmt.Fprintf(out, "%s x %d\n", quote.Service.Name, quote.Quantity)
	fmt.Fprintf(out, "base price:  %s\n", quote.BasePrice.String())
	for _, explanation := range quote.Explanations {
		fmt.Fprintf(out, "  %s\n", explanation)
	}
	fmt.Fprintf(out, "final price: %s\n", quote.FinalPrice.String())
}
