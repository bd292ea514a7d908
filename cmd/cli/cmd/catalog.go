// Package cmd - catalog command
package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"basket-pricer/adapters/pricing"
	"basket-pricer/core/basket"
	"basket-pricer/core/money"
	"basket-pricer/core/ui"
	"basket-pricer/internal/config"
)

// catalogCmd lists the products, offers and delivery tiers of a pricing file
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List products, offers and delivery tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		path := cfg.Pricing.File
		if pricingFile != "" {
			path = pricingFile
		}

		def, err := pricing.LoadFile(path)
		if err != nil {
			return err
		}
		if cfg.Pricing.Currency != "" {
			def.Currency = cfg.Pricing.Currency
		}
		pricer, err := def.Pricer()
		if err != nil {
			return err
		}

		renderCatalog(cmd.OutOrStdout(), pricer, cfg.Output.NoColor)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&pricingFile, "pricing", "p", "", "pricing file (.hcl or .json)")
}

func renderCatalog(out io.Writer, pricer *basket.Pricer, noColor bool) {
	w := ui.NewWriter(out, noColor)
	cur := pricer.Currency()

	w.Header("Products")
	products := w.NewTable("Code", "Product", "Price").AlignRight(2)
	for _, p := range pricer.Catalog().Products() {
		products.AddRow(p.Code, p.Name, money.Format(p.Price, cur))
	}
	products.Render()

	w.Header("Offers")
	if pricer.Offers().Len() == 0 {
		w.Println("  none")
	}
	for _, o := range pricer.Offers().Offers() {
		w.Println("  %s %s", o.ProductCode, o.Kind)
	}

	w.Header("Delivery")
	tiers := w.NewTable("Order total", "Charge").AlignRight(1)
	for _, t := range pricer.Delivery().Tiers() {
		bound := "any"
		if !t.Unbounded {
			bound = "under " + money.Format(t.Threshold, cur)
		}
		tiers.AddRow(bound, money.Format(t.Charge, cur))
	}
	tiers.Render()
}
