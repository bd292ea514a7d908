// Package cmd - total command
package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"basket-pricer/adapters/pricing"
	"basket-pricer/core/basket"
	"basket-pricer/core/output"
	"basket-pricer/core/ui"
	"basket-pricer/internal/config"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

var (
	pricingFile  string
	outputFormat string
	showDetails  bool
	skipUnknown  bool
)

// totalCmd represents the total command
var totalCmd = &cobra.Command{
	Use:   "total [codes...]",
	Short: "Price a basket of product codes",
	Long: `Add each product code to a new basket and print its total.

Codes may be given as separate arguments or comma separated.
Repeat a code to add more than one unit.

Examples:
  basket total R01 R01
  basket total B01,B01,R01,R01,R01
  basket total --details --format json R01 G01`,
	RunE: runTotal,
}

func init() {
	totalCmd.Flags().StringVarP(&pricingFile, "pricing", "p", "", "pricing file (.hcl or .json)")
	totalCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")
	totalCmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show per-product and per-offer breakdown")
	totalCmd.Flags().BoolVar(&skipUnknown, "skip-unknown", false, "warn about unknown product codes instead of failing")
}

// totalOptions holds the resolved settings of one total run
type totalOptions struct {
	PricingFile string
	Format      string
	Details     bool
	SkipUnknown bool
	NoColor     bool
}

func runTotal(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	opts := totalOptions{
		PricingFile: cfg.Pricing.File,
		Format:      cfg.Output.DefaultFormat,
		Details:     cfg.Output.ShowDetails,
		SkipUnknown: skipUnknown,
		NoColor:     cfg.Output.NoColor,
	}
	if pricingFile != "" {
		opts.PricingFile = pricingFile
	}
	if outputFormat != "" {
		opts.Format = outputFormat
	}
	if cmd.Flags().Changed("details") {
		opts.Details = showDetails
	}

	def, err := pricing.LoadFile(opts.PricingFile)
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

	return priceCodes(cmd.OutOrStdout(), cmd.ErrOrStderr(), pricer, splitCodes(args), opts)
}

// priceCodes fills a basket from codes and renders its breakdown to out
func priceCodes(out, errOut io.Writer, pricer *basket.Pricer, codes []string, opts totalOptions) error {
	formatter, err := output.New(opts.Format, output.Options{
		ShowDetails: opts.Details,
		NoColor:     opts.NoColor,
	})
	if err != nil {
		return err
	}

	b := pricer.NewBasket()
	for _, code := range codes {
		err := b.Add(code)
		if err == nil {
			continue
		}
		if opts.SkipUnknown && errors.IsType(err, errors.TypeUnknownProduct) {
			ui.NewWriter(errOut, opts.NoColor).Warning("skipping unknown product %s", code)
			continue
		}
		return err
	}

	logging.Debug("basket filled",
		zap.String("basket_id", b.ID().String()),
		zap.Int("items", b.Len()))

	return formatter.Render(out, b.Breakdown())
}

// splitCodes accepts "R01 G01" and "R01,G01" forms alike
func splitCodes(args []string) []string {
	var codes []string
	for _, arg := range args {
		for _, code := range strings.Split(arg, ",") {
			code = strings.TrimSpace(code)
			if code != "" {
				codes = append(codes, code)
			}
		}
	}
	return codes
}
