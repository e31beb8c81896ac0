package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/form"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

func newPrintCmd(a *app) *cobra.Command {
	var (
		version  string
		printer  string
		title    string
		products []string
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Submit one label",
		Long: `Fills the label form from flags and submits it once.

The printer defaults to the configured one, or to the first printer the
host offers when that one is not available. Each --product is
"name|price|barcode". Two-slot and four-slot labels need
exactly two or four products.`,
		Example: `  labels print --printer "Zebra LP2824" \
    --product "عصير برتقال|5.00|622300123456" \
    --product "مياه معدنية|3.50|622300654321"

  labels print --protocol products --title "أسواق ابوعمر" --product "شاي|12.00|622300111222"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseProducts(products)
			if err != nil {
				return err
			}

			client, closeBridge, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBridge()

			j, err := a.openJournal()
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}

			ctrl := a.newController(client, j)
			store := ctrl.Store()
			form.Discover(cmd.Context(), client, store, a.log)
			if version != "" {
				v, err := model.ParseProtocolVersion(version)
				if err != nil {
					return err
				}
				store.SetVersion(v)
			}
			if printer != "" {
				store.SetPrinter(printer)
			}
			store.SetTitle(title)
			store.SetProducts(entries)

			outcome, err := ctrl.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			if outcome.Failed() {
				return errors.New("label was not printed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "protocol", "", "Protocol version: two-slot, four-slot or products (default from config)")
	cmd.Flags().StringVarP(&printer, "printer", "p", "", "Printer name (default from config)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Label title, used by the products version")
	cmd.Flags().StringArrayVar(&products, "product", nil, `Product as "name|price|barcode" (repeatable)`)

	return cmd
}

// parseProducts splits "name|price|barcode" values. Missing trailing fields
// are left empty.
func parseProducts(values []string) ([]model.ProductEntry, error) {
	entries := make([]model.ProductEntry, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, "|")
		if len(parts) > 3 {
			return nil, fmt.Errorf("invalid product %q: want name|price|barcode", v)
		}
		parts = append(parts, "", "")
		entries = append(entries, model.ProductEntry{Name: parts[0], Price: parts[1], Barcode: parts[2]})
	}
	return entries, nil
}
