package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/skyscan/internal/scan"
)

var (
	scanAdd    bool
	scanListID string
)

func init() {
	scanCmd.Flags().BoolVar(&scanAdd, "add", false, "add the product to a list after lookup")
	scanCmd.Flags().StringVar(&scanListID, "list", "", "target list id (defaults to the selected list)")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <barcode>",
	Short: "Look up a barcode, apply local corrections, optionally add it to a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		barcode := args[0]

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.restore(ctx); err != nil {
			return err
		}

		result, err := a.flow.Scan(ctx, barcode)
		if err != nil {
			return fmt.Errorf("scan %s: %w", barcode, err)
		}

		if !result.Found {
			fmt.Printf("No product found for %s.\n", barcode)
		}
		fmt.Printf("Name:    %s\n", result.Product.Name)
		if result.Product.Brand != "" {
			fmt.Printf("Brand:   %s\n", result.Product.Brand)
		}
		if result.Product.Quantity != "" {
			fmt.Printf("Size:    %s\n", result.Product.Quantity)
		}
		if result.HasOverride {
			fmt.Println("(using local corrections)")
		}

		// A remembered destination pre-selects that list, unless the
		// user targeted one explicitly.
		if result.SuggestedListID != "" && scanListID == "" {
			if list, ok := a.lists.ListByID(result.SuggestedListID); ok {
				if err := a.lists.Select(ctx, *list); err != nil {
					return err
				}
				fmt.Printf("Remembered list: %s\n", list.Label)
			}
		}

		if !scanAdd {
			return nil
		}

		if err := a.requireSession(); err != nil {
			return err
		}
		label, err := a.flow.AddToList(ctx, result.Product, scanListID)
		if errors.Is(err, scan.ErrDuplicateItem) {
			fmt.Printf("Already on the list: %s\n", label)
			return nil
		}
		if err != nil {
			return fmt.Errorf("add to list: %w", err)
		}
		fmt.Printf("Added %q.\n", label)
		return nil
	},
}
