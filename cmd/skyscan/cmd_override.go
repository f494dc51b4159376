package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/skyscan/internal/types"
)

var (
	overrideName   string
	overrideBrand  string
	overrideListID string
)

func init() {
	overrideSetCmd.Flags().StringVar(&overrideName, "name", "", "corrected product name")
	overrideSetCmd.Flags().StringVar(&overrideBrand, "brand", "", "corrected brand")
	overrideSetCmd.Flags().StringVar(&overrideListID, "list", "", "list to pre-select for this barcode")
	rootCmd.AddCommand(overrideCmd)
	overrideCmd.AddCommand(overrideGetCmd, overrideSetCmd, overrideClearCmd)
}

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage local product corrections",
}

var overrideGetCmd = &cobra.Command{
	Use:   "get <barcode>",
	Short: "Show the stored correction for a barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		record, err := a.overrides.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("read override: %w", err)
		}
		if record == nil {
			fmt.Println("No override stored.")
			return nil
		}
		if record.Name != "" {
			fmt.Printf("Name:  %s\n", record.Name)
		}
		if record.Brand != "" {
			fmt.Printf("Brand: %s\n", record.Brand)
		}
		if record.LastListID != "" {
			fmt.Printf("List:  %s\n", record.LastListID)
		}
		fmt.Printf("Updated: %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var overrideSetCmd = &cobra.Command{
	Use:   "set <barcode>",
	Short: "Store corrections for a barcode (only given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var patch types.OverridePatch
		if cmd.Flags().Changed("name") {
			patch.Name = &overrideName
		}
		if cmd.Flags().Changed("brand") {
			patch.Brand = &overrideBrand
		}
		if cmd.Flags().Changed("list") {
			patch.LastListID = &overrideListID
		}
		if patch.Name == nil && patch.Brand == nil && patch.LastListID == nil {
			return fmt.Errorf("nothing to set: pass --name, --brand, or --list")
		}

		if err := a.overrides.Set(ctx, args[0], patch); err != nil {
			return fmt.Errorf("store override: %w", err)
		}
		fmt.Println("Override saved.")
		return nil
	},
}

var overrideClearCmd = &cobra.Command{
	Use:   "clear <barcode>",
	Short: "Remove the stored correction for a barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.overrides.Clear(ctx, args[0]); err != nil {
			return fmt.Errorf("clear override: %w", err)
		}
		fmt.Println("Override cleared.")
		return nil
	},
}
