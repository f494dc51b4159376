package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listsCmd)
	listsCmd.AddCommand(listsSelectCmd, listsRefreshCmd, listsItemsCmd)
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show and manage lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.restore(ctx); err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		fetched, err := a.lists.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch lists: %w", err)
		}
		if err := a.lists.RestoreSelection(ctx); err != nil {
			return err
		}

		if len(fetched) == 0 {
			fmt.Println("No lists found.")
			return nil
		}

		selectedID := ""
		if selected, ok := a.lists.Selected(); ok {
			selectedID = selected.ID
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tKIND\t")
		for _, list := range fetched {
			marker := ""
			if list.ID == selectedID {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", list.ID, list.Label, list.Kind, marker)
		}
		return w.Flush()
	},
}

var listsSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select the list new scans are added to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.restore(ctx); err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		if _, err := a.lists.Fetch(ctx); err != nil {
			return fmt.Errorf("fetch lists: %w", err)
		}
		list, ok := a.lists.ListByID(args[0])
		if !ok {
			return fmt.Errorf("list not found: %s", args[0])
		}
		if err := a.lists.Select(ctx, *list); err != nil {
			return fmt.Errorf("select list: %w", err)
		}
		fmt.Printf("Selected %s.\n", list.Label)
		return nil
	},
}

var listsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch lists, dropping a selection that no longer exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.restore(ctx); err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.lists.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh lists: %w", err)
		}
		if selected, ok := a.lists.Selected(); ok {
			fmt.Printf("Refreshed %d lists; selected %s.\n", len(a.lists.Lists()), selected.Label)
		} else {
			fmt.Printf("Refreshed %d lists; no selection.\n", len(a.lists.Lists()))
		}
		return nil
	},
}

var listsItemsCmd = &cobra.Command{
	Use:   "items <id>",
	Short: "Show the items on one list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.restore(ctx); err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		items, err := a.lists.Items(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("List is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LABEL\tSTATUS")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\n", item.Label, item.Status)
		}
		return w.Flush()
	},
}
