package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Authenticate against the Skylight service",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		scanner := bufio.NewScanner(os.Stdin)
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		if email == "" {
			email = prompt(scanner, "Email", "")
		}
		password := prompt(scanner, "Password", "")
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		sess, err := a.sessions.Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		if _, err := a.lists.Fetch(ctx); err != nil {
			return fmt.Errorf("login succeeded but loading lists failed: %w", err)
		}
		if err := a.lists.RestoreSelection(ctx); err != nil {
			return err
		}
		if err := a.lists.EnsureDefaultSelection(ctx); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (frame %s)\n", sess.Email, sess.FrameID)
		if selected, ok := a.lists.Selected(); ok {
			fmt.Printf("Default list: %s\n", selected.Label)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.sessions.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and selection state",
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

		sess, ok := a.sessions.Current()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("Logged in as %s\n", sess.Email)
		fmt.Printf("Frame: %s\n", sess.FrameID)
		if selected, ok := a.lists.Selected(); ok {
			fmt.Printf("Selected list: %s (%s)\n", selected.Label, selected.ID)
		} else {
			fmt.Println("Selected list: none")
		}
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user
// input. If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
