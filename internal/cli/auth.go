package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Authenticate and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			var err error
			password, err = promptLine("Password: ")
			if err != nil {
				return err
			}
		}

		if _, err := app.Auth.Login(cmd.Context(), args[0], password); err != nil {
			if errors.Is(err, apierr.ErrInvalidCredentials) {
				return fmt.Errorf("invalid username or password")
			}
			return err
		}

		if ident, ok := app.Store.Identity(); ok {
			app.Notifier.Success(fmt.Sprintf("Logged in as %s (user %d)", ident.Username, ident.UserID))
		} else {
			app.Notifier.Success("Logged in")
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			var err error
			password, err = promptLine("Password: ")
			if err != nil {
				return err
			}
		}

		if err := app.Auth.Register(cmd.Context(), args[0], args[1], password); err != nil {
			var verr *apierr.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("registration rejected: %s", verr.Message)
			}
			return err
		}
		app.Notifier.Success("Account created. You can now log in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Auth.Logout(); err != nil {
			return err
		}
		app.Notifier.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity bound to the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ident, ok := app.Store.Identity()
		if !ok {
			if _, hasToken := app.Store.Token(); hasToken {
				fmt.Println("Logged in with an opaque token (no identity claims).")
				return nil
			}
			return apierr.ErrNotAuthenticated
		}
		fmt.Printf("%s (user %d)\n", ident.Username, ident.UserID)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
