package command

import (
	"ctchen222/booklist/internal/api/models"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var input models.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new reader",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				password, err := readPassword(cmd.OutOrStdout(), cmd.InOrStdin(), "Password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				input.Password = password
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			reader, err := a.readers.Register(cmd.Context(), &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered reader %s (%s)\n", reader.ID, reader.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "reader username")
	cmd.Flags().StringVar(&input.Email, "email", "", "reader email")
	cmd.Flags().StringVar(&input.Fullname, "fullname", "", "reader full name")
	cmd.Flags().StringVar(&input.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var input models.LoginInput

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Log a reader in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				password, err := readPassword(cmd.OutOrStdout(), cmd.InOrStdin(), "Password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				input.Password = password
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			payload, err := a.readers.Login(cmd.Context(), &input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "reader email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a bearer token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			claims, err := a.creds.VerifyToken(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reader:   %s\n", claims.UserID)
			fmt.Fprintf(out, "username: %s\n", claims.Username)
			if claims.ExpiresAt != nil {
				fmt.Fprintf(out, "expires:  %s\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}
