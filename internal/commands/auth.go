package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carson-networks/cashflow-gateway/internal/session"
)

const passwordEnv = "CASHFLOW_PASSWORD"

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			return runLogin(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")
	cmd.Flags().StringVar(&password, "password", "", "account password (defaults to $"+passwordEnv+")")

	return cmd
}

func runLogin(ctx context.Context, opts *rootOptions, out, logOut io.Writer, email, password string) error {
	cfg, logger, err := loadConfig(opts, logOut)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := a.svc.Auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Fprintf(out, "Logged in as %s <%s> until %s\n",
		current.User.Name, current.User.Email, current.ExpiresAt.Local().Format(time.DateTime))
	return nil
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runLogout(ctx context.Context, opts *rootOptions, out, logOut io.Writer) error {
	cfg, logger, err := loadConfig(opts, logOut)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.Auth.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(out, "Logged out")
	return nil
}

func newWhoAmICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoAmI(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runWhoAmI(ctx context.Context, opts *rootOptions, out, logOut io.Writer) error {
	cfg, logger, err := loadConfig(opts, logOut)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := a.svc.Auth.Current(ctx)
	if errors.Is(err, session.ErrNotAuthenticated) {
		fmt.Fprintln(out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s <%s>, session expires %s\n",
		current.User.Name, current.User.Email, current.ExpiresAt.Local().Format(time.DateTime))
	return nil
}
