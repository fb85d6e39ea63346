package main

import (
	"context"
	"fmt"
	"io"

	"listing-web/internal"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port/usecases_port"

	"github.com/spf13/cobra"
)

func newPasswordResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password-reset <email>",
		Short: "Queue a password reset email for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				ctx = contextkeys.ContextWithLogger(ctx, app.Logger())
				return sendPasswordReset(ctx, cmd.OutOrStdout(), app.UseCases().SendPasswordReset, args[0])
			})
		},
	}
}

func sendPasswordReset(ctx context.Context, out io.Writer, uc usecases_port.SendPasswordResetUseCasePort, email string) error {
	if err := uc.Execute(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}
	fmt.Fprintln(out, "Email was sent")
	return nil
}
