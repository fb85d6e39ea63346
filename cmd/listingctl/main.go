// listingctl - консольный клиент: показывает объявление и ставит в очередь
// письма сброса пароля, используя те же use case'ы, что и сервер.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"listing-web/internal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "listingctl",
	Short:         "Inspect listings and manage accounts of listing-web",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// withApp поднимает приложение на время одной команды.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *internal.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app)
}

func main() {
	rootCmd.AddCommand(newListingCmd(), newPasswordResetCmd())
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
