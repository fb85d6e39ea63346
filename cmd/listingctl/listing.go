package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"listing-web/internal"
	clipboard_adapter "listing-web/internal/adapters/clipboard"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/listingview"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"

	"github.com/spf13/cobra"
)

func newListingCmd() *cobra.Command {
	listingCmd := &cobra.Command{
		Use:   "listing",
		Short: "Work with listings",
	}

	var copyLink bool
	showCmd := &cobra.Command{
		Use:   "show <listing-id>",
		Short: "Print a listing the way its page shows it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				ctx = contextkeys.ContextWithLogger(ctx, app.Logger())
				return showListing(ctx, cmd.OutOrStdout(), showOptions{
					Loader:     app.UseCases().LoadListing,
					Clipboard:  clipboard_adapter.NewSystemClipboard(),
					BaseURL:    app.Config().Rest.PublicBaseURL,
					ResetDelay: app.Config().ListingView.ShareLinkReset,
					ListingID:  args[0],
					CopyLink:   copyLink,
				})
			})
		},
	}
	showCmd.Flags().BoolVar(&copyLink, "copy-link", false, "copy the public listing link to the system clipboard")

	importCmd := &cobra.Command{
		Use:   "import <listing-id> <file.json>",
		Short: "Validate a listing document and store it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read listing document: %w", err)
			}
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				ctx = contextkeys.ContextWithLogger(ctx, app.Logger())
				return importListing(ctx, cmd.OutOrStdout(), app.UseCases().ImportListing, app.Config().Rest.PublicBaseURL, args[0], body)
			})
		},
	}

	listingCmd.AddCommand(showCmd, importCmd)
	return listingCmd
}

func importListing(ctx context.Context, out io.Writer, uc usecases_port.ImportListingUseCasePort, baseURL, listingID string, body []byte) error {
	listing, err := uc.Execute(ctx, listingID, body)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Stored %q: %s/listings/%s\n", listing.Name, strings.TrimRight(baseURL, "/"), url.PathEscape(listing.ID))
	return nil
}

type showOptions struct {
	Loader     usecases_port.LoadListingUseCasePort
	Clipboard  port.ClipboardPort
	BaseURL    string
	ResetDelay time.Duration
	ListingID  string
	CopyLink   bool
}

// showListing проходит тот же путь, что и страница: load, copyShareLink, presentation.
func showListing(ctx context.Context, out io.Writer, opts showOptions) error {
	view := listingview.New(listingview.Config{
		Loader:              opts.Loader,
		Clipboard:           opts.Clipboard,
		BaseURL:             opts.BaseURL,
		ShareLinkResetDelay: opts.ResetDelay,
	})
	defer view.Close()

	if _, err := view.Load(ctx, opts.ListingID); err != nil {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}

	if opts.CopyLink {
		if err := view.CopyShareLink(); err != nil {
			return fmt.Errorf("copy share link: %w", err)
		}
	}

	p, err := view.Presentation(nil)
	if err != nil {
		return err
	}
	printPresentation(out, p, strings.TrimRight(opts.BaseURL, "/"))
	return nil
}

func printPresentation(out io.Writer, p *listingview.Presentation, baseURL string) {
	fmt.Fprintf(out, "%s - $%s\n", p.Name, p.PriceLabel)
	fmt.Fprintln(out, p.Location)
	fmt.Fprintln(out, p.TypeLabel)
	if p.HasDiscount {
		fmt.Fprintf(out, "$%s discount\n", p.DiscountLabel)
	}
	fmt.Fprintln(out, strings.Join(p.Features, ", "))
	fmt.Fprintf(out, "Photos: %d\n", len(p.Slides))
	fmt.Fprintf(out, "Map: %.6f,%.6f (geohash %s) %s\n", p.Map.Lat, p.Map.Lng, p.Map.Geohash, p.Map.ExternalURL)
	fmt.Fprintf(out, "Share: %s\n", p.ShareURL)
	if p.ShowContact {
		fmt.Fprintf(out, "Contact: %s%s\n", baseURL, p.ContactURL)
	}
	if p.ShareLinkCopied {
		fmt.Fprintln(out, "Link Copied!")
	}
}
