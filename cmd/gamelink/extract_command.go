package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gamelink/internal/extract"
	"gamelink/internal/fileutil"
	"gamelink/internal/ingest"
)

func newExtractCommand() *cobra.Command {
	extractCmd := &cobra.Command{
		Use:         "extract",
		Short:       "Turn saved catalog pages into export rows",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	extractCmd.AddCommand(newExtractMetacriticCommand())
	extractCmd.AddCommand(newExtractSteamCommand())
	return extractCmd
}

func newExtractMetacriticCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "metacritic <html...>",
		Short: "Extract rows from saved Metacritic browse or game pages",
		Long: "Browse pages yield one row per product card. A page without product cards is\n" +
			"read as a game page and yields a single row.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []ingest.Row
			for _, path := range args {
				html, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				listing, err := extract.MetacriticListing(html)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if len(listing) > 0 {
					rows = append(rows, listing...)
					continue
				}
				detail, err := extract.MetacriticDetail(html, nil)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if detail.Get("title") != "" {
					rows = append(rows, detail)
				}
			}
			return writeRows(cmd, out, rows)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination CSV (default stdout)")
	return cmd
}

func newExtractSteamCommand() *cobra.Command {
	var out string
	var appURL string
	cmd := &cobra.Command{
		Use:   "steam <html...>",
		Short: "Extract rows from saved Steam search or app pages",
		Long: "Search pages yield one row per hit with the app id and URL. Other pages are\n" +
			"read as app pages; --url sets the app URL when a single page is given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appURL != "" && len(args) > 1 {
				return fmt.Errorf("--url applies to a single page, got %d", len(args))
			}
			var rows []ingest.Row
			for _, path := range args {
				html, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				hits, err := extract.SteamSearch(html)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if len(hits) > 0 {
					for _, hit := range hits {
						rows = append(rows, ingest.Row{"title": hit.Title, "app_id": hit.AppID, "app_url": hit.AppURL})
					}
					continue
				}
				row, err := extract.SteamApp(html, appURL)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if row.Get("title") != "" {
					rows = append(rows, row)
				}
			}
			return writeRows(cmd, out, rows)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination CSV (default stdout)")
	cmd.Flags().StringVar(&appURL, "url", "", "App page URL recorded as the row origin")
	return cmd
}

func writeRows(cmd *cobra.Command, out string, rows []ingest.Row) error {
	out = strings.TrimSpace(out)
	if out == "" {
		return ingest.WriteCSV(cmd.OutOrStdout(), rows)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	err := fileutil.WriteAtomic(out, 0o644, func(w io.Writer) error {
		return ingest.WriteCSV(w, rows)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), out)
	return nil
}
