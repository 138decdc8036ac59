package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/desertthunder/shrtx/internal/urls"
	"github.com/urfave/cli/v3"
)

// URLList fetches and displays the user's shortened URLs.
func (r *Runner) URLList(ctx context.Context, cmd *cli.Command) error {
	search := cmd.String("search")

	r.logger.Info("listing urls")

	if err := r.urls.Refresh(ctx); err != nil {
		return err
	}
	r.urls.SetFilter(search)

	records := r.urls.Visible()
	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		if search != "" {
			return r.writePlain("No URLs match %q\n", search)
		}
		return r.writePlain("No URLs yet. Run 'shrtx url shorten <url>'\n")
	}

	w := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHORT\tORIGINAL\tCLICKS\tCREATED")
	for _, record := range records {
		created := ""
		if !record.CreatedAt.IsZero() {
			created = record.CreatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			record.ID, record.ShortURL, record.OriginalURL, record.Clicks, created)
	}
	return w.Flush()
}

// URLShorten creates a short URL for the given long URL.
func (r *Runner) URLShorten(ctx context.Context, cmd *cli.Command) error {
	longURL := strings.TrimSpace(cmd.StringArg("url"))
	if longURL == "" {
		return fmt.Errorf("%w: please enter a URL", shared.ErrInvalidInput)
	}

	r.logger.Info("shortening url", "url", longURL)

	result, err := r.api.ShortenURL(ctx, longURL)
	if err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("%w: %s", shared.ErrShortenURL, result.Message)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.URL, true)
	}

	r.writePlain("✓ URL shortened\n")
	return r.writePlain("%s -> %s\n", result.URL.OriginalURL, result.URL.ShortURL)
}

// URLDelete removes a shortened URL after confirmation.
func (r *Runner) URLDelete(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: url id is required", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		r.writePlain("Delete URL %s? [y/N] ", id)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			return r.writePlain("Cancelled\n")
		}
	}

	r.logger.Info("deleting url", "id", id)

	if err := r.urls.Remove(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ URL deleted\n")
}

// URLStats displays totals derived from the user's URL list.
func (r *Runner) URLStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.urls.Refresh(ctx); err != nil {
		return err
	}

	stats := urls.Derive(r.urls.Records(), time.Now())
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlain("Total URLs: %d\n", stats.Total)
	r.writePlain("Created today: %d\n", stats.Today)
	r.writePlain("Created this week: %d\n", stats.ThisWeek)
	return nil
}
