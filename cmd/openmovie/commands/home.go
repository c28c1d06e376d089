package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amaumene/openmovie/internal/controllers"
	"github.com/amaumene/openmovie/internal/models"
	"github.com/spf13/cobra"
)

func homeCmd() *cobra.Command {
	var (
		format  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "home",
		Short: "Load the home screen once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			// Logs go to stderr so stdout stays machine readable
			a, err := newApp(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.home.WaitIdle(ctx); err != nil {
				return fmt.Errorf("home screen did not load: %w", err)
			}
			state := a.home.State()

			switch format {
			case "json":
				err = writeJSON(cmd.OutOrStdout(), state)
			case "table":
				err = writeTable(cmd.OutOrStdout(), state, a.cfg.TMDBImageBaseURL)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}

			if state.Error != "" {
				return fmt.Errorf("home screen loaded with error: %s", state.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or table")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	return cmd
}

func writeJSON(w io.Writer, state controllers.HomeState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func writeTable(w io.Writer, state controllers.HomeState, imageBase string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	section := func(name string, movies []models.Movie) {
		fmt.Fprintf(tw, "%s (%d)\n", name, len(movies))
		fmt.Fprintln(tw, "ID\tTITLE\tRELEASED\tGENRES\tPOSTER\tBACKDROP")
		for _, m := range movies {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				m.ID, m.Title, m.ReleaseDate, strings.Join(m.GenreIDs, ", "),
				m.PosterURL(imageBase), m.BackdropURL(imageBase))
		}
		fmt.Fprintln(tw)
	}

	section("DISCOVER", state.DiscoverMovies)
	section("TRENDING", state.TrendingMovies)
	if state.Error != "" {
		fmt.Fprintf(tw, "ERROR: %s\n", state.Error)
	}

	return tw.Flush()
}
