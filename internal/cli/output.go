package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/pagination"
	"movie-discovery-frontend/internal/view"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type printer struct {
	out    io.Writer
	format string
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case formatText, formatJSON:
	default:
		return nil, exitError(exitUsage, "invalid --output %q: want text or json", format)
	}
	return &printer{out: cmd.OutOrStdout(), format: format}, nil
}

func (p *printer) json() bool {
	return p.format == formatJSON
}

// emit writes v as JSON, or calls text for the text format.
func (p *printer) emit(v any, text func(w io.Writer)) error {
	if p.json() {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}
	text(p.out)
	return nil
}

func rating(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func writeMovies(w io.Writer, movies []models.MovieSummary) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRATING\tGENRES")
	for _, m := range movies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Year, rating(m.RatingValue), strings.Join(m.Genres, ", "))
	}
	tw.Flush()
}

func writePage(w io.Writer, page pagination.Page[models.MovieSummary]) {
	writeMovies(w, page.Items)
	if page.HasPager() {
		fmt.Fprintf(w, "\nPage %d of %d (%d movies)\n", page.Number, page.TotalPages, page.TotalItems)
	}
}

func writeUserMovies(w io.Writer, movies []models.UserMovie) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tDIRECTOR\tYOUR RATING")
	for _, m := range movies {
		stars := "-"
		if m.UserRating != nil {
			stars = fmt.Sprintf("%.1f/5", view.Stars(*m.UserRating))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Title, m.ReleaseYear, m.Director, stars)
	}
	tw.Flush()
}

func writeDetail(w io.Writer, st view.DetailState) {
	m := st.Movie
	fmt.Fprintf(w, "%s (%s)  %s\n", m.Name, m.Year, m.ID)

	var facts []string
	if m.Certificate != "" {
		facts = append(facts, m.Certificate)
	}
	if m.Runtime != "" {
		facts = append(facts, m.Runtime)
	}
	if len(m.Genres) > 0 {
		facts = append(facts, strings.Join(m.Genres, ", "))
	}
	if len(facts) > 0 {
		fmt.Fprintln(w, strings.Join(facts, " | "))
	}
	if m.RatingValue != nil {
		line := fmt.Sprintf("Rating: %.1f/10", *m.RatingValue)
		if m.RatingCount != nil {
			line += fmt.Sprintf(" (%d votes)", *m.RatingCount)
		}
		fmt.Fprintln(w, line)
	}
	if m.Director != nil {
		fmt.Fprintf(w, "Director: %s\n", m.Director.Name)
	}
	if len(m.Cast) > 0 {
		names := make([]string, 0, len(m.Cast))
		for _, p := range m.Cast {
			names = append(names, p.Name)
		}
		fmt.Fprintf(w, "Cast: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", m.Plot())

	if st.CanInteract {
		fmt.Fprintf(w, "\nYour rating: %.1f/5  Watchlist: %s  Favorite: %s\n",
			st.UserRating, yesNo(st.InWatchlist), yesNo(st.InFavorites))
	}
	if len(st.Related) > 0 {
		fmt.Fprintln(w, "\nYou might also like:")
		writeMovies(w, st.Related)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
