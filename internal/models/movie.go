package models

// Person is a director or cast member of a movie.
type Person struct {
	NameID string `json:"name_id"`
	Name   string `json:"name"`
}

// MovieSummary is the list shape the catalog, search and recommendation
// endpoints return.
type MovieSummary struct {
	ID          string   `json:"imdb_id"`
	Name        string   `json:"name"`
	PosterURL   string   `json:"poster_url,omitempty"`
	Year        string   `json:"year,omitempty"`
	Genres      []string `json:"genres"`
	RatingValue *float64 `json:"rating_value,omitempty"`
}

// MovieDetail is the response shape for a single movie.
type MovieDetail struct {
	ID          string   `json:"imdb_id"`
	Name        string   `json:"name"`
	PosterURL   string   `json:"poster_url,omitempty"`
	Year        string   `json:"year,omitempty"`
	Certificate string   `json:"certificate,omitempty"`
	Runtime     string   `json:"runtime,omitempty"`
	Genres      []string `json:"genres"`
	RatingValue *float64 `json:"rating_value,omitempty"`
	RatingCount *int64   `json:"rating_count,omitempty"`
	SummaryText string   `json:"summary_text,omitempty"`
	Director    *Person  `json:"director,omitempty"`
	Cast        []Person `json:"cast"`
	UserRating  *float64 `json:"user_rating"`
	InWatchlist bool     `json:"in_watchlist"`
	InFavorites bool     `json:"in_favorites"`
}

// MissingPlot is the placeholder the catalog uses for movies without a summary.
const MissingPlot = "Add a Plot"

// Plot returns the summary text, or a fallback when the catalog has none.
func (m *MovieDetail) Plot() string {
	if m.SummaryText == "" || m.SummaryText == MissingPlot {
		return "No plot summary available for this movie."
	}
	return m.SummaryText
}

// UserMovie is an entry of the rated, favorites and watchlist lists.
type UserMovie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear string   `json:"release_year,omitempty"`
	Director    string   `json:"director,omitempty"`
	UserRating  *float64 `json:"user_rating,omitempty"`
}

// MovieListEnvelope is the paginated listing shape. The catalog endpoint may
// also answer with a bare array.
type MovieListEnvelope struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []MovieSummary `json:"results"`
}
