// Package apitest runs an in-memory stand-in for the remote movie REST
// service, for tests of the client, the session and the views.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"movie-discovery-frontend/internal/models"
)

type account struct {
	user      models.User
	password  string
	ratings   map[string]float64
	watchlist []string
	favorites []string
}

// Server is a fake movie API backed by maps.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	movies       map[string]models.MovieDetail
	order        []string
	accounts     map[string]*account
	tokens       map[string]string
	personalized []string
	recommended  []string
	related      map[string][]string
	hits         map[string]int
	failures     map[string]int
	nextID       int64
	nextToken    int
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		movies:   make(map[string]models.MovieDetail),
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		related:  make(map[string][]string),
		hits:     make(map[string]int),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/movies/{$}", s.listMovies)
	mux.HandleFunc("GET /api/movies/personalized/{$}", s.authed(s.personalizedMovies))
	mux.HandleFunc("GET /api/movies/recommendations/{$}", s.recommendations)
	mux.HandleFunc("GET /api/movies/{id}/{$}", s.getMovie)
	mux.HandleFunc("POST /api/movies/{id}/rate/{$}", s.authed(s.rateMovie))
	mux.HandleFunc("POST /api/movies/{id}/watchlist/{$}", s.authed(s.membership(func(a *account) *[]string { return &a.watchlist })))
	mux.HandleFunc("POST /api/movies/{id}/favorite/{$}", s.authed(s.membership(func(a *account) *[]string { return &a.favorites })))
	mux.HandleFunc("GET /api/user/{list}/{$}", s.authed(s.userList))
	mux.HandleFunc("DELETE /api/user/{list}/{id}/{$}", s.authed(s.removeFromList))
	mux.HandleFunc("POST /api/user/change-password/{$}", s.authed(s.changePassword))
	mux.HandleFunc("GET /api/auth/user/{$}", s.authed(s.currentUser))
	mux.HandleFunc("POST /api/auth/login/{$}", s.login)
	mux.HandleFunc("POST /api/auth/register/{$}", s.register)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.hits[key]++
		status, fail := s.failures[key]
		s.mu.Unlock()
		if fail {
			writeJSON(w, status, map[string]string{"detail": "injected failure"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// AddMovie registers a movie in the catalog.
func (s *Server) AddMovie(m models.MovieDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.movies[m.ID] = m
}

// AddMovies registers n movies with ids tt0000001..n.
func (s *Server) AddMovies(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("tt%07d", i)
		s.AddMovie(models.MovieDetail{ID: id, Name: fmt.Sprintf("Movie %d", i), Year: "2020", Genres: []string{"Drama"}})
		ids = append(ids, id)
	}
	return ids
}

// AddUser registers an account.
func (s *Server) AddUser(username, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addUserLocked(username, email, password)
}

func (s *Server) addUserLocked(username, email, password string) *account {
	s.nextID++
	a := &account{
		user:     models.User{ID: s.nextID, Username: username, Email: email},
		password: password,
		ratings:  make(map[string]float64),
	}
	s.accounts[username] = a
	return a
}

// IssueToken returns a valid token for username.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(username)
}

func (s *Server) issueTokenLocked(username string) string {
	s.nextToken++
	tok := fmt.Sprintf("tok-%s-%d", username, s.nextToken)
	s.tokens[tok] = username
	return tok
}

// SetPersonalized sets the ids returned by the personalized endpoint.
func (s *Server) SetPersonalized(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personalized = ids
}

// SetRecommended sets the ids of the user recommendation list.
func (s *Server) SetRecommended(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommended = ids
}

// SetRelated sets the "you may also like" ids of a movie.
func (s *Server) SetRelated(movieID string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.related[movieID] = ids
}

// SetList replaces one of a user's lists (favorites or watchlist).
func (s *Server) SetList(username, list string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	switch list {
	case "favorites":
		a.favorites = slices.Clone(ids)
	case "watchlist":
		a.watchlist = slices.Clone(ids)
	}
}

// Rate records a rating for a user directly.
func (s *Server) Rate(username, movieID string, rating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username].ratings[movieID] = rating
}

// List returns the ids in a user's favorites or watchlist.
func (s *Server) List(username, list string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	if list == "favorites" {
		return slices.Clone(a.favorites)
	}
	return slices.Clone(a.watchlist)
}

// Rating returns a user's stored rating for a movie.
func (s *Server) Rating(username, movieID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.accounts[username].ratings[movieID]
	return r, ok
}

// Password returns a user's current password.
func (s *Server) Password(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[username].password
}

// Fail makes every method+path request answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Recover removes an injected failure.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Hits returns how many method+path requests were received.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// TotalHits returns the number of requests received.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// ---- handlers ----

func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, status := s.caller(r)
		if a == nil {
			msg := "Authentication credentials were not provided."
			if status == http.StatusUnauthorized {
				msg = "Invalid token."
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": msg})
			return
		}
		next(w, r, a)
	}
}

// caller resolves the Authorization header. status is 401 for a bad token
// and 0 when no header was sent.
func (s *Server) caller(r *http.Request) (*account, int) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return nil, 0
	}
	tok, ok := strings.CutPrefix(h, "Token ")
	if !ok {
		return nil, http.StatusUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[tok]
	if !ok {
		return nil, http.StatusUnauthorized
	}
	return s.accounts[username], http.StatusOK
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

	s.mu.Lock()
	var out []models.MovieSummary
	for _, id := range s.order {
		m := s.movies[id]
		if term == "" || matches(m, term) {
			out = append(out, summary(m))
		}
	}
	s.mu.Unlock()

	if out == nil {
		out = []models.MovieSummary{}
	}
	if term != "" {
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusOK, models.MovieListEnvelope{Count: len(out), Results: out})
}

func matches(m models.MovieDetail, term string) bool {
	if strings.Contains(strings.ToLower(m.Name), term) {
		return true
	}
	if m.Director != nil && strings.Contains(strings.ToLower(m.Director.Name), term) {
		return true
	}
	for _, p := range m.Cast {
		if strings.Contains(strings.ToLower(p.Name), term) {
			return true
		}
	}
	return false
}

func (s *Server) summaries(ids []string) []models.MovieSummary {
	out := make([]models.MovieSummary, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			out = append(out, summary(m))
		}
	}
	return out
}

func (s *Server) personalizedMovies(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	out := s.summaries(s.personalized)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	movieID := r.URL.Query().Get("movie_id")
	if movieID == "" {
		s.authed(func(w http.ResponseWriter, _ *http.Request, _ *account) {
			s.mu.Lock()
			out := s.summaries(s.recommended)
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, out)
		})(w, r)
		return
	}

	s.mu.Lock()
	_, ok := s.movies[movieID]
	out := s.summaries(s.related[movieID])
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	a, _ := s.caller(r)

	s.mu.Lock()
	m, ok := s.movies[r.PathValue("id")]
	if ok && a != nil {
		if rating, rated := a.ratings[m.ID]; rated {
			m.UserRating = &rating
		}
		m.InWatchlist = slices.Contains(a.watchlist, m.ID)
		m.InFavorites = slices.Contains(a.favorites, m.ID)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) rateMovie(w http.ResponseWriter, r *http.Request, a *account) {
	var body struct {
		Rating *float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rating == nil || *body.Rating < 0 || *body.Rating > 10 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide a valid rating between 0 and 10"})
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.movies[id]
	if ok {
		a.ratings[id] = *body.Rating
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movie": id, "rating": *body.Rating})
}

func (s *Server) membership(list func(*account) *[]string) func(http.ResponseWriter, *http.Request, *account) {
	return func(w http.ResponseWriter, r *http.Request, a *account) {
		var body models.MembershipRequest
		_ = json.NewDecoder(r.Body).Decode(&body)

		id := r.PathValue("id")
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.movies[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		ids := list(a)
		switch body.Action {
		case models.ActionAdd:
			if !slices.Contains(*ids, id) {
				*ids = append(*ids, id)
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
		case models.ActionRemove:
			*ids = slices.DeleteFunc(*ids, func(v string) bool { return v == id })
			writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide a valid action (add or remove)"})
		}
	}
}

func (s *Server) userMovie(a *account, id string) models.UserMovie {
	m := s.movies[id]
	um := models.UserMovie{ID: id, Title: m.Name, ReleaseYear: m.Year}
	if m.Director != nil {
		um.Director = m.Director.Name
	}
	if r, ok := a.ratings[id]; ok {
		um.UserRating = &r
	}
	return um
}

func (s *Server) userList(w http.ResponseWriter, r *http.Request, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	switch r.PathValue("list") {
	case "rated-movies":
		for _, id := range s.order {
			if _, ok := a.ratings[id]; ok {
				ids = append(ids, id)
			}
		}
	case "favorites":
		ids = a.favorites
	case "watchlist":
		ids = a.watchlist
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	out := make([]models.UserMovie, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.userMovie(a, id))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) removeFromList(w http.ResponseWriter, r *http.Request, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids *[]string
	switch r.PathValue("list") {
	case "favorites":
		ids = &a.favorites
	case "watchlist":
		ids = &a.watchlist
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	id := r.PathValue("id")
	if !slices.Contains(*ids, id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	*ids = slices.DeleteFunc(*ids, func(v string) bool { return v == id })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request, a *account) {
	var body models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Malformed request."})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if body.CurrentPassword != a.password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Current password is incorrect."})
		return
	}
	a.password = body.NewPassword
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password updated."})
}

func (s *Server) currentUser(w http.ResponseWriter, _ *http.Request, a *account) {
	writeJSON(w, http.StatusOK, a.user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body models.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[body.Username]
	if !ok || a.password != body.Password {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Unable to log in with provided credentials."},
		})
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: s.issueTokenLocked(a.user.Username), User: a.user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "username and password are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[body.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
		return
	}
	a := s.addUserLocked(body.Username, body.Email, body.Password)
	writeJSON(w, http.StatusCreated, a.user)
}

func summary(m models.MovieDetail) models.MovieSummary {
	return models.MovieSummary{
		ID:          m.ID,
		Name:        m.Name,
		PosterURL:   m.PosterURL,
		Year:        m.Year,
		Genres:      m.Genres,
		RatingValue: m.RatingValue,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
