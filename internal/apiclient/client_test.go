package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/apitest"
	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/validation"
)

func setup(t *testing.T) (*apitest.Server, *apiclient.Client) {
	t.Helper()
	srv := apitest.New(t)
	return srv, apiclient.NewClient(srv.URL+"/", apiclient.WithTimeout(2*time.Second))
}

func TestListMovies_AcceptsEnvelopeAndArray(t *testing.T) {
	srv, c := setup(t)
	srv.AddMovie(models.MovieDetail{ID: "tt1", Name: "Heat", Director: &models.Person{Name: "Michael Mann"}})
	srv.AddMovie(models.MovieDetail{ID: "tt2", Name: "Alien"})
	ctx := context.Background()

	// no search term: the service answers with the paginated envelope
	all, err := c.ListMovies(ctx, apiclient.Anonymous, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Heat", all[0].Name)

	// search: the service answers with a bare array
	found, err := c.ListMovies(ctx, apiclient.Anonymous, "mann")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "tt1", found[0].ID)

	none, err := c.ListMovies(ctx, apiclient.Anonymous, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetMovie_UserFlags(t *testing.T) {
	srv, c := setup(t)
	srv.AddMovie(models.MovieDetail{ID: "tt1", Name: "Heat"})
	srv.AddUser("ana", "ana@example.com", "pw")
	srv.SetList("ana", "watchlist", "tt1")
	srv.Rate("ana", "tt1", 8)
	tok := srv.IssueToken("ana")
	ctx := context.Background()

	anon, err := c.GetMovie(ctx, nil, "tt1")
	require.NoError(t, err)
	assert.False(t, anon.InWatchlist)
	assert.Nil(t, anon.UserRating)

	m, err := c.GetMovie(ctx, apiclient.StaticToken(tok), "tt1")
	require.NoError(t, err)
	assert.True(t, m.InWatchlist)
	require.NotNil(t, m.UserRating)
	assert.Equal(t, 8.0, *m.UserRating)

	_, err = c.GetMovie(ctx, nil, "missing")
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestAuthenticatedCalls_SendTokenHeader(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := apiclient.NewClient(ts.URL)
	_, err := c.UserList(context.Background(), apiclient.StaticToken("abc"), apiclient.ListFavorites)
	require.NoError(t, err)
	assert.Equal(t, "Token abc", got)

	_, err = c.ListMovies(context.Background(), apiclient.Anonymous, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMutations(t *testing.T) {
	srv, c := setup(t)
	srv.AddMovie(models.MovieDetail{ID: "tt1", Name: "Heat"})
	srv.AddUser("ana", "ana@example.com", "password1")
	creds := apiclient.StaticToken(srv.IssueToken("ana"))
	ctx := context.Background()

	require.NoError(t, c.RateMovie(ctx, creds, "tt1", 7))
	r, ok := srv.Rating("ana", "tt1")
	require.True(t, ok)
	assert.Equal(t, 7.0, r)

	require.NoError(t, c.UpdateWatchlist(ctx, creds, "tt1", models.ActionAdd))
	assert.Equal(t, []string{"tt1"}, srv.List("ana", "watchlist"))

	require.NoError(t, c.UpdateFavorites(ctx, creds, "tt1", models.ActionAdd))
	favs, err := c.UserList(ctx, creds, apiclient.ListFavorites)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Heat", favs[0].Title)

	require.NoError(t, c.RemoveFromList(ctx, creds, apiclient.ListFavorites, "tt1"))
	assert.Empty(t, srv.List("ana", "favorites"))

	require.NoError(t, c.ChangePassword(ctx, creds, models.ChangePasswordRequest{
		CurrentPassword: "password1", NewPassword: "password2",
	}))
	assert.Equal(t, "password2", srv.Password("ana"))
}

func TestMutations_ValidatedBeforeSending(t *testing.T) {
	srv, c := setup(t)
	ctx := context.Background()

	var verr *validation.Error
	assert.ErrorAs(t, c.RateMovie(ctx, apiclient.StaticToken("x"), "tt1", 12), &verr)
	assert.ErrorAs(t, c.UpdateWatchlist(ctx, apiclient.StaticToken("x"), "tt1", "flip"), &verr)
	assert.ErrorAs(t, c.Register(ctx, models.RegisterRequest{Username: "a", Email: "bad", Password: "p"}), &verr)
	assert.Zero(t, srv.TotalHits())
}

func TestErrors_CarryRemoteDetail(t *testing.T) {
	srv, c := setup(t)
	srv.AddUser("ana", "ana@example.com", "password1")
	creds := apiclient.StaticToken(srv.IssueToken("ana"))
	ctx := context.Background()

	err := c.ChangePassword(ctx, creds, models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "password2"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apiclient.StatusCode(err))
	assert.Equal(t, "Current password is incorrect.", apiclient.Detail(err))

	_, err = c.Login(ctx, "ana", "nope")
	require.Error(t, err)
	assert.Equal(t, "Unable to log in with provided credentials.", apiclient.Detail(err))

	err = c.Register(ctx, models.RegisterRequest{Username: "ana", Email: "a@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "username: A user with that username already exists.", apiclient.Detail(err))

	_, err = c.CurrentUser(ctx, "bogus")
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestLoginAndCurrentUser(t *testing.T) {
	srv, c := setup(t)
	srv.AddUser("ana", "ana@example.com", "password1")
	ctx := context.Background()

	resp, err := c.Login(ctx, "ana", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana", resp.User.Username)

	u, err := c.CurrentUser(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
}

func TestLogin_RejectsIncompleteResponse(t *testing.T) {
	cases := map[string]string{
		"no token": `{"user":{"id":1,"username":"ana"}}`,
		"no user":  `{"token":"abc123"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()

			c := apiclient.NewClient(ts.URL+"/", apiclient.WithTimeout(2*time.Second))
			resp, err := c.Login(context.Background(), "ana", "password1")
			require.Error(t, err)
			assert.Nil(t, resp)
		})
	}
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := apiclient.NewClient(url)
	_, err := c.ListMovies(context.Background(), nil, "")
	require.Error(t, err)
	assert.Zero(t, apiclient.StatusCode(err))
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := apiclient.NewClient(ts.URL).GetMovie(ctx, nil, "tt1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
