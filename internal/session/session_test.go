package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/apitest"
	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/tokenstore"
)

func setup(t *testing.T, stored string) (*Session, *apitest.Server, *tokenstore.MemoryStore) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("ana", "ana@example.com", "password1")
	store := tokenstore.NewMemoryStore(stored)
	return New(store, apiclient.NewClient(srv.URL)), srv, store
}

func stored(t *testing.T, s tokenstore.Store) string {
	t.Helper()
	tok, err := s.Load(context.Background())
	require.NoError(t, err)
	return tok
}

func TestInitialize_NoToken(t *testing.T) {
	s, srv, _ := setup(t, "")
	assert.Equal(t, StateResolving, s.State())

	require.NoError(t, s.Initialize(context.Background()))

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.Zero(t, srv.TotalHits())
	select {
	case <-s.Ready():
	default:
		t.Fatal("Ready not closed after Initialize")
	}
}

func TestInitialize_ValidToken(t *testing.T) {
	s, srv, store := setup(t, "")
	tok := srv.IssueToken("ana")
	require.NoError(t, store.Save(context.Background(), tok))

	require.NoError(t, s.Initialize(context.Background()))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, tok, s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "ana", s.User().Username)
	assert.Equal(t, tok, stored(t, store))
}

func TestInitialize_InvalidTokenClearsStorage(t *testing.T) {
	s, _, store := setup(t, "expired-token")

	require.NoError(t, s.Initialize(context.Background()))

	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Empty(t, stored(t, store))
}

func TestInitialize_NetworkFailureDegradesToAnonymous(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("GET", "/api/auth/user/", 502)
	store := tokenstore.NewMemoryStore("tok")
	s := New(store, apiclient.NewClient(srv.URL))

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, stored(t, store))
}

func TestInitialize_Twice(t *testing.T) {
	s, _, _ := setup(t, "")
	require.NoError(t, s.Initialize(context.Background()))
	assert.ErrorIs(t, s.Initialize(context.Background()), ErrAlreadyInitialized)
}

func TestLoginLogout(t *testing.T) {
	s, _, store := setup(t, "")
	require.NoError(t, s.Initialize(context.Background()))
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "ana", "password1"))
	assert.True(t, s.IsAuthenticated())
	assert.NotEmpty(t, s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "ana@example.com", s.User().Email)
	assert.Equal(t, s.Token(), stored(t, store))

	s.Logout(ctx)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Empty(t, stored(t, store))
}

func TestLogin_FailureKeepsPriorState(t *testing.T) {
	s, _, store := setup(t, "")
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "ana", "password1"))
	before := s.Token()

	err := s.Login(ctx, "ana", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Unable to log in with provided credentials.", apiclient.Detail(err))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, before, s.Token())
	assert.Equal(t, before, stored(t, store))
}

type failingStore struct{ tokenstore.MemoryStore }

func (f *failingStore) Save(context.Context, string) error { return errors.New("disk full") }
func (f *failingStore) Clear(context.Context) error        { return errors.New("disk gone") }

func TestLogin_PersistFailureLeavesAnonymous(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ana", "ana@example.com", "password1")
	s := New(&failingStore{}, apiclient.NewClient(srv.URL))
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	err := s.Login(ctx, "ana", "password1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
}

func TestLogout_CannotFail(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ana", "ana@example.com", "password1")
	fs := &failingStore{}
	s := New(fs, apiclient.NewClient(srv.URL))
	s.Logout(context.Background())

	assert.Equal(t, StateAnonymous, s.State())
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	s, srv, _ := setup(t, "")
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	require.NoError(t, s.Register(ctx, "bob", "bob@example.com", "hunter22"))
	assert.Equal(t, StateAnonymous, s.State())
	assert.Equal(t, 1, srv.Hits("POST", "/api/auth/register/"))

	err := s.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.Error(t, err)
	assert.Contains(t, apiclient.Detail(err), "already exists")

	require.NoError(t, s.Login(ctx, "bob", "hunter22"))
	assert.True(t, s.IsAuthenticated())
}

// blockingAuth holds CurrentUser until released, to observe the resolving window.
type blockingAuth struct {
	release chan struct{}
	user    *models.User
}

func (b *blockingAuth) CurrentUser(ctx context.Context, _ string) (*models.User, error) {
	<-b.release
	return b.user, nil
}

func (b *blockingAuth) Login(context.Context, string, string) (*models.LoginResponse, error) {
	return &models.LoginResponse{Token: "fresh", User: models.User{Username: "bob"}}, nil
}

func (b *blockingAuth) Register(context.Context, models.RegisterRequest) error { return nil }

func TestInitialize_ResolvingIsObservable(t *testing.T) {
	auth := &blockingAuth{release: make(chan struct{}), user: &models.User{Username: "ana"}}
	s := New(tokenstore.NewMemoryStore("old"), auth)

	done := make(chan struct{})
	go func() {
		_ = s.Initialize(context.Background())
		close(done)
	}()

	assert.Equal(t, StateResolving, s.State())
	assert.Empty(t, s.Token(), "no token before the user is resolved")
	assert.Nil(t, s.User())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)

	close(auth.release)
	<-done
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, "ana", s.User().Username)
	assert.Equal(t, "old", s.Token())
}

func TestInitialize_LoginDuringResolveWins(t *testing.T) {
	auth := &blockingAuth{release: make(chan struct{}), user: &models.User{Username: "ana"}}
	store := tokenstore.NewMemoryStore("old")
	s := New(store, auth)

	done := make(chan struct{})
	go func() {
		_ = s.Initialize(context.Background())
		close(done)
	}()

	require.NoError(t, s.Login(context.Background(), "bob", "pw"))
	close(auth.release)
	<-done

	assert.Equal(t, "bob", s.User().Username)
	assert.Equal(t, "fresh", s.Token())
	assert.Equal(t, "fresh", stored(t, store))
}

func TestSnapshot(t *testing.T) {
	s, _, _ := setup(t, "")
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "ana", "password1"))

	snap := s.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	snap.User.Username = "mutated"
	assert.Equal(t, "ana", s.User().Username)

	text, err := snap.State.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "authenticated", string(text))
}
