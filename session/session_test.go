package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/models"
)

var owner = models.User{ID: "u1", Email: "asha@example.com", Name: "Asha", Role: models.RoleOwner}

// fakeBackend accepts "good-token" only and records the Authorization header
// of every request it sees.
type fakeBackend struct {
	mu     sync.Mutex
	auths  []string
	meHits int
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auths = append(b.auths, r.Header.Get("Authorization"))
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auths) == 0 {
		return ""
	}
	return b.auths[len(b.auths)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newBackend(t *testing.T) (*fakeBackend, *client.Client) {
	t.Helper()
	b := &fakeBackend{}
	router := mux.NewRouter()
	router.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.mu.Lock()
		b.meHits++
		b.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer good-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, owner)
	}).Methods(http.MethodGet)
	router.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		var creds models.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: "good-token", User: owner})
	}).Methods(http.MethodPost)
	router.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		var reg models.Registration
		json.NewDecoder(r.Body).Decode(&reg)
		writeJSON(w, http.StatusCreated, models.AuthResponse{
			Token: "good-token",
			User:  models.User{ID: "u2", Email: reg.Email, Name: reg.Name, Role: reg.Role},
		})
	}).Methods(http.MethodPost)
	router.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		var upd models.ProfileUpdate
		json.NewDecoder(r.Body).Decode(&upd)
		u := owner
		u.Name = upd.Name
		writeJSON(w, http.StatusOK, u)
	}).Methods(http.MethodPut)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return b, client.New(srv.URL)
}

func TestInit_ValidTokenLoadsUser(t *testing.T) {
	b, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "s1", "good-token"))

	s := New("s1", store, api)
	s.Init(ctx)
	s.Init(ctx)

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, owner, *u)
	assert.Equal(t, 1, b.meHits)
	assert.Equal(t, "Bearer good-token", b.lastAuth())
}

func TestInit_RejectedTokenIsCleared(t *testing.T) {
	_, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "s1", "stale-token"))

	s := New("s1", store, api)
	s.Init(ctx)

	_, ok := s.User()
	assert.False(t, ok)
	token, _ := store.Get(ctx, "s1")
	assert.Empty(t, token)
}

func TestInit_NoTokenSkipsBackend(t *testing.T) {
	b, api := newBackend(t)
	s := New("s1", NewMemoryStore(), api)
	s.Init(context.Background())

	_, ok := s.User()
	assert.False(t, ok)
	assert.Zero(t, b.meHits)
}

func TestLogin(t *testing.T) {
	b, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("s1", store, api)

	u, err := s.Login(ctx, owner.Email, "secret")
	require.NoError(t, err)
	assert.Contains(t, []models.Role{models.RoleOwner, models.RoleSeeker}, u.Role)

	token, _ := store.Get(ctx, "s1")
	assert.Equal(t, "good-token", token)
	assert.Empty(t, b.lastAuth())

	_, err = s.Client().Auth().Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer good-token", b.lastAuth())
}

func TestLogin_RejectedPersistsNothing(t *testing.T) {
	_, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("s1", store, api)

	_, err := s.Login(ctx, owner.Email, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	token, _ := store.Get(ctx, "s1")
	assert.Empty(t, token)
	_, ok := s.User()
	assert.False(t, ok)
}

func TestLogin_FailedRetryKeepsSession(t *testing.T) {
	_, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("s1", store, api)
	_, err := s.Login(ctx, owner.Email, "secret")
	require.NoError(t, err)

	_, err = s.Login(ctx, owner.Email, "wrong")
	require.Error(t, err)
	assert.False(t, s.Reject(ctx, err))

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, owner.ID, u.ID)
	token, _ := store.Get(ctx, "s1")
	assert.Equal(t, "good-token", token)
}

func TestRegister(t *testing.T) {
	_, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("s1", store, api)

	_, err := s.Register(ctx, models.Registration{Email: "x@example.com", Password: "pw", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	u, err := s.Register(ctx, models.Registration{Email: "x@example.com", Password: "pw", Name: "X", Role: models.RoleSeeker})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeeker, u.Role)
	token, _ := store.Get(ctx, "s1")
	assert.Equal(t, "good-token", token)
}

func TestLogout(t *testing.T) {
	_, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("s1", store, api)
	_, err := s.Login(ctx, owner.Email, "secret")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))

	_, ok := s.User()
	assert.False(t, ok)
	token, _ := store.Get(ctx, "s1")
	assert.Empty(t, token)
}

func TestUpdateProfile(t *testing.T) {
	_, api := newBackend(t)
	ctx := context.Background()
	s := New("s1", NewMemoryStore(), api)

	_, err := s.UpdateProfile(ctx, models.ProfileUpdate{Name: "New"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = s.Login(ctx, owner.Email, "secret")
	require.NoError(t, err)
	u, err := s.UpdateProfile(ctx, models.ProfileUpdate{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", u.Name)

	cached, _ := s.User()
	assert.Equal(t, "New", cached.Name)
}

func TestRequireRole(t *testing.T) {
	_, api := newBackend(t)
	ctx := context.Background()
	s := New("s1", NewMemoryStore(), api)

	assert.ErrorIs(t, s.RequireRole(models.RoleOwner), ErrNotAuthenticated)

	_, err := s.Login(ctx, owner.Email, "secret")
	require.NoError(t, err)
	assert.NoError(t, s.RequireRole(models.RoleOwner))
	assert.ErrorIs(t, s.RequireRole(models.RoleSeeker), ErrForbiddenRole)
}

func TestReject(t *testing.T) {
	_, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("s1", store, api)
	_, err := s.Login(ctx, owner.Email, "secret")
	require.NoError(t, err)

	assert.False(t, s.Reject(ctx, &client.StatusError{Status: http.StatusForbidden, Message: "no"}))
	_, ok := s.User()
	assert.True(t, ok)

	assert.False(t, s.Reject(ctx, &client.StatusError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}))
	_, ok = s.User()
	assert.True(t, ok)

	assert.True(t, s.Reject(ctx, &client.StatusError{Status: http.StatusUnauthorized, Message: "expired", Authenticated: true}))
	_, ok = s.User()
	assert.False(t, ok)
	token, _ := store.Get(ctx, "s1")
	assert.Empty(t, token)
}

func TestManager(t *testing.T) {
	b, api := newBackend(t)
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "known", "good-token"))

	m := NewManager(store, api)
	s1 := m.Get(ctx, "known")
	s2 := m.Get(ctx, "known")
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, b.meHits)
	_, ok := s1.User()
	assert.True(t, ok)

	anon := m.Get(ctx, NewSessionID())
	_, ok = anon.User()
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())

	assert.Zero(t, m.Sweep(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, m.Sweep(time.Millisecond))
	assert.Zero(t, m.Len())

	token, _ := store.Get(ctx, "known")
	assert.Equal(t, "good-token", token)
}

func TestManager_Forget(t *testing.T) {
	_, api := newBackend(t)
	m := NewManager(NewMemoryStore(), api)
	m.Get(context.Background(), "a")
	m.Forget("a")
	assert.Zero(t, m.Len())
}
