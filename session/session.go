package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/models"
)

var (
	ErrNotAuthenticated = errors.New("please log in to continue")
	ErrForbiddenRole    = errors.New("your account role does not allow this action")
	ErrInvalidRole      = errors.New("role must be owner or seeker")
	ErrMissingToken     = errors.New("backend did not return a token")
)

// Session is the auth state of one browser session: the persisted bearer
// token and, once validated, the user it belongs to. A user is only set
// while a token is stored.
type Session struct {
	id    string
	store TokenStore
	api   *client.Client

	initOnce sync.Once

	mu   sync.RWMutex
	user *models.User
}

// New binds a session to its token store. The returned session's API client
// authenticates with the session's own token.
func New(id string, store TokenStore, api *client.Client) *Session {
	s := &Session{id: id, store: store}
	s.api = api.WithTokenSource(s)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Token implements client.TokenSource.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.store.Get(ctx, s.id)
}

// Client returns the API client authenticated as this session.
func (s *Session) Client() *client.Client {
	return s.api
}

func (s *Session) User() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Init validates a persisted token once per session object. A token the
// backend does not accept is deleted and the session stays logged out.
func (s *Session) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		token, err := s.store.Get(ctx, s.id)
		if err != nil {
			log.Printf("Error reading token for session %s: %v", s.id, err)
			return
		}
		if token == "" {
			return
		}

		user, err := s.api.Auth().Me(ctx)
		if err != nil {
			log.Printf("Error fetching user for session %s, clearing token: %v", s.id, err)
			if err := s.store.Delete(ctx, s.id); err != nil {
				log.Printf("Error clearing token for session %s: %v", s.id, err)
			}
			s.setUser(nil)
			return
		}
		s.setUser(user)
	})
}

func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := s.api.Auth().Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

func (s *Session) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if !reg.Role.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidRole, reg.Role)
	}
	resp, err := s.api.Auth().Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

func (s *Session) establish(ctx context.Context, resp *models.AuthResponse) (*models.User, error) {
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	if err := s.store.Set(ctx, s.id, resp.Token); err != nil {
		return nil, err
	}
	user := resp.User
	s.setUser(&user)
	log.Printf("Session %s logged in as %s (%s)", s.id, user.Email, user.Role)
	return &user, nil
}

// Logout drops the token and the user. The in-memory user is cleared even
// when the store fails.
func (s *Session) Logout(ctx context.Context) error {
	s.setUser(nil)
	if err := s.store.Delete(ctx, s.id); err != nil {
		return err
	}
	log.Printf("Session %s logged out", s.id)
	return nil
}

// UpdateProfile saves profile changes and refreshes the cached user.
func (s *Session) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	if _, ok := s.User(); !ok {
		return nil, ErrNotAuthenticated
	}
	user, err := s.api.Auth().UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	return user, nil
}

// RequireRole checks the local user before any backend call is made.
func (s *Session) RequireRole(role models.Role) error {
	u, ok := s.User()
	if !ok {
		return ErrNotAuthenticated
	}
	if u.Role != role {
		return ErrForbiddenRole
	}
	return nil
}

// Reject ends the session when the backend refused the token sent with a
// request. Other errors, including a 401 for bad login credentials, are
// ignored. It reports whether the session was ended.
func (s *Session) Reject(ctx context.Context, err error) bool {
	if !client.IsTokenRejected(err) {
		return false
	}
	if _, ok := s.User(); !ok {
		return false
	}
	log.Printf("Backend rejected token for session %s, logging out", s.id)
	if err := s.Logout(ctx); err != nil {
		log.Printf("Error clearing rejected token for session %s: %v", s.id, err)
	}
	return true
}
