// Package session holds the identity of the signed-in user.
//
// The identity is never stored on its own: it is decoded from the access token every time,
// the tokens being the only persisted state (the cookie analogue of a browser client).
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotLoggedIn  = errors.New("user not logged in")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserID    int    `json:"user_id"`
	TeacherID int    `json:"teacher_id,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Identity is the decoded view of the signed-in user.
type Identity struct {
	UserID    int
	TeacherID int
	FullName  string
	Email     string
	Username  string
	ExpiresAt time.Time
}

// IsTeacher reports whether the user owns an instructor profile.
func (id Identity) IsTeacher() bool { return id.TeacherID != 0 }

// Store keeps the session tokens in the local storage.
type Store struct {
	storage core.Storage
	mu      sync.RWMutex
}

func NewStore(storage core.Storage) *Store {
	return &Store{storage: storage}
}

// Decode reads the claims of a token without verifying its signature.
func Decode(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Identity{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if claims.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}
	id := Identity{
		UserID:    claims.UserID,
		TeacherID: claims.TeacherID,
		FullName:  claims.FullName,
		Email:     claims.Email,
		Username:  claims.Username,
	}
	if claims.ExpiresAt > 0 {
		id.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	return id, nil
}

// SetTokens stores a freshly issued token pair. The access token must be decodable.
func (s *Store) SetTokens(access, refresh string) error {
	if _, err := Decode(access); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(accessTokenKey, access); err != nil {
		return errors.Wrap(err, "storing access token")
	}
	if err := s.storage.Set(refreshTokenKey, refresh); err != nil {
		return errors.Wrap(err, "storing refresh token")
	}
	return nil
}

// AccessToken returns the stored access token, or "" when there is none.
func (s *Store) AccessToken() string {
	return s.get(accessTokenKey)
}

func (s *Store) RefreshToken() string {
	return s.get(refreshTokenKey)
}

func (s *Store) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok, err := s.storage.Get(key)
	if err != nil || !ok {
		return ""
	}
	return val
}

// Identity decodes the current access token. Expired tokens count as logged out.
func (s *Store) Identity() (Identity, error) {
	token := s.AccessToken()
	if token == "" {
		return Identity{}, ErrNotLoggedIn
	}
	id, err := Decode(token)
	if err != nil {
		return Identity{}, ErrNotLoggedIn
	}
	if !id.ExpiresAt.IsZero() && NowFunc().After(id.ExpiresAt) {
		return Identity{}, ErrNotLoggedIn
	}
	return id, nil
}

func (s *Store) IsLoggedIn() bool {
	_, err := s.Identity()
	return err == nil
}

// UserID returns the signed-in user's id, 0 when logged out.
func (s *Store) UserID() int {
	id, _ := s.Identity()
	return id.UserID
}

// TeacherID returns the signed-in user's instructor id, 0 when logged out or not a teacher.
func (s *Store) TeacherID() int {
	id, _ := s.Identity()
	return id.TeacherID
}

// Clear logs the user out.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(accessTokenKey); err != nil {
		return errors.Wrap(err, "deleting access token")
	}
	if err := s.storage.Delete(refreshTokenKey); err != nil {
		return errors.Wrap(err, "deleting refresh token")
	}
	return nil
}
