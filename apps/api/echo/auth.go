package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

const (
	contextTokenKey = "userToken"

	accessAudience  = "access"
	refreshAudience = "refresh"
)

var nowFunc = time.Now // mockable

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(session.Claims),
	}
}

// userClaims builds the claims of one of the user's tokens.
func (s *Server) userClaims(usr memdb.User, audience string) *session.Claims {
	now := nowFunc()
	ttl := s.conf.Server.JWTExpirationDelta
	if audience == refreshAudience {
		ttl += s.conf.Server.JWTRefreshExpirationDelta
	}

	claims := &session.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			Audience:  audience,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID:   usr.ID,
		FullName: usr.FullName,
		Email:    usr.Email,
		Username: usr.Username,
	}
	if teacher, ok := s.db.TeacherOf(usr.ID); ok {
		claims.TeacherID = teacher.ID
	}
	return claims
}

// generateToken signs the claims with the server's secret key.
func (s *Server) generateToken(claims *session.Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwtConf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwtConf.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (s *Server) issueTokens(usr memdb.User) (access, refresh string, err error) {
	if access, err = s.generateToken(s.userClaims(usr, accessAudience)); err != nil {
		return "", "", err
	}
	if refresh, err = s.generateToken(s.userClaims(usr, refreshAudience)); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// parseRefreshToken verifies a refresh token and returns its claims.
func (s *Server) parseRefreshToken(token string) (*session.Claims, error) {
	claims := new(session.Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.jwtConf.SigningMethod {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtConf.SigningKey, nil
	})
	if err != nil || claims.Audience != refreshAudience {
		return nil, errInvalidRefresh
	}
	return claims, nil
}

// authenticate checks the credentials of a login attempt and records the login.
func (s *Server) authenticate(email, pwd string) (memdb.User, error) {
	usr, err := s.db.UserByEmail(email)
	if err != nil {
		if err == memdb.ErrNotFound {
			return memdb.User{}, errAuthenticationFailed
		}
		return memdb.User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return memdb.User{}, errAuthenticationFailed
	}
	usr.LastLogin = nowFunc().UTC()
	if err = s.db.UpdateUser(usr); err != nil {
		return memdb.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

func getContextClaims(ctx echo.Context) (session.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*session.Claims); ok {
			return *claims, nil
		}
	}
	return session.Claims{}, errUnauthorized
}

// contextIdentity is the identity attached to error reports.
func contextIdentity(ctx echo.Context) session.Identity {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return session.Identity{}
	}
	return session.Identity{
		UserID:    claims.UserID,
		TeacherID: claims.TeacherID,
		FullName:  claims.FullName,
		Email:     claims.Email,
		Username:  claims.Username,
	}
}
