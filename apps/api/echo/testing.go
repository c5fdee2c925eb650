package echoapi

import (
	"io"
	"log"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/trezcool/masomo-portal/core"
	emailsvc "github.com/trezcool/masomo-portal/services/email"
	logsvc "github.com/trezcool/masomo-portal/services/logger"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

// TestServer is a seeded backend listening on a local port, for tests.
type TestServer struct {
	*httptest.Server
	API      *Server
	Conf     *core.Config
	DB       *memdb.DB
	Fixtures memdb.Fixtures
	Mailer   *emailsvc.ConsoleService
}

func NewTestServer(t testing.TB) *TestServer {
	t.Helper()

	srv := httptest.NewUnstartedServer(nil)
	publicURL := "http://" + srv.Listener.Addr().String()

	conf := &core.Config{
		Env:              "TEST",
		AppName:          "Masomo",
		TestMode:         true,
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@localhost"},
		API: core.APIConfig{
			BaseURL:       publicURL + "/api/v1/",
			Timeout:       5 * time.Second,
			UploadTimeout: 10 * time.Second,
		},
		Server: core.ServerConfig{
			PublicURL:                 publicURL,
			MediaDir:                  t.TempDir(),
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
			DisableReqLogs:            true,
		},
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "API : ", 0), conf)

	db := memdb.Open()
	fx, err := memdb.Seed(db, publicURL+"/media/")
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	mailer := emailsvc.NewConsoleService(conf, nil, logger)

	api := NewServer(ServerDeps{
		Conf:      conf,
		Logger:    logger,
		DB:        db,
		Mailer:    mailer,
		Validator: core.NewValidator(),
	})
	srv.Config.Handler = api
	srv.Start()
	t.Cleanup(srv.Close)

	return &TestServer{
		Server:   srv,
		API:      api,
		Conf:     conf,
		DB:       db,
		Fixtures: fx,
		Mailer:   mailer,
	}
}

// Token returns an access token of the user.
func (ts *TestServer) Token(t testing.TB, userID int) string {
	t.Helper()
	usr, err := ts.DB.UserByID(userID)
	if err != nil {
		t.Fatalf("finding user %d: %v", userID, err)
	}
	token, err := ts.API.generateToken(ts.API.userClaims(usr, accessAudience))
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}
