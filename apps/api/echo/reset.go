package echoapi

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

var (
	resetSalt = []byte("masomo.portal.api.password_reset")

	// errors
	errInvalidResetToken = errors.New("invalid token")
	errResetTokenExpired = errors.New("token expired")
)

const passwordResetText = `Hi {{.Data.Name}},

You asked to reset your password. Follow the link below to choose a new one:

{{.FrontendBaseURL}}/create-new-password/?otp={{.Data.OTP}}&uuidb64={{.Data.UUIDB64}}

If you did not ask for it, you can ignore this email.
`

const passwordResetHTML = `<p>Hi {{.Data.Name}},</p>
<p>You asked to reset your password.
<a href="{{.FrontendBaseURL}}/create-new-password/?otp={{.Data.OTP}}&uuidb64={{.Data.UUIDB64}}">Choose a new one</a>.</p>
<p>If you did not ask for it, you can ignore this email.</p>
`

// resetTokens makes and checks the one-time passwords of password reset links.
// A token is only valid until the user's password changes or they log in again.
type resetTokens struct {
	secret  []byte
	timeout time.Duration
}

func newResetTokens(conf *core.Config) resetTokens {
	return resetTokens{secret: []byte(conf.SecretKey), timeout: conf.Server.PasswordResetTimeoutDelta}
}

// encodeUID base64 encodes given User ID
func encodeUID(id int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(id)))
}

// decodeUID base64 decodes given UID
func decodeUID(uid string) (int, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, errInvalidResetToken
	}
	id, err := strconv.Atoi(string(idBytes))
	if err != nil {
		return 0, errInvalidResetToken
	}
	return id, nil
}

func (rt resetTokens) make(usr memdb.User) string {
	return rt.makeWithTimestamp(usr, numDaysSince2001(nowFunc()))
}

func (rt resetTokens) verify(usr memdb.User, token string) error {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidResetToken
	}

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return errInvalidResetToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidResetToken
	}

	// check that token has not been tampered with
	if subtle.ConstantTimeCompare([]byte(rt.makeWithTimestamp(usr, ts)), []byte(token)) == 0 {
		return errInvalidResetToken
	}

	// check that the timestamp is within limit
	if (numDaysSince2001(nowFunc()) - ts) > int(rt.timeout/(24*time.Hour)) {
		return errResetTokenExpired
	}
	return nil
}

func (rt resetTokens) makeWithTimestamp(usr memdb.User, ts int) string {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	return fmt.Sprintf("%s-%s", tsB32, rt.sign(hashValue(usr, ts)))
}

func (rt resetTokens) sign(val []byte) string {
	key := sha256.Sum256(append(append([]byte(nil), resetSalt...), rt.secret...))
	h := hmac.New(sha256.New, key[:])
	_, _ = h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func hashValue(usr memdb.User, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(strconv.Itoa(usr.ID))
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.UTC().String())
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}

func (s *Server) passwordResetEmail(usr memdb.User) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject:      "Password Reset",
		TextTemplate: passwordResetText,
		HTMLTemplate: passwordResetHTML,
		TemplateData: map[string]string{
			"Name":    usr.FullName,
			"OTP":     s.resets.make(usr),
			"UUIDB64": encodeUID(usr.ID),
		},
	}
}
