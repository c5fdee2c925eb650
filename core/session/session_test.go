package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/storage/localstore"
)

func makeToken(t *testing.T, claims Claims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestStore(t *testing.T) {
	now := time.Now()
	store := NewStore(localstore.NewMemory())

	assert.False(t, store.IsLoggedIn())
	assert.Zero(t, store.UserID())
	_, err := store.Identity()
	assert.Equal(t, ErrNotLoggedIn, err)

	access := makeToken(t, Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: now.Add(time.Hour).Unix()},
		UserID:         7,
		TeacherID:      3,
		FullName:       "Awe Some",
		Email:          "awe@test.cd",
	})
	require.NoError(t, store.SetTokens(access, "refresh"))

	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, 7, store.UserID())
	assert.Equal(t, 3, store.TeacherID())
	assert.Equal(t, "refresh", store.RefreshToken())
	id, err := store.Identity()
	require.NoError(t, err)
	assert.Equal(t, "Awe Some", id.FullName)
	assert.True(t, id.IsTeacher())

	// expired
	NowFunc = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, store.IsLoggedIn())
	NowFunc = time.Now // reset

	require.NoError(t, store.Clear())
	assert.False(t, store.IsLoggedIn())
	assert.Empty(t, store.AccessToken())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
		wantID  int
	}{
		{name: "empty", token: "  ", wantErr: true},
		{name: "garbage", token: "lol.lmao.mdr", wantErr: true},
		{name: "no user", token: makeToken(t, Claims{Email: "x@test.cd"}), wantErr: true},
		{name: "valid", token: makeToken(t, Claims{UserID: 42}), wantID: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Decode(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id.UserID)
			assert.True(t, id.ExpiresAt.IsZero())
		})
	}
}

func TestStore_SetTokens_rejectsGarbage(t *testing.T) {
	store := NewStore(localstore.NewMemory())
	assert.Error(t, store.SetTokens("nope", "nope"))
	assert.False(t, store.IsLoggedIn())
}
