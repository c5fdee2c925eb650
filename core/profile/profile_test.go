package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/services/notify"
)

type fakeBackend struct {
	profile Profile
	forms   []Form
}

func (b *fakeBackend) Profile(_ context.Context, _ int) (Profile, error) {
	return b.profile, nil
}

func (b *fakeBackend) UpdateProfile(_ context.Context, _ int, form Form) (Profile, error) {
	b.forms = append(b.forms, form)
	b.profile.FullName, b.profile.About, b.profile.Country = form.FullName, form.About, form.Country
	if form.ImagePath != "" {
		b.profile.Image = "/media/" + filepath.Base(form.ImagePath)
	}
	return b.profile, nil
}

func TestEditor(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{profile: Profile{ID: 1, User: 1, FullName: "Jane", About: "hi", Country: "Kenya", Image: "/media/old.png"}}
	notifier := new(notify.Recorder)
	ed := NewEditor(backend, notifier, nil, 1)

	_, err := ed.Load(ctx)
	require.NoError(t, err)

	// blank fields keep their value, the image is left alone
	p, err := ed.Update(ctx, Form{About: "Gopher"})
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: 1, User: 1, FullName: "Jane", About: "Gopher", Country: "Kenya", Image: "/media/old.png"}, p)

	_, err = ed.Update(ctx, Form{ImagePath: filepath.Join(t.TempDir(), "missing.png")})
	assert.Error(t, err)
	assert.Len(t, backend.forms, 1)

	img := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o600))
	p, err = ed.Update(ctx, Form{ImagePath: img})
	require.NoError(t, err)
	assert.Equal(t, "/media/avatar.png", p.Image)
	assert.Equal(t, 2, notifier.Count(notify.LevelSuccess))
}
