package certificate

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/services/notify"
)

type fakeBackend struct{ err error }

func (b fakeBackend) Certificate(_ context.Context, userID int, certificateID string) (Certificate, error) {
	if b.err != nil {
		return Certificate{}, b.err
	}
	return Certificate{
		ID:                1,
		CertificateID:     certificateID,
		StudentName:       "Jane Doe",
		CourseTitle:       "Concurrency in Go",
		CourseLevel:       "Intermediate",
		CourseDescription: "Goroutines, channels and the sync package.",
		TeacherName:       "Rob",
		CompletionDate:    "2024-05-01T10:00:00Z",
		IssueDate:         "2024-05-02",
		Status:            "active",
		Metadata:          map[string]interface{}{"skills": []interface{}{"goroutines", "channels", 42}},
		User:              UserInfo{ID: userID},
	}, nil
}

type fakePrinter struct {
	paths  []string
	exists bool
	err    error
}

func (p *fakePrinter) Print(_ context.Context, path string) error {
	p.paths = append(p.paths, path)
	_, err := os.Stat(path)
	p.exists = err == nil
	return p.err
}

type fakeSharer struct {
	shared []ShareData
	err    error
}

func (s *fakeSharer) Share(_ context.Context, data ShareData) error {
	s.shared = append(s.shared, data)
	return s.err
}

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

func TestCertificate_helpers(t *testing.T) {
	cert, _ := fakeBackend{}.Certificate(context.Background(), 1, "a1b2c3d4e5f6")

	assert.Equal(t, []string{"goroutines", "channels"}, cert.Skills())
	assert.Equal(t, "a1b2c3d4", cert.Reference())
	assert.Equal(t, "certificate-a1b2c3d4e5f6.jpg", cert.FileName())
	assert.Equal(t, "May 1, 2024", LongDate(cert.CompletionDate))
	assert.Equal(t, "5/2/2024", ShortDate(cert.IssueDate))
	assert.Equal(t, "someday", LongDate("someday"))
}

func TestRender(t *testing.T) {
	cert, _ := fakeBackend{}.Certificate(context.Background(), 1, "a1b2c3d4e5f6")
	img := Render(cert, Layout{})

	assert.Equal(t, Width*Scale, img.Bounds().Dx())
	assert.Equal(t, Height*Scale, img.Bounds().Dy())

	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "white background")

	// something was drawn on the page
	var inked bool
	white := color.RGBAModel.Convert(color.White)
	for y := 0; y < img.Bounds().Dy() && !inked; y += 7 {
		for x := 0; x < img.Bounds().Dx(); x += 7 {
			if color.RGBAModel.Convert(img.At(x, y)) != white {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked)
}

func newViewer(deps ViewerDeps) (*Viewer, *notify.Recorder) {
	notifier := new(notify.Recorder)
	deps.Notifier = notifier
	if deps.Backend == nil {
		deps.Backend = fakeBackend{}
	}
	deps.PublicURL = "http://localhost:3000/"
	return NewViewer(deps, 1), notifier
}

func TestViewer_Load(t *testing.T) {
	v, notifier := newViewer(ViewerDeps{Backend: fakeBackend{err: errors.New("boom")}})

	_, err := v.Load(context.Background(), "abc")
	require.Error(t, err)
	last, _ := notifier.Last()
	assert.Equal(t, notify.Toast{Level: notify.LevelError, Title: "Failed to load certificate. Please try again later."}, last)

	_, err = v.Download(t.TempDir())
	assert.Equal(t, ErrNotLoaded, err)
}

func TestViewer_Download(t *testing.T) {
	v, notifier := newViewer(ViewerDeps{})
	_, err := v.Load(context.Background(), "a1b2c3d4e5f6")
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := v.Download(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "certificate-a1b2c3d4e5f6.jpg"), path)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, Width*Scale, img.Bounds().Dx())
	last, _ := notifier.Last()
	assert.Equal(t, "Certificate downloaded successfully!", last.Title)

	_, err = v.Download(filepath.Join(dir, "missing", "dir"))
	assert.Error(t, err)
	last, _ = notifier.Last()
	assert.Equal(t, "Failed to download certificate. Please try again.", last.Title)
}

func TestViewer_Print(t *testing.T) {
	printer := new(fakePrinter)
	v, _ := newViewer(ViewerDeps{Printer: printer})
	_, err := v.Load(context.Background(), "a1b2c3d4e5f6")
	require.NoError(t, err)

	require.NoError(t, v.Print(context.Background()))
	require.Len(t, printer.paths, 1)
	assert.True(t, printer.exists, "file exists while printing")
	_, err = os.Stat(printer.paths[0])
	assert.True(t, os.IsNotExist(err), "temp file is cleaned up")
}

func TestViewer_Share(t *testing.T) {
	ctx := context.Background()
	link := "http://localhost:3000/student/certificates/view/a1b2c3d4e5f6/"

	t.Run("sharer", func(t *testing.T) {
		sharer, clip := new(fakeSharer), new(fakeClipboard)
		v, notifier := newViewer(ViewerDeps{Sharer: sharer, Clipboard: clip})
		_, _ = v.Load(ctx, "a1b2c3d4e5f6")

		require.NoError(t, v.Share(ctx))
		assert.Equal(t, []ShareData{{
			Title: "Certificate: Concurrency in Go",
			Text:  "Check out my certificate for completing Concurrency in Go!",
			URL:   link,
		}}, sharer.shared)
		assert.Empty(t, clip.text)
		assert.Empty(t, notifier.Toasts)
	})

	t.Run("no sharer falls back to the clipboard", func(t *testing.T) {
		clip := new(fakeClipboard)
		v, notifier := newViewer(ViewerDeps{Clipboard: clip})
		_, _ = v.Load(ctx, "a1b2c3d4e5f6")

		require.NoError(t, v.Share(ctx))
		assert.Equal(t, link, clip.text)
		last, _ := notifier.Last()
		assert.Equal(t, notify.Toast{Level: notify.LevelSuccess, Title: "Certificate link copied to clipboard!"}, last)
	})

	t.Run("failing sharer falls back to the clipboard", func(t *testing.T) {
		sharer, clip := &fakeSharer{err: errors.New("cancelled")}, new(fakeClipboard)
		v, _ := newViewer(ViewerDeps{Sharer: sharer, Clipboard: clip})
		_, _ = v.Load(ctx, "a1b2c3d4e5f6")

		require.NoError(t, v.Share(ctx))
		assert.Equal(t, link, clip.text)
	})
}
