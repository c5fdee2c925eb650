package desktop

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core/certificate"
)

func TestClipboard_WriteText(t *testing.T) {
	origUnsupported, origWriteAll := clipboardUnsupported, writeAllFunc
	t.Cleanup(func() { clipboardUnsupported, writeAllFunc = origUnsupported, origWriteAll })

	tests := []struct {
		name        string
		unsupported bool
		writeErr    error
		wantWritten string
		wantErr     error
		fails       bool
	}{
		{name: "written", wantWritten: "http://localhost:3000/student/certificates/view/C1/"},
		{name: "no utility", unsupported: true, wantErr: ErrNoClipboard},
		{name: "write fails", writeErr: errors.New("exit status 1"), fails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var written string
			clipboardUnsupported = func() bool { return tt.unsupported }
			writeAllFunc = func(text string) error {
				if tt.writeErr != nil {
					return tt.writeErr
				}
				written = text
				return nil
			}

			err := Clipboard{}.WriteText("http://localhost:3000/student/certificates/view/C1/")
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.fails:
				assert.Equal(t, tt.writeErr, errors.Cause(err))
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantWritten, written)
		})
	}
}

type failingClipboard struct{}

func (failingClipboard) WriteText(string) error { return errors.New("no display") }

func TestFallbackClipboard(t *testing.T) {
	var out bytes.Buffer
	clip := FallbackClipboard{Primary: failingClipboard{}, Secondary: WriterClipboard{Out: &out}}
	require.NoError(t, clip.WriteText("link"))
	assert.Equal(t, "link\n", out.String())
}

func TestBrowserSharer_Share(t *testing.T) {
	origOpenURL := openURLFunc
	t.Cleanup(func() { openURLFunc = origOpenURL })

	var opened []string
	openErr := error(nil)
	openURLFunc = func(url string) error {
		if openErr != nil {
			return openErr
		}
		opened = append(opened, url)
		return nil
	}
	ctx := context.Background()

	require.NoError(t, BrowserSharer{}.Share(ctx, certificate.ShareData{URL: "http://x/cert/"}))
	assert.Equal(t, []string{"http://x/cert/"}, opened)

	assert.Error(t, BrowserSharer{}.Share(ctx, certificate.ShareData{}), "no link")

	openErr = errors.New("xdg-open: not found")
	err := BrowserSharer{}.Share(ctx, certificate.ShareData{URL: "http://x/cert/"})
	assert.Equal(t, openErr, errors.Cause(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	openErr = nil
	assert.Equal(t, context.Canceled, BrowserSharer{}.Share(cancelled, certificate.ShareData{URL: "http://x/cert/"}))
	assert.Len(t, opened, 1)
}
