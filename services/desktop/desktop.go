// Package desktop hands data over to the user's desktop: clipboard and default browser.
package desktop

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/certificate"
)

var (
	ErrNoClipboard = errors.New("no clipboard utility found")

	clipboardUnsupported = func() bool { return clipboard.Unsupported } // mockable
	writeAllFunc         = clipboard.WriteAll                         // mockable
	openURLFunc          = browser.OpenURL                            // mockable
)

// Clipboard writes to the system clipboard.
type Clipboard struct{}

var _ certificate.Clipboard = Clipboard{}

func (Clipboard) WriteText(text string) error {
	if clipboardUnsupported() {
		return ErrNoClipboard
	}
	return errors.Wrap(writeAllFunc(text), "writing to clipboard")
}

// WriterClipboard prints the text instead, for terminals without a clipboard.
type WriterClipboard struct {
	Out io.Writer
}

func (c WriterClipboard) WriteText(text string) error {
	_, err := fmt.Fprintln(c.Out, text)
	return err
}

// FallbackClipboard tries Primary then Secondary.
type FallbackClipboard struct {
	Primary, Secondary certificate.Clipboard
}

func (c FallbackClipboard) WriteText(text string) error {
	if err := c.Primary.WriteText(text); err == nil {
		return nil
	}
	return c.Secondary.WriteText(text)
}

// BrowserSharer shares a link by opening it in the default browser.
type BrowserSharer struct{}

var _ certificate.Sharer = BrowserSharer{}

func (BrowserSharer) Share(ctx context.Context, data certificate.ShareData) error {
	if data.URL == "" {
		return errors.New("nothing to share")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Wrapf(openURLFunc(data.URL), "opening %s", data.URL)
}
