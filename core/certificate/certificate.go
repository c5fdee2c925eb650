// Package certificate shows a course completion certificate and exports it as an image.
package certificate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

const jpegQuality = 95

var ErrNotLoaded = errors.New("certificate not loaded")

type (
	CourseInfo struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Level       string `json:"level"`
		Image       string `json:"image"`
	}

	UserInfo struct {
		ID       int    `json:"id"`
		FullName string `json:"full_name"`
		Username string `json:"username"`
	}

	// Certificate is everything the LMS knows about an issued certificate.
	Certificate struct {
		ID                int                    `json:"id"`
		Course            CourseInfo             `json:"course"`
		User              UserInfo               `json:"user"`
		CertificateID     string                 `json:"certificate_id"`
		StudentName       string                 `json:"student_name"`
		CourseName        string                 `json:"course_name"`
		CompletionDate    string                 `json:"completion_date"`
		IssueDate         string                 `json:"issue_date"`
		VerificationURL   string                 `json:"verification_url"`
		Status            string                 `json:"status"`
		PDFFile           string                 `json:"pdf_file"`
		Metadata          map[string]interface{} `json:"metadata"`
		CourseTitle       string                 `json:"course_title"`
		TeacherName       string                 `json:"teacher_name"`
		UserName          string                 `json:"user_name"`
		CourseImage       string                 `json:"course_image"`
		CourseLevel       string                 `json:"course_level"`
		CourseDescription string                 `json:"course_description"`
	}

	Backend interface {
		Certificate(ctx context.Context, userID int, certificateID string) (Certificate, error)
	}

	// Printer sends an image file to a printer.
	Printer interface {
		Print(ctx context.Context, path string) error
	}

	ShareData struct {
		Title string
		Text  string
		URL   string
	}

	// Sharer hands a link to the platform's share facility.
	Sharer interface {
		Share(ctx context.Context, data ShareData) error
	}

	Clipboard interface {
		WriteText(text string) error
	}
)

// Skills lists the skills recorded in the certificate's metadata, if any.
func (c Certificate) Skills() []string {
	raw, ok := c.Metadata["skills"].([]interface{})
	if !ok {
		return nil
	}
	skills := make([]string, 0, len(raw))
	for _, s := range raw {
		if str, ok := s.(string); ok && str != "" {
			skills = append(skills, str)
		}
	}
	return skills
}

// Reference is the short reference number printed under the certificate id.
func (c Certificate) Reference() string {
	if len(c.CertificateID) > 8 {
		return c.CertificateID[:8]
	}
	return c.CertificateID
}

// FileName is the name of the downloaded image.
func (c Certificate) FileName() string {
	return fmt.Sprintf("certificate-%s.jpg", c.CertificateID)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LongDate renders a date like "January 2, 2006"; unparsable dates are returned as is.
func LongDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format("January 2, 2006")
	}
	return s
}

// ShortDate renders a date like "1/2/2006"; unparsable dates are returned as is.
func ShortDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format("1/2/2006")
	}
	return s
}

// LPPrinter prints with the CUPS lp command.
type LPPrinter struct {
	Command string
	Args    []string
}

func (p LPPrinter) Print(ctx context.Context, path string) error {
	cmd := p.Command
	if cmd == "" {
		cmd = "lp"
	}
	out, err := exec.CommandContext(ctx, cmd, append(append([]string(nil), p.Args...), path)...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", cmd, strings.TrimSpace(string(out)))
	}
	return nil
}

type ViewerDeps struct {
	Backend   Backend
	Notifier  core.Notifier
	Logger    core.Logger
	Printer   Printer
	Sharer    Sharer // optional
	Clipboard Clipboard
	Layout    Layout
	PublicURL string // base of the certificate page links
}

// Viewer drives the certificate page of the signed-in user.
type Viewer struct {
	deps   ViewerDeps
	userID int

	cert        Certificate
	loaded      bool
	downloading bool
}

func NewViewer(deps ViewerDeps, userID int) *Viewer {
	if deps.Printer == nil {
		deps.Printer = LPPrinter{}
	}
	deps.Layout = deps.Layout.withDefaults()
	return &Viewer{deps: deps, userID: userID}
}

func (v *Viewer) Certificate() (Certificate, bool) { return v.cert, v.loaded }

// Load fetches a certificate of the signed-in user.
func (v *Viewer) Load(ctx context.Context, certificateID string) (Certificate, error) {
	cert, err := v.deps.Backend.Certificate(ctx, v.userID, certificateID)
	if err != nil {
		err = errors.Wrap(err, "fetching certificate")
		v.fail("Failed to load certificate. Please try again later.", err)
		return Certificate{}, err
	}
	v.cert = cert
	v.loaded = true
	return cert, nil
}

// PageURL is the link to the certificate page.
func (v *Viewer) PageURL() string {
	return strings.TrimRight(v.deps.PublicURL, "/") + "/student/certificates/view/" + v.cert.CertificateID + "/"
}

// Download renders the certificate into dir as a JPEG and returns the file path.
func (v *Viewer) Download(dir string) (string, error) {
	if !v.loaded {
		return "", ErrNotLoaded
	}
	v.downloading = true
	defer func() { v.downloading = false }()

	path := filepath.Join(dir, v.cert.FileName())
	if err := v.save(path); err != nil {
		v.fail("Failed to download certificate. Please try again.", err)
		return "", err
	}
	v.deps.Notifier.Success("Certificate downloaded successfully!")
	return path, nil
}

// Print renders the certificate to a temporary file and hands it to the printer.
func (v *Viewer) Print(ctx context.Context) error {
	if !v.loaded {
		return ErrNotLoaded
	}
	dir, err := os.MkdirTemp("", "certificate")
	if err != nil {
		return errors.Wrap(err, "creating temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, v.cert.FileName())
	if err := v.save(path); err != nil {
		v.fail("Failed to print certificate", err)
		return err
	}
	if err := v.deps.Printer.Print(ctx, path); err != nil {
		err = errors.Wrap(err, "printing certificate")
		v.fail("Failed to print certificate", err)
		return err
	}
	return nil
}

// Share shares the certificate page; without a working sharer the link goes to the clipboard.
func (v *Viewer) Share(ctx context.Context) error {
	if !v.loaded {
		return ErrNotLoaded
	}
	data := ShareData{
		Title: "Certificate: " + v.cert.CourseTitle,
		Text:  fmt.Sprintf("Check out my certificate for completing %s!", v.cert.CourseTitle),
		URL:   v.PageURL(),
	}
	if v.deps.Sharer != nil {
		err := v.deps.Sharer.Share(ctx, data)
		if err == nil {
			return nil
		}
		v.log("sharing certificate", err)
	}

	if v.deps.Clipboard == nil {
		return errors.New("no clipboard available")
	}
	if err := v.deps.Clipboard.WriteText(data.URL); err != nil {
		err = errors.Wrap(err, "copying link")
		v.fail("Failed to copy certificate link", err)
		return err
	}
	v.deps.Notifier.Success("Certificate link copied to clipboard!")
	return nil
}

func (v *Viewer) save(path string) error {
	img := Render(v.cert, v.deps.Layout)
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return errors.Wrap(err, "saving certificate image")
	}
	return nil
}

func (v *Viewer) log(msg string, err error) {
	if v.deps.Logger != nil {
		v.deps.Logger.Error(msg, err, map[string]interface{}{"certificate_id": v.cert.CertificateID})
	}
}

func (v *Viewer) fail(title string, err error) {
	v.log(title, err)
	v.deps.Notifier.Error(title)
}
