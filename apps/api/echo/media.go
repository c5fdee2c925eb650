package echoapi

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

var uploadTypes = []string{"image/", "video/", "application/pdf"}

func (s *Server) uploadFile(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "No file was submitted."})
	}
	url, err := s.saveUpload(fh, "file", "course-file", uploadTypes...)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"url": url})
}

// saveUpload stores the file uploaded as field under the media folder dir and returns its public url.
// The file content must match one of the allowed MIME type prefixes.
func (s *Server) saveUpload(fh *multipart.FileHeader, field, dir string, allowed ...string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", errors.Wrap(err, "detecting upload type")
	}
	if !mimeAllowed(mtype.String(), allowed) {
		return "", core.NewValidationError(nil, core.FieldError{
			Field: field,
			Error: "Unsupported file type " + mtype.String(),
		})
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "rewinding upload")
	}

	if err = os.MkdirAll(filepath.Join(s.conf.Server.MediaDir, dir), 0o755); err != nil {
		return "", errors.Wrap(err, "creating media folder")
	}
	name := uuid.New().String() + mtype.Extension()
	dst, err := os.Create(filepath.Join(s.conf.Server.MediaDir, dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating media file")
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}
	return s.conf.Server.PublicURL + "/media/" + path.Join(dir, name), nil
}

func mimeAllowed(mtype string, allowed []string) bool {
	for _, prefix := range allowed {
		if strings.HasPrefix(mtype, prefix) {
			return true
		}
	}
	return false
}
