package lmsapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/certificate"
	"github.com/trezcool/masomo-portal/core/dashboard"
	"github.com/trezcool/masomo-portal/core/profile"
)

// Summary returns the learner's counters. The backend serves them as a one-element list.
func (c *Client) Summary(ctx context.Context, userID int) (dashboard.Summary, error) {
	var summaries []dashboard.Summary
	req := c.request(ctx).SetPathParam("user", strconv.Itoa(userID))
	if err := c.do(req, http.MethodGet, "student/summary/{user}/", &summaries); err != nil {
		return dashboard.Summary{}, err
	}
	if len(summaries) == 0 {
		return dashboard.Summary{}, nil
	}
	return summaries[0], nil
}

func (c *Client) EnrolledCourses(ctx context.Context, userID int) ([]dashboard.EnrolledCourse, error) {
	var courses []dashboard.EnrolledCourse
	req := c.request(ctx).SetPathParam("user", strconv.Itoa(userID))
	if err := c.do(req, http.MethodGet, "student/course-list/{user}/", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Profile(ctx context.Context, userID int) (profile.Profile, error) {
	var p profile.Profile
	req := c.request(ctx).SetPathParam("user", strconv.Itoa(userID))
	if err := c.do(req, http.MethodGet, "user/profile/{user}/", &p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

// UpdateProfile sends the form as multipart, the image only when a file is chosen.
func (c *Client) UpdateProfile(ctx context.Context, userID int, form profile.Form) (profile.Profile, error) {
	req := c.request(ctx).
		SetPathParam("user", strconv.Itoa(userID)).
		SetMultipartFormData(map[string]string{
			"full_name": form.FullName,
			"about":     form.About,
			"country":   form.Country,
		})

	if form.ImagePath != "" {
		f, mtype, err := openUpload(form.ImagePath)
		if err != nil {
			return profile.Profile{}, err
		}
		defer f.Close()
		req.SetMultipartField("image", filepath.Base(form.ImagePath), mtype, f)

		var cancel context.CancelFunc
		ctx, cancel = c.uploadContext(ctx)
		defer cancel()
		req.SetContext(ctx)
	}

	var p profile.Profile
	if err := c.do(req, http.MethodPatch, "user/profile/{user}/", &p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func (c *Client) Certificate(ctx context.Context, userID int, certificateID string) (certificate.Certificate, error) {
	var cert certificate.Certificate
	req := c.request(ctx).SetPathParams(map[string]string{
		"user": strconv.Itoa(userID),
		"cert": certificateID,
	})
	if err := c.do(req, http.MethodGet, "student/certificate/detail/{user}/{cert}/", &cert); err != nil {
		return certificate.Certificate{}, err
	}
	return cert, nil
}

// openUpload opens a local file to upload along with its sniffed content type.
func openUpload(path string) (*os.File, string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "opening %s", path)
	}
	return f, mtype.String(), nil
}

// uploadContext bounds an upload by the upload timeout, longer than the default one.
func (c *Client) uploadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.uploadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.uploadTimeout)
}
