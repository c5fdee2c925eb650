package lmsapi

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/instructor"
)

func (c *Client) Categories(ctx context.Context) ([]instructor.Category, error) {
	var categories []instructor.Category
	if err := c.do(c.request(ctx), http.MethodGet, "course/category/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) TeacherCourse(ctx context.Context, courseID string) (instructor.Course, error) {
	var crs instructor.Course
	req := c.request(ctx).SetPathParam("course", courseID)
	if err := c.do(req, http.MethodGet, "teacher/course-detail/{course}/", &crs); err != nil {
		return instructor.Course{}, err
	}
	return crs, nil
}

// UploadFile posts a local file and returns the URL it is served at.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	f, mtype, err := openUpload(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ctx, cancel := c.uploadContext(ctx)
	defer cancel()

	var resp struct {
		URL string `json:"url"`
	}
	req := c.request(ctx).SetMultipartField("file", filepath.Base(path), mtype, f)
	if err := c.do(req, http.MethodPost, "file-upload/", &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", errors.New("no url in upload response")
	}
	return resp.URL, nil
}

// UpdateCourse sends the course url-encoded. Media paths are only sent when set.
func (c *Client) UpdateCourse(ctx context.Context, teacherID int, courseID string, in instructor.UpdateInput) error {
	data := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"level":       in.Level,
		"language":    in.Language,
		"price":       in.Price.String(),
		"category":    strconv.Itoa(in.Category),
	}
	if in.ImageURL != "" {
		data["image_url"] = in.ImageURL
	}
	if in.FileURL != "" {
		data["file_url"] = in.FileURL
	}

	req := c.request(ctx).
		SetPathParams(map[string]string{
			"teacher": strconv.Itoa(teacherID),
			"course":  courseID,
		}).
		SetFormData(data)
	return c.do(req, http.MethodPut, "teacher/course-update/{teacher}/{course}/", nil)
}
