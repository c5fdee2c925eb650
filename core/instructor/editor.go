// Package instructor edits a teacher's course: metadata, cover image and intro video.
package instructor

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

var (
	ErrNotTeacher   = errors.New("teacher id not found")
	ErrNotLoaded    = errors.New("course not loaded")
	ErrUnsupported  = errors.New("unsupported file type")
	requiredColumns = []string{"title", "description", "category", "level", "language", "price"}

	Levels = []string{"Beginner", "Intermediate", "Advanced"}
)

type (
	Category struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	// CategoryRef is a course's category, served either as an id or as an object.
	CategoryRef struct {
		ID    int
		Title string
	}

	Course struct {
		ID          int         `json:"id"`
		CourseID    string      `json:"course_id,omitempty"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Image       string      `json:"image"`
		File        string      `json:"file"`
		Level       string      `json:"level"`
		Language    string      `json:"language"`
		Price       core.Money  `json:"price"`
		Category    CategoryRef `json:"category"`
	}

	// UpdateInput is sent url-encoded; media paths only when newly uploaded.
	UpdateInput struct {
		Title       string
		Description string
		ImageURL    string
		FileURL     string
		Level       string
		Language    string
		Price       core.Money
		Category    int
	}

	Backend interface {
		Categories(ctx context.Context) ([]Category, error)
		TeacherCourse(ctx context.Context, courseID string) (Course, error)
		UploadFile(ctx context.Context, path string) (string, error)
		UpdateCourse(ctx context.Context, teacherID int, courseID string, in UpdateInput) error
	}

	// TeacherSource yields the signed-in user's instructor id, 0 when they have none.
	TeacherSource interface {
		TeacherID() int
	}
)

func (c *CategoryRef) UnmarshalJSON(b []byte) error {
	var obj Category
	if err := json.Unmarshal(b, &obj); err == nil {
		c.ID, c.Title = obj.ID, obj.Title
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = CategoryRef{}
	case float64:
		*c = CategoryRef{ID: int(v)}
	case string:
		if v == "" {
			*c = CategoryRef{}
			return nil
		}
		id, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parsing category %q", v)
		}
		*c = CategoryRef{ID: id}
	default:
		return errors.Errorf("unexpected category %s", string(b))
	}
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.Title == "" {
		return json.Marshal(c.ID)
	}
	return json.Marshal(Category{ID: c.ID, Title: c.Title})
}

// MediaPath keeps what follows "/media/" in an uploaded file's url; other urls are kept whole.
func MediaPath(url string) string {
	if idx := strings.Index(url, "/media/"); idx >= 0 {
		return url[idx+len("/media/"):]
	}
	return url
}

// Editor holds the draft of a course being edited.
type Editor struct {
	backend  Backend
	teachers TeacherSource
	notifier core.Notifier
	logger   core.Logger
	courseID string

	categories []Category
	draft      Course
	loaded     bool

	imagePreview string
	newImage     bool
	newFile      bool
	uploading    bool
}

func NewEditor(backend Backend, teachers TeacherSource, notifier core.Notifier, logger core.Logger, courseID string) *Editor {
	return &Editor{backend: backend, teachers: teachers, notifier: notifier, logger: logger, courseID: courseID}
}

// Load fetches the categories and the course. Missing categories only leave the picker empty.
func (e *Editor) Load(ctx context.Context) error {
	cats, err := e.backend.Categories(ctx)
	if err != nil {
		e.log("fetching categories", err)
		cats = nil
	}
	e.categories = cats

	crs, err := e.backend.TeacherCourse(ctx, e.courseID)
	if err != nil {
		err = errors.Wrap(err, "fetching course")
		title := "Failed to load course data. Please try again."
		if core.IsStatus(err, http.StatusNotFound) {
			title = "Course not found or server error."
		}
		e.log(title, err)
		e.notifier.Error(title)
		return err
	}
	e.draft = crs
	e.loaded = true
	e.newImage, e.newFile = false, false
	return nil
}

func (e *Editor) Categories() []Category { return e.categories }

// Draft is the editable course; changes are sent by Submit.
func (e *Editor) Draft() *Course { return &e.draft }

func (e *Editor) ImagePreview() string { return e.imagePreview }

func (e *Editor) Uploading() bool { return e.uploading }

// UploadImage uploads a cover image and points the draft at it.
func (e *Editor) UploadImage(ctx context.Context, path string) error {
	url, err := e.upload(ctx, path, "image/", "Failed to upload image. Please try with a smaller file.")
	if err != nil {
		return err
	}
	e.imagePreview = url
	e.draft.Image = MediaPath(url)
	e.newImage = true
	return nil
}

// UploadIntro uploads the intro video and points the draft at it.
func (e *Editor) UploadIntro(ctx context.Context, path string) error {
	url, err := e.upload(ctx, path, "video/", "Failed to upload video. The file might be too large or the server timed out.")
	if err != nil {
		return err
	}
	e.draft.File = MediaPath(url)
	e.newFile = true
	return nil
}

func (e *Editor) upload(ctx context.Context, path, wantMIME, failTitle string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		err = errors.Wrap(err, "reading file")
		e.log(failTitle, err)
		e.notifier.Error(failTitle)
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), wantMIME) {
		err = errors.Wrapf(ErrUnsupported, "%s is %s", path, mtype.String())
		e.notifier.Error(core.UserMessage(failTitle, err))
		return "", err
	}

	e.uploading = true
	defer func() { e.uploading = false }()

	url, err := e.backend.UploadFile(ctx, path)
	if err != nil {
		err = errors.Wrap(err, "uploading file")
		e.log(failTitle, err)
		e.notifier.Error(failTitle)
		return "", err
	}
	return url, nil
}

// Missing lists the required fields left blank in the draft.
func (e *Editor) Missing() []string {
	var missing []string
	for _, fld := range requiredColumns {
		var blank bool
		switch fld {
		case "title":
			blank = core.CleanString(e.draft.Title) == ""
		case "description":
			blank = core.CleanString(e.draft.Description) == ""
		case "category":
			blank = e.draft.Category.ID == 0
		case "level":
			blank = e.draft.Level == ""
		case "language":
			blank = e.draft.Language == ""
		case "price":
			blank = e.draft.Price == 0
		}
		if blank {
			missing = append(missing, fld)
		}
	}
	return missing
}

// Submit saves the draft then refetches the course.
func (e *Editor) Submit(ctx context.Context) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	teacherID := 0
	if e.teachers != nil {
		teacherID = e.teachers.TeacherID()
	}
	if teacherID == 0 {
		e.notifier.Error("Teacher ID not found. Please log in again.")
		return ErrNotTeacher
	}
	if missing := e.Missing(); len(missing) > 0 {
		flds := make([]core.FieldError, 0, len(missing))
		for _, m := range missing {
			flds = append(flds, core.FieldError{Field: m, Error: "this field is required"})
		}
		e.notifier.Warning("Please fill in the following fields: " + strings.Join(missing, ", "))
		return core.NewValidationError(nil, flds...)
	}

	in := UpdateInput{
		Title:       core.CleanString(e.draft.Title),
		Description: core.CleanString(e.draft.Description),
		Level:       e.draft.Level,
		Language:    e.draft.Language,
		Price:       e.draft.Price,
		Category:    e.draft.Category.ID,
	}
	if e.newImage && e.draft.Image != "" {
		in.ImageURL = e.draft.Image
	}
	if e.newFile && e.draft.File != "" {
		in.FileURL = e.draft.File
	}

	if err := e.backend.UpdateCourse(ctx, teacherID, e.courseID, in); err != nil {
		err = errors.Wrap(err, "updating course")
		e.log("updating course", err)
		e.notifier.Error(core.UserMessage("Failed to update course", err))
		return err
	}
	e.notifier.Success("Course Updated Successfully")
	e.newImage, e.newFile = false, false

	crs, err := e.backend.TeacherCourse(ctx, e.courseID)
	if err != nil {
		e.log("refetching course", err)
		return nil
	}
	e.draft = crs
	return nil
}

func (e *Editor) log(msg string, err error) {
	if e.logger != nil {
		e.logger.Error(msg, err, map[string]interface{}{"course_id": e.courseID})
	}
}
