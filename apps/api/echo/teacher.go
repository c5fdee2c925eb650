package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

type teacherApi struct {
	*Server
}

func (s *Server) registerTeacherAPI(g *echo.Group, authMw []echo.MiddlewareFunc) {
	api := teacherApi{s}
	mw := append(append([]echo.MiddlewareFunc(nil), authMw...), teacherMiddleware)

	g.POST("/file-upload", s.uploadFile, mw...)

	tg := g.Group("/teacher", mw...)
	tg.GET("/course-detail/:course_id", api.courseDetail)
	tg.PUT("/course-update/:teacher_id/:course_id", api.updateCourse)
}

// Handlers

func (api teacherApi) courseDetail(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.teacherCourseView(crs))
}

func (api teacherApi) updateCourse(ctx echo.Context) error {
	teacherID, err := paramInt(ctx, "teacher_id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if teacherID != claims.TeacherID {
		return errHttpForbidden
	}
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}

	var data CourseUpdateRequest
	if err = api.bind(ctx, &data); err != nil {
		return err
	}
	if _, err = api.db.CategoryByID(data.CategoryID); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "category", Error: "Invalid category"})
	}

	crs.Title = core.CleanString(data.Title)
	crs.Description = data.Description
	crs.Level = data.Level
	crs.Language = data.Language
	crs.Price = data.Price
	crs.CategoryID = data.CategoryID
	if data.ImageURL != "" {
		crs.Image = api.mediaURL(data.ImageURL)
	}
	if data.FileURL != "" {
		crs.File = api.mediaURL(data.FileURL)
	}

	if err = api.db.UpdateCourse(crs); err != nil {
		return errors.Wrap(err, "updating course")
	}
	crs, err = api.db.CourseByID(crs.ID)
	if err != nil {
		return errors.Wrap(err, "reloading course")
	}
	return ctx.JSON(http.StatusOK, api.teacherCourseView(crs))
}

// contextCourse loads the course of the :course_id path parameter; it must be taught by the user.
func (api teacherApi) contextCourse(ctx echo.Context) (memdb.Course, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return memdb.Course{}, errors.Wrap(err, "getting context claims")
	}
	crs, err := api.db.CourseByCourseID(ctx.Param("course_id"))
	if err != nil {
		return memdb.Course{}, errors.Wrap(err, "finding course")
	}
	if crs.TeacherID != claims.TeacherID {
		return memdb.Course{}, errHttpNotFound
	}
	return crs, nil
}

// mediaURL turns a media path, as sent back by course editors, into a public url.
func (api teacherApi) mediaURL(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return api.conf.Server.PublicURL + "/media/" + strings.TrimPrefix(p, "/")
}
