package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/course"
	"github.com/trezcool/masomo-portal/core/dashboard"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

type studentApi struct {
	*Server
}

func (s *Server) registerStudentAPI(g *echo.Group, authMw []echo.MiddlewareFunc) {
	api := studentApi{s}

	sg := g.Group("/student", authMw...)

	// resources of the :user_id path parameter
	og := sg.Group("", ownerMiddleware)
	og.GET("/summary/:user_id", api.summary)
	og.GET("/course-list/:user_id", api.enrolledCourses)
	og.GET("/course-detail/:user_id/:enrollment_id", api.courseDetail)
	og.POST("/course-note/:user_id/:enrollment_id", api.createNote)
	og.PATCH("/course-note-detail/:user_id/:enrollment_id/:note_id", api.updateNote)
	og.DELETE("/course-note-detail/:user_id/:enrollment_id/:note_id", api.deleteNote)
	og.PATCH("/review-detail/:user_id/:review_id", api.updateReview)
	og.GET("/certificate/detail/:user_id/:certificate_id", api.certificate)

	// resources of the user_id form field
	sg.POST("/course-completed", api.toggleCompletion)
	sg.GET("/question-answer-list-create/:course_id", api.questions)
	sg.POST("/question-answer-list-create/:course_id", api.createQuestion)
	sg.POST("/question-answer-message-create", api.sendMessage)
	sg.POST("/rate-course", api.rateCourse)
}

// Handlers

func (api studentApi) summary(ctx echo.Context) error {
	userID, _ := paramInt(ctx, "user_id")
	summary := dashboard.Summary{
		TotalCourses:         len(api.db.Enrollments(userID)),
		CompletedLessons:     len(api.db.Completed(userID, 0)),
		AchievedCertificates: len(api.db.Certificates(userID)),
	}
	return ctx.JSON(http.StatusOK, []dashboard.Summary{summary})
}

func (api studentApi) enrolledCourses(ctx echo.Context) error {
	userID, _ := paramInt(ctx, "user_id")
	enrollments := api.db.Enrollments(userID)
	views := make([]dashboard.EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		view, err := api.enrolledCourseView(e)
		if err != nil {
			return errors.Wrap(err, "rendering enrolled course")
		}
		views = append(views, view)
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api studentApi) courseDetail(ctx echo.Context) error {
	e, err := api.contextEnrollment(ctx)
	if err != nil {
		return err
	}
	view, err := api.enrollmentView(e)
	if err != nil {
		return errors.Wrap(err, "rendering enrollment")
	}
	return ctx.JSON(http.StatusOK, view)
}

// toggleCompletion marks a lecture completed, or not completed anymore.
// Completing the last lecture of a course issues its certificate.
func (api studentApi) toggleCompletion(ctx echo.Context) error {
	var data CompletionRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}
	if err := api.checkEnrolled(ctx, data.UserID, data.CourseID); err != nil {
		return err
	}

	lec, err := api.db.Lecture(data.CourseID, data.VariantItemID)
	if err != nil {
		return errors.Wrap(err, "finding lecture")
	}
	if !api.db.ToggleCompletion(data.UserID, data.CourseID, lec.ID) {
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course Marked As Not Completed"})
	}

	if len(api.db.Completed(data.UserID, data.CourseID)) >= len(api.db.Lectures(data.CourseID)) {
		api.db.IssueCertificate(data.UserID, data.CourseID)
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course Marked As Completed"})
}

func (api studentApi) createNote(ctx echo.Context) error {
	e, err := api.contextEnrollment(ctx)
	if err != nil {
		return err
	}
	var data NoteRequest
	if err = api.bind(ctx, &data); err != nil {
		return err
	}

	note := api.db.CreateNote(memdb.Note{
		UserID:       e.UserID,
		EnrollmentID: e.EnrollmentID,
		Title:        core.CleanString(data.Title),
		Note:         data.Text,
	})
	return ctx.JSON(http.StatusCreated, noteView(note))
}

func (api studentApi) updateNote(ctx echo.Context) error {
	e, err := api.contextEnrollment(ctx)
	if err != nil {
		return err
	}
	noteID, err := paramInt(ctx, "note_id")
	if err != nil {
		return err
	}
	var data NoteRequest
	if err = api.bind(ctx, &data); err != nil {
		return err
	}

	note, err := api.db.UpdateNote(memdb.Note{
		ID:           noteID,
		UserID:       e.UserID,
		EnrollmentID: e.EnrollmentID,
		Title:        core.CleanString(data.Title),
		Note:         data.Text,
	})
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, noteView(note))
}

func (api studentApi) deleteNote(ctx echo.Context) error {
	e, err := api.contextEnrollment(ctx)
	if err != nil {
		return err
	}
	noteID, err := paramInt(ctx, "note_id")
	if err != nil {
		return err
	}
	if err = api.db.DeleteNote(e.UserID, e.EnrollmentID, noteID); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api studentApi) questions(ctx echo.Context) error {
	courseID, err := paramInt(ctx, "course_id")
	if err != nil {
		return err
	}
	questions := api.db.Questions(courseID)
	views := make([]course.Question, 0, len(questions))
	for _, q := range questions {
		views = append(views, api.questionView(q))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api studentApi) createQuestion(ctx echo.Context) error {
	courseID, err := paramInt(ctx, "course_id")
	if err != nil {
		return err
	}
	var data QuestionRequest
	if err = api.bind(ctx, &data); err != nil {
		return err
	}
	if err = api.checkEnrolled(ctx, data.UserID, courseID); err != nil {
		return err
	}

	q, err := api.db.CreateQuestion(data.UserID, courseID, core.CleanString(data.Title), data.Message)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}
	return ctx.JSON(http.StatusCreated, api.questionView(q))
}

func (api studentApi) sendMessage(ctx echo.Context) error {
	var data MessageRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}
	if err := api.checkEnrolled(ctx, data.UserID, data.CourseID); err != nil {
		return err
	}

	if !api.hasQuestion(data.CourseID, data.QAID) {
		return errHttpNotFound
	}

	q, err := api.db.AddMessage(data.QAID, data.UserID, data.Message)
	if err != nil {
		return errors.Wrap(err, "adding message")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"message":  "Message Sent",
		"question": api.questionView(q),
	})
}

func (api studentApi) rateCourse(ctx echo.Context) error {
	var data ReviewRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}
	if err := api.checkEnrolled(ctx, data.UserID, data.CourseID); err != nil {
		return err
	}

	r, err := api.db.CreateReview(memdb.Review{
		UserID:   data.UserID,
		CourseID: data.CourseID,
		Rating:   data.Rating,
		Review:   data.Text,
	})
	if err != nil {
		return errors.Wrap(err, "creating review")
	}
	return ctx.JSON(http.StatusCreated, reviewView(r))
}

func (api studentApi) updateReview(ctx echo.Context) error {
	userID, _ := paramInt(ctx, "user_id")
	reviewID, err := paramInt(ctx, "review_id")
	if err != nil {
		return err
	}
	var data ReviewUpdateRequest
	if err = api.bind(ctx, &data); err != nil {
		return err
	}

	r, err := api.db.UpdateReview(userID, reviewID, data.Rating, data.Text)
	if err != nil {
		return errors.Wrap(err, "updating review")
	}
	return ctx.JSON(http.StatusOK, reviewView(r))
}

func (api studentApi) certificate(ctx echo.Context) error {
	userID, _ := paramInt(ctx, "user_id")
	cert, err := api.db.Certificate(userID, ctx.Param("certificate_id"))
	if err != nil {
		return errors.Wrap(err, "finding certificate")
	}
	view, err := api.certificateView(cert)
	if err != nil {
		return errors.Wrap(err, "rendering certificate")
	}
	return ctx.JSON(http.StatusOK, view)
}

// contextEnrollment loads the enrollment of the :user_id and :enrollment_id path parameters.
func (api studentApi) contextEnrollment(ctx echo.Context) (memdb.Enrollment, error) {
	userID, err := paramInt(ctx, "user_id")
	if err != nil {
		return memdb.Enrollment{}, err
	}
	e, err := api.db.Enrollment(userID, ctx.Param("enrollment_id"))
	return e, errors.Wrap(err, "finding enrollment")
}

// checkEnrolled fails unless userID is the authenticated user and either
// is enrolled in the course or teaches it.
func (api studentApi) checkEnrolled(ctx echo.Context, userID, courseID int) error {
	if err := checkUser(ctx, userID); err != nil {
		return err
	}
	for _, e := range api.db.Enrollments(userID) {
		if e.CourseID == courseID {
			return nil
		}
	}
	if claims, err := getContextClaims(ctx); err == nil && claims.TeacherID != 0 {
		if crs, err := api.db.CourseByID(courseID); err == nil && crs.TeacherID == claims.TeacherID {
			return nil
		}
	}
	return errNotEnrolled
}

func (api studentApi) hasQuestion(courseID, qaID int) bool {
	for _, q := range api.db.Questions(courseID) {
		if q.QAID == qaID {
			return true
		}
	}
	return false
}
