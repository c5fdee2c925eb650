package echoapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/cart"
	"github.com/trezcool/masomo-portal/core/certificate"
	"github.com/trezcool/masomo-portal/core/course"
	"github.com/trezcool/masomo-portal/core/dashboard"
	"github.com/trezcool/masomo-portal/core/instructor"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

// The views render store records in the shapes the LMS serves.

func cartCourseView(crs memdb.Course) cart.Course {
	return cart.Course{
		ID:    crs.ID,
		Title: crs.Title,
		Image: crs.Image,
		Slug:  crs.Slug,
		Price: core.Money(crs.Price),
	}
}

func (s *Server) cartItemView(it memdb.CartItem) cart.Item {
	crs, _ := s.db.CourseByID(it.CourseID)
	return cart.Item{
		ID:     it.ID,
		CartID: it.CartID,
		Price:  core.Money(it.Price),
		Course: cartCourseView(crs),
		Date:   formatDate(it.Date),
	}
}

func (s *Server) orderView(o memdb.Order) cart.Order {
	view := cart.Order{
		OID:           o.OID,
		FullName:      o.FullName,
		Email:         o.Email,
		Country:       o.Country,
		SubTotal:      core.Money(o.SubTotal),
		Tax:           core.Money(o.Tax),
		Total:         core.Money(o.Total),
		PaymentStatus: o.PaymentStatus,
		OrderItems:    make([]cart.OrderItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		crs, _ := s.db.CourseByID(it.CourseID)
		view.OrderItems = append(view.OrderItems, cart.OrderItem{
			ID:     it.ID,
			Course: cartCourseView(crs),
			Price:  core.Money(it.Price),
			Total:  core.Money(it.Total),
		})
	}
	return view
}

func (s *Server) instructorView(teacherID int) course.Instructor {
	t, err := s.db.TeacherByID(teacherID)
	if err != nil {
		return course.Instructor{}
	}
	return course.Instructor{ID: t.ID, Name: t.FullName, Avatar: t.Image}
}

func lectureView(lec memdb.Lecture) course.VariantItem {
	return course.VariantItem{
		ID:            lec.ID,
		VariantItemID: lec.VariantItemID,
		Title:         lec.Title,
		File:          lec.File,
		Duration:      lec.Duration,
		Preview:       lec.Preview,
	}
}

func (s *Server) questionView(q memdb.Question) course.Question {
	view := course.Question{
		ID:       q.QAID,
		QAID:     q.QAID,
		Title:    q.Title,
		User:     q.UserID,
		Course:   q.CourseID,
		Profile:  s.authorView(q.UserID),
		Messages: make([]course.Message, 0, len(q.Messages)),
		Date:     formatDate(q.Date),
	}
	if len(q.Messages) > 0 {
		view.Message = q.Messages[0].Message
	}
	for _, m := range q.Messages {
		view.Messages = append(view.Messages, course.Message{
			Message: m.Message,
			Date:    formatDate(m.Date),
			Profile: s.authorView(m.UserID),
		})
	}
	return view
}

func (s *Server) authorView(userID int) course.Profile {
	usr, err := s.db.UserByID(userID)
	if err != nil {
		return course.Profile{}
	}
	return course.Profile{FullName: usr.FullName}
}

func reviewView(r memdb.Review) course.Review {
	return course.Review{ID: r.ID, Rating: r.Rating, Review: r.Review, User: r.UserID, Course: r.CourseID}
}

func noteView(n memdb.Note) course.Note {
	return course.Note{ID: n.ID, Title: n.Title, Note: n.Note}
}

// enrollmentView is the whole course player payload of an enrollment.
func (s *Server) enrollmentView(e memdb.Enrollment) (course.Enrollment, error) {
	crs, err := s.db.CourseByID(e.CourseID)
	if err != nil {
		return course.Enrollment{}, err
	}

	view := course.Enrollment{
		EnrollmentID: e.EnrollmentID,
		Course: course.Course{
			ID:          crs.ID,
			Title:       crs.Title,
			Description: crs.Description,
			Image:       crs.Image,
			Level:       crs.Level,
			Instructor:  s.instructorView(crs.TeacherID),
		},
		Lectures:         []course.VariantItem{},
		CompletedLessons: []course.CompletedLesson{},
		Curriculum:       []course.CurriculumSection{},
		Notes:            []course.Note{},
		Questions:        []course.Question{},
		Date:             formatDate(e.Date),
	}

	lectures := make(map[int]memdb.Lecture)
	for _, sec := range s.db.Sections(crs.ID) {
		section := course.CurriculumSection{
			VariantID:       sec.VariantID,
			Title:           sec.Title,
			ContentDuration: totalDuration(sec.Lectures),
			VariantItems:    make([]course.VariantItem, 0, len(sec.Lectures)),
		}
		for _, lec := range sec.Lectures {
			lectures[lec.ID] = lec
			section.VariantItems = append(section.VariantItems, lectureView(lec))
			view.Lectures = append(view.Lectures, lectureView(lec))
		}
		view.Curriculum = append(view.Curriculum, section)
	}

	for _, cl := range s.db.Completed(e.UserID, crs.ID) {
		view.CompletedLessons = append(view.CompletedLessons, course.CompletedLesson{
			ID:     cl.ID,
			User:   cl.UserID,
			Course: cl.CourseID,
			VariantItem: course.CompletedItem{
				ID:            cl.LectureID,
				VariantItemID: lectures[cl.LectureID].VariantItemID,
			},
		})
	}
	for _, n := range s.db.Notes(e.UserID, e.EnrollmentID) {
		view.Notes = append(view.Notes, noteView(n))
	}
	for _, q := range s.db.Questions(crs.ID) {
		view.Questions = append(view.Questions, s.questionView(q))
	}
	if r, ok := s.db.ReviewOf(e.UserID, crs.ID); ok {
		rv := reviewView(r)
		view.Review = &rv
	}
	return view, nil
}

func (s *Server) enrolledCourseView(e memdb.Enrollment) (dashboard.EnrolledCourse, error) {
	crs, err := s.db.CourseByID(e.CourseID)
	if err != nil {
		return dashboard.EnrolledCourse{}, err
	}

	view := dashboard.EnrolledCourse{
		EnrollmentID: e.EnrollmentID,
		Course: dashboard.Course{
			ID:       crs.ID,
			Title:    crs.Title,
			Image:    crs.Image,
			Language: crs.Language,
			Level:    crs.Level,
		},
		Date:             formatDate(e.Date),
		Lectures:         []dashboard.Lecture{},
		CompletedLessons: []dashboard.CompletedLesson{},
	}
	for _, lec := range s.db.Lectures(crs.ID) {
		view.Lectures = append(view.Lectures, dashboard.Lecture{ID: lec.ID, Title: lec.Title})
	}
	for _, cl := range s.db.Completed(e.UserID, crs.ID) {
		view.CompletedLessons = append(view.CompletedLessons, dashboard.CompletedLesson{ID: cl.ID})
	}
	return view, nil
}

func (s *Server) teacherCourseView(crs memdb.Course) instructor.Course {
	view := instructor.Course{
		ID:          crs.ID,
		CourseID:    crs.CourseID,
		Title:       crs.Title,
		Description: crs.Description,
		Image:       crs.Image,
		File:        crs.File,
		Level:       crs.Level,
		Language:    crs.Language,
		Price:       core.Money(crs.Price),
		Category:    instructor.CategoryRef{ID: crs.CategoryID},
	}
	if cat, err := s.db.CategoryByID(crs.CategoryID); err == nil {
		view.Category.Title = cat.Title
	}
	return view
}

func (s *Server) certificateView(c memdb.Certificate) (certificate.Certificate, error) {
	usr, err := s.db.UserByID(c.UserID)
	if err != nil {
		return certificate.Certificate{}, err
	}
	crs, err := s.db.CourseByID(c.CourseID)
	if err != nil {
		return certificate.Certificate{}, err
	}
	teacher := s.instructorView(crs.TeacherID)

	skills := []interface{}{}
	if cat, err := s.db.CategoryByID(crs.CategoryID); err == nil {
		skills = append(skills, cat.Title)
	}
	if crs.Level != "" {
		skills = append(skills, crs.Level+" "+crs.Language)
	}

	return certificate.Certificate{
		ID: c.ID,
		Course: certificate.CourseInfo{
			ID:          crs.ID,
			Title:       crs.Title,
			Description: crs.Description,
			Level:       crs.Level,
			Image:       crs.Image,
		},
		User:              certificate.UserInfo{ID: usr.ID, FullName: usr.FullName, Username: usr.Username},
		CertificateID:     c.CertificateID,
		StudentName:       usr.FullName,
		CourseName:        crs.Title,
		CompletionDate:    formatDate(c.CompletionDate),
		IssueDate:         formatDate(c.IssueDate),
		VerificationURL:   fmt.Sprintf("%s/verify-certificate/%s/", s.conf.FrontendBaseURL, c.CertificateID),
		Status:            c.Status,
		Metadata:          map[string]interface{}{"skills": skills},
		CourseTitle:       crs.Title,
		TeacherName:       teacher.Name,
		UserName:          usr.FullName,
		CourseImage:       crs.Image,
		CourseLevel:       crs.Level,
		CourseDescription: crs.Description,
	}, nil
}

// totalDuration sums "mm:ss" and "hh:mm:ss" durations; unparsable ones are skipped.
func totalDuration(lectures []memdb.Lecture) string {
	var secs int
	for _, lec := range lectures {
		secs += parseDuration(lec.Duration)
	}
	if secs == 0 {
		return ""
	}
	if h := secs / 3600; h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func parseDuration(d string) int {
	var secs int
	for _, part := range strings.Split(d, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		secs = secs*60 + n
	}
	return secs
}
