package memdb

import "github.com/pkg/errors"

// Seed accounts, usable against a freshly seeded store.
const (
	StudentEmail    = "student@masomo.dev"
	StudentPassword = "Stud3nt!Pass"
	TeacherEmail    = "teacher@masomo.dev"
	TeacherPassword = "Teach3r!Pass"
)

// Fixtures are the records created by Seed.
type Fixtures struct {
	Student    User
	Teacher    Teacher
	Courses    []Course
	Enrollment Enrollment
}

// Seed fills the store with a small catalog, a teacher and a student enrolled in the first course.
func Seed(db *DB, mediaURL string) (Fixtures, error) {
	var fx Fixtures

	student, err := db.CreateUser(User{FullName: "Amani Student", Email: StudentEmail, Country: "Kenya", About: "Lifelong learner"}, StudentPassword)
	if err != nil {
		return fx, errors.Wrap(err, "creating student")
	}
	fx.Student = student

	tUser, err := db.CreateUser(User{FullName: "Baraka Teacher", Email: TeacherEmail, Country: "Tanzania"}, TeacherPassword)
	if err != nil {
		return fx, errors.Wrap(err, "creating teacher")
	}
	if fx.Teacher, err = db.MakeTeacher(tUser.ID); err != nil {
		return fx, errors.Wrap(err, "making teacher")
	}

	programming := db.CreateCategory("Programming")
	design := db.CreateCategory("Design")

	goCourse := db.CreateCourse(Course{
		TeacherID:   fx.Teacher.ID,
		CategoryID:  programming.ID,
		Title:       "Go for Beginners",
		Description: "Learn the Go programming language from scratch.",
		Image:       mediaURL + "course-file/go.jpg",
		File:        mediaURL + "course-file/go-intro.mp4",
		Level:       "Beginner",
		Language:    "English",
		Price:       49.99,
	})
	uxCourse := db.CreateCourse(Course{
		TeacherID:   fx.Teacher.ID,
		CategoryID:  design.ID,
		Title:       "UX Fundamentals",
		Description: "Design products people love to use.",
		Image:       mediaURL + "course-file/ux.jpg",
		Level:       "Intermediate",
		Language:    "English",
		Price:       29.5,
	})
	fx.Courses = []Course{goCourse, uxCourse}

	if _, err := db.AddSection(goCourse.ID, "Getting Started",
		Lecture{Title: "Welcome", File: mediaURL + "course-file/welcome.mp4", Duration: "05:30", Preview: true},
		Lecture{Title: "Installing Go", File: mediaURL + "course-file/install.mp4", Duration: "12:04"},
	); err != nil {
		return fx, errors.Wrap(err, "adding section")
	}
	if _, err := db.AddSection(goCourse.ID, "Basics",
		Lecture{Title: "Cheat Sheet", File: mediaURL + "course-file/cheatsheet.pdf"},
	); err != nil {
		return fx, errors.Wrap(err, "adding section")
	}
	if _, err := db.AddSection(uxCourse.ID, "Research",
		Lecture{Title: "Interviews", File: mediaURL + "course-file/interviews.mp4", Duration: "01:02:03"},
	); err != nil {
		return fx, errors.Wrap(err, "adding section")
	}

	if fx.Enrollment, err = db.Enroll(student.ID, goCourse.ID, ""); err != nil {
		return fx, errors.Wrap(err, "enrolling student")
	}
	return fx, nil
}
