package memdb

import (
	"sort"
	"time"
)

type (
	Enrollment struct {
		EnrollmentID string
		UserID       int
		CourseID     int
		OrderOID     string
		Date         time.Time
	}

	CompletedLesson struct {
		ID        int
		UserID    int
		CourseID  int
		LectureID int
		Date      time.Time
	}

	Note struct {
		ID           int
		UserID       int
		EnrollmentID string
		Title        string
		Note         string
		Date         time.Time
	}

	QAMessage struct {
		UserID  int
		Message string
		Date    time.Time
	}

	// Question is a Q&A thread of a course. Its first message is the question itself.
	Question struct {
		QAID     int
		UserID   int
		CourseID int
		Title    string
		Messages []QAMessage
		Date     time.Time
	}

	Review struct {
		ID       int
		UserID   int
		CourseID int
		Rating   int
		Review   string
		Active   bool
		Date     time.Time
	}

	Certificate struct {
		ID             int
		CertificateID  string
		UserID         int
		CourseID       int
		CompletionDate time.Time
		IssueDate      time.Time
		Status         string
	}
)

// Enroll registers a user in a course, once.
func (db *DB) Enroll(userID, courseID int, orderOID string) (Enrollment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.enroll(userID, courseID, orderOID)
}

func (db *DB) enroll(userID, courseID int, orderOID string) (Enrollment, error) {
	if _, ok := db.users[userID]; !ok {
		return Enrollment{}, ErrNotFound
	}
	if _, ok := db.courses[courseID]; !ok {
		return Enrollment{}, ErrNotFound
	}
	for _, e := range db.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return *e, nil
		}
	}
	e := Enrollment{EnrollmentID: shortID(), UserID: userID, CourseID: courseID, OrderOID: orderOID, Date: now()}
	db.enrollments[e.EnrollmentID] = &e
	return e, nil
}

// Enrollment returns an enrollment of the user.
func (db *DB) Enrollment(userID int, enrollmentID string) (Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if e, ok := db.enrollments[enrollmentID]; ok && e.UserID == userID {
		return *e, nil
	}
	return Enrollment{}, ErrNotFound
}

// Enrollments lists the user's enrollments, oldest first.
func (db *DB) Enrollments(userID int) []Enrollment {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var list []Enrollment
	for _, e := range db.enrollments {
		if e.UserID == userID {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].CourseID < list[j].CourseID
	})
	return list
}

// ToggleCompletion marks a lecture completed, or not completed anymore when it was.
// It reports whether the lecture ends up completed.
func (db *DB) ToggleCompletion(userID, courseID, lectureID int) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, cl := range db.completed {
		if cl.UserID == userID && cl.CourseID == courseID && cl.LectureID == lectureID {
			db.completed = append(db.completed[:i], db.completed[i+1:]...)
			return false
		}
	}
	db.completed = append(db.completed, CompletedLesson{
		ID:        db.next("completed"),
		UserID:    userID,
		CourseID:  courseID,
		LectureID: lectureID,
		Date:      now(),
	})
	return true
}

// Completed lists the lectures of a course the user completed. courseID 0 lists all of them.
func (db *DB) Completed(userID, courseID int) []CompletedLesson {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var list []CompletedLesson
	for _, cl := range db.completed {
		if cl.UserID == userID && (courseID == 0 || cl.CourseID == courseID) {
			list = append(list, cl)
		}
	}
	return list
}

func (db *DB) CreateNote(n Note) Note {
	db.mu.Lock()
	defer db.mu.Unlock()

	n.ID = db.next("note")
	n.Date = now()
	db.notes[n.ID] = &n
	return n
}

// UpdateNote changes the title and text of a note of the enrollment.
func (db *DB) UpdateNote(n Note) (Note, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	orig, ok := db.notes[n.ID]
	if !ok || orig.UserID != n.UserID || orig.EnrollmentID != n.EnrollmentID {
		return Note{}, ErrNotFound
	}
	orig.Title, orig.Note = n.Title, n.Note
	return *orig, nil
}

func (db *DB) DeleteNote(userID int, enrollmentID string, noteID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n, ok := db.notes[noteID]
	if !ok || n.UserID != userID || n.EnrollmentID != enrollmentID {
		return ErrNotFound
	}
	delete(db.notes, noteID)
	return nil
}

// Notes lists the notes of an enrollment, oldest first.
func (db *DB) Notes(userID int, enrollmentID string) []Note {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var list []Note
	for _, n := range db.notes {
		if n.UserID == userID && n.EnrollmentID == enrollmentID {
			list = append(list, *n)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// CreateQuestion opens a thread with message as its first message.
func (db *DB) CreateQuestion(userID, courseID int, title, message string) (Question, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.courses[courseID]; !ok {
		return Question{}, ErrNotFound
	}
	q := Question{
		QAID:     db.next("question"),
		UserID:   userID,
		CourseID: courseID,
		Title:    title,
		Messages: []QAMessage{{UserID: userID, Message: message, Date: now()}},
		Date:     now(),
	}
	db.questions[q.QAID] = &q
	return copyQuestion(q), nil
}

// AddMessage appends a message to a thread and returns the thread.
func (db *DB) AddMessage(qaID, userID int, message string) (Question, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	q, ok := db.questions[qaID]
	if !ok {
		return Question{}, ErrNotFound
	}
	q.Messages = append(q.Messages, QAMessage{UserID: userID, Message: message, Date: now()})
	return copyQuestion(*q), nil
}

// Questions lists the threads of a course, newest first.
func (db *DB) Questions(courseID int) []Question {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var list []Question
	for _, q := range db.questions {
		if q.CourseID == courseID {
			list = append(list, copyQuestion(*q))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].QAID > list[j].QAID })
	return list
}

func copyQuestion(q Question) Question {
	q.Messages = append([]QAMessage(nil), q.Messages...)
	return q
}

func (db *DB) CreateReview(r Review) (Review, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, rev := range db.reviews {
		if rev.UserID == r.UserID && rev.CourseID == r.CourseID {
			return Review{}, ErrAlreadyReviewed
		}
	}
	r.ID = db.next("review")
	r.Active = true
	r.Date = now()
	db.reviews[r.ID] = &r
	return r, nil
}

// UpdateReview changes the rating and text of the user's review.
func (db *DB) UpdateReview(userID, reviewID, rating int, text string) (Review, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.reviews[reviewID]
	if !ok || r.UserID != userID {
		return Review{}, ErrNotFound
	}
	r.Rating, r.Review = rating, text
	return *r, nil
}

// ReviewOf returns the user's review of a course, if any.
func (db *DB) ReviewOf(userID, courseID int) (Review, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, r := range db.reviews {
		if r.UserID == userID && r.CourseID == courseID {
			return *r, true
		}
	}
	return Review{}, false
}

// IssueCertificate delivers the certificate of a completed course, once.
func (db *DB) IssueCertificate(userID, courseID int) Certificate {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, c := range db.certificates {
		if c.UserID == userID && c.CourseID == courseID {
			return *c
		}
	}
	c := Certificate{
		ID:             db.next("certificate"),
		CertificateID:  shortID(),
		UserID:         userID,
		CourseID:       courseID,
		CompletionDate: now(),
		IssueDate:      now(),
		Status:         "issued",
	}
	db.certificates[c.CertificateID] = &c
	return c
}

func (db *DB) Certificate(userID int, certificateID string) (Certificate, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if c, ok := db.certificates[certificateID]; ok && c.UserID == userID {
		return *c, nil
	}
	return Certificate{}, ErrNotFound
}

func (db *DB) Certificates(userID int) []Certificate {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var list []Certificate
	for _, c := range db.certificates {
		if c.UserID == userID {
			list = append(list, *c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
