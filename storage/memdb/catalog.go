package memdb

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type (
	Category struct {
		ID    int
		Title string
		Slug  string
	}

	Course struct {
		ID          int
		CourseID    string
		TeacherID   int
		CategoryID  int
		Title       string
		Slug        string
		Description string
		Image       string
		File        string
		Level       string
		Language    string
		Price       float64
		Date        time.Time
	}

	// Section is a chapter of a course curriculum.
	Section struct {
		VariantID int
		CourseID  int
		Title     string
		Lectures  []Lecture
	}

	Lecture struct {
		ID            int
		VariantItemID string
		Title         string
		File          string
		Duration      string
		Preview       bool
	}
)

// Key matches the identifiers a client may send for the lecture.
func (l Lecture) Key(key string) bool {
	return key != "" && (key == l.VariantItemID || key == strconv.Itoa(l.ID))
}

func (db *DB) CreateCategory(title string) Category {
	db.mu.Lock()
	defer db.mu.Unlock()

	cat := Category{
		ID:    db.next("category"),
		Title: title,
		Slug:  slugify(title),
	}
	db.categories = append(db.categories, cat)
	return cat
}

func (db *DB) Categories() []Category {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]Category(nil), db.categories...)
}

func (db *DB) CategoryByID(id int) (Category, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, cat := range db.categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return Category{}, ErrNotFound
}

func (db *DB) CreateCourse(crs Course) Course {
	db.mu.Lock()
	defer db.mu.Unlock()

	crs.ID = db.next("course")
	crs.CourseID = shortID()
	crs.Slug = slugify(crs.Title)
	crs.Date = now()
	db.courses[crs.ID] = &crs
	return crs
}

// Courses lists the catalog by id.
func (db *DB) Courses() []Course {
	db.mu.RLock()
	defer db.mu.RUnlock()

	courses := make([]Course, 0, len(db.courses))
	for _, crs := range db.courses {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (db *DB) CourseByID(id int) (Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if crs, ok := db.courses[id]; ok {
		return *crs, nil
	}
	return Course{}, ErrNotFound
}

// CourseByCourseID finds a course by its public id.
func (db *DB) CourseByCourseID(courseID string) (Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, crs := range db.courses {
		if crs.CourseID == courseID {
			return *crs, nil
		}
	}
	return Course{}, ErrNotFound
}

func (db *DB) UpdateCourse(crs Course) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.courses[crs.ID]; !ok {
		return ErrNotFound
	}
	crs.Slug = slugify(crs.Title)
	db.courses[crs.ID] = &crs
	return nil
}

// AddSection appends a curriculum section with its lectures to a course.
func (db *DB) AddSection(courseID int, title string, lectures ...Lecture) (Section, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.courses[courseID]; !ok {
		return Section{}, ErrNotFound
	}
	sec := Section{VariantID: db.next("section"), CourseID: courseID, Title: title}
	for _, lec := range lectures {
		lec.ID = db.next("lecture")
		lec.VariantItemID = shortID()
		sec.Lectures = append(sec.Lectures, lec)
	}
	db.sections[courseID] = append(db.sections[courseID], sec)
	return copySection(sec), nil
}

func (db *DB) Sections(courseID int) []Section {
	db.mu.RLock()
	defer db.mu.RUnlock()

	secs := make([]Section, 0, len(db.sections[courseID]))
	for _, sec := range db.sections[courseID] {
		secs = append(secs, copySection(sec))
	}
	return secs
}

// Lectures lists every lecture of a course, in curriculum order.
func (db *DB) Lectures(courseID int) []Lecture {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.lectures(courseID)
}

func (db *DB) lectures(courseID int) []Lecture {
	var lectures []Lecture
	for _, sec := range db.sections[courseID] {
		lectures = append(lectures, sec.Lectures...)
	}
	return lectures
}

// Lecture finds a lecture of a course by its variant item id or its id.
func (db *DB) Lecture(courseID int, key string) (Lecture, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, lec := range db.lectures(courseID) {
		if lec.Key(key) {
			return lec, nil
		}
	}
	return Lecture{}, ErrNotFound
}

func copySection(sec Section) Section {
	sec.Lectures = append([]Lecture(nil), sec.Lectures...)
	return sec
}

func slugify(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	return strings.Join(fields, "-")
}
