package course

import (
	"math"
	"strconv"
)

type (
	Instructor struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}

	Course struct {
		ID          int        `json:"id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Image       string     `json:"image,omitempty"`
		Level       string     `json:"level,omitempty"`
		Instructor  Instructor `json:"instructor"`
	}

	// VariantItem is a lecture: a playable or downloadable resource of a curriculum section.
	// ID is the lecture's own id; VariantItemID is the key the completion endpoint expects.
	VariantItem struct {
		ID            int    `json:"id"`
		VariantItemID string `json:"variant_item_id"`
		Title         string `json:"title"`
		File          string `json:"file"`
		Duration      string `json:"duration"`
		Preview       bool   `json:"preview"`
	}

	CurriculumSection struct {
		VariantID       int           `json:"variant_id"`
		Title           string        `json:"title"`
		ContentDuration string        `json:"content_duration"`
		VariantItems    []VariantItem `json:"variant_items"`
	}

	CompletedItem struct {
		ID            int    `json:"id"`
		VariantItemID string `json:"variant_item_id,omitempty"`
	}

	CompletedLesson struct {
		ID          int           `json:"id"`
		User        int           `json:"user"`
		Course      int           `json:"course"`
		VariantItem CompletedItem `json:"variant_item"`
	}

	Note struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Note  string `json:"note"`
	}

	Profile struct {
		FullName string `json:"full_name"`
	}

	Message struct {
		Message string  `json:"message"`
		Date    string  `json:"date"`
		Profile Profile `json:"profile"`
	}

	// Question is a Q&A thread; Messages are only ever appended, by the server.
	Question struct {
		ID       int       `json:"id"`
		QAID     int       `json:"qa_id"`
		Title    string    `json:"title"`
		Message  string    `json:"message"`
		User     int       `json:"user"`
		Course   int       `json:"course"`
		Profile  Profile   `json:"profile"`
		Messages []Message `json:"messages"`
		Date     string    `json:"date"`
	}

	Review struct {
		ID     int    `json:"id"`
		Rating int    `json:"rating"`
		Review string `json:"review"`
		User   int    `json:"user"`
		Course int    `json:"course"`
	}

	// Enrollment is a user's registration in one course, as served by student/course-detail.
	Enrollment struct {
		EnrollmentID     string              `json:"enrollment_id"`
		Course           Course              `json:"course"`
		Lectures         []VariantItem       `json:"lectures"`
		CompletedLessons []CompletedLesson   `json:"completed_lesson"`
		Curriculum       []CurriculumSection `json:"curriculum"`
		Notes            []Note              `json:"note"`
		Questions        []Question          `json:"question_answer"`
		Review           *Review             `json:"review"`
		Date             string              `json:"date,omitempty"`
	}
)

// CompletionKey is the identifier sent to the completion endpoint for this lecture.
func (vi VariantItem) CompletionKey() string {
	if vi.VariantItemID != "" {
		return vi.VariantItemID
	}
	return strconv.Itoa(vi.ID)
}

// LectureCount is the number of lectures across the whole curriculum.
func (e Enrollment) LectureCount() int {
	var n int
	for _, section := range e.Curriculum {
		n += len(section.VariantItems)
	}
	if n == 0 {
		n = len(e.Lectures)
	}
	return n
}

// CompletionPercentage is round(100 * completed / lectures), 0 for an empty curriculum, at most 100.
func (e Enrollment) CompletionPercentage() int {
	total := e.LectureCount()
	if total == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(len(e.CompletedLessons)) / float64(total)))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Lecture looks a lecture up by its own id.
func (e Enrollment) Lecture(id int) (VariantItem, bool) {
	for _, section := range e.Curriculum {
		for _, item := range section.VariantItems {
			if item.ID == id {
				return item, true
			}
		}
	}
	for _, item := range e.Lectures {
		if item.ID == id {
			return item, true
		}
	}
	return VariantItem{}, false
}

func (e Enrollment) IsCompleted(lectureID int) bool {
	for _, cl := range e.CompletedLessons {
		if cl.VariantItem.ID == lectureID {
			return true
		}
	}
	return false
}

func (e Enrollment) Note(id int) (Note, bool) {
	for _, n := range e.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}
