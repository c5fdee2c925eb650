package course

import (
	"context"
	"fmt"
	"strings"
)

// Playback is the state of the lecture player.
type Playback struct {
	Lecture    VariantItem
	Open       bool
	Playing    bool
	Volume     float64 // [0, 1]
	Muted      bool
	Played     float64 // fraction of the lecture played, [0, 1]
	Duration   float64 // seconds
	Fullscreen bool
}

func newPlayback() Playback {
	return Playback{Playing: true, Volume: 1}
}

// Elapsed is the played position in seconds.
func (p Playback) Elapsed() float64 { return p.Played * p.Duration }

func (c *Controller) Playback() Playback { return c.playback }

// OpenLecture opens the player on a lecture; playback state starts over.
func (c *Controller) OpenLecture(lecture VariantItem) Resource {
	c.playback = newPlayback()
	c.playback.Lecture = lecture
	c.playback.Open = true
	return Classify(lecture.File)
}

// CloseLecture closes the player and stops playback. Completion statuses are left untouched.
func (c *Controller) CloseLecture() {
	c.playback = newPlayback()
	c.playback.Playing = false
}

func (c *Controller) PlayPause() bool {
	c.playback.Playing = !c.playback.Playing
	return c.playback.Playing
}

// SetVolume sets the volume, clamped to [0, 1]; 0 mutes.
func (c *Controller) SetVolume(v float64) {
	v = clamp(v)
	c.playback.Volume = v
	c.playback.Muted = v == 0
}

func (c *Controller) ToggleMute() bool {
	c.playback.Muted = !c.playback.Muted
	if !c.playback.Muted && c.playback.Volume == 0 {
		c.playback.Volume = 1
	}
	return c.playback.Muted
}

func (c *Controller) ToggleFullscreen() bool {
	c.playback.Fullscreen = !c.playback.Fullscreen
	return c.playback.Fullscreen
}

// ReportProgress records the fraction of the lecture played so far.
func (c *Controller) ReportProgress(played float64) {
	c.playback.Played = clamp(played)
}

func (c *Controller) SetDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	c.playback.Duration = seconds
}

// Seek moves the player to a fraction of the lecture and returns the new position in seconds.
func (c *Controller) Seek(fraction float64) float64 {
	c.playback.Played = clamp(fraction)
	return c.playback.Elapsed()
}

// Ended stops the player once the media is over.
func (c *Controller) Ended() {
	c.playback.Playing = false
	c.playback.Played = 1
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Completion

type Phase int

const (
	Idle Phase = iota
	Pending
	Settled
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	}
	return "idle"
}

// Status is the state of the last completion toggle of a lecture.
type Status struct {
	Phase Phase
	Err   error
}

func (s Status) Failed() bool { return s.Phase == Settled && s.Err != nil }

func (c *Controller) CompletionStatus(lectureID int) Status {
	return c.completion[lectureID]
}

// ToggleCompletion flips the completed flag of a lecture on the server then reloads the enrollment.
// Nothing changes locally when the server refuses the toggle.
func (c *Controller) ToggleCompletion(ctx context.Context, lectureID int) error {
	if !c.loaded {
		return ErrNotLoaded
	}
	lecture, ok := c.enrollment.Lecture(lectureID)
	if !ok {
		return ErrLectureNotFound
	}
	if c.completion[lectureID].Phase == Pending {
		return ErrBusy
	}

	c.completion[lectureID] = Status{Phase: Pending}
	err := c.backend.ToggleCompletion(ctx, CompletionInput{
		UserID:        c.userID,
		CourseID:      c.courseID(),
		VariantItemID: lecture.CompletionKey(),
	})
	if err != nil {
		c.completion[lectureID] = Status{Phase: Settled, Err: err}
		c.fail("Failed to update lesson", err)
		return err
	}

	if err := c.Load(ctx); err != nil {
		c.completion[lectureID] = Status{Phase: Settled, Err: err}
		return err
	}
	c.completion[lectureID] = Status{Phase: Settled}
	return nil
}

// FormatTime renders seconds as h:mm:ss, or m:ss under an hour.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDuration renders "05:30" as "05m 30s" and "01:05:30" as "01h 05m 30s".
// Anything else is returned unchanged.
func FormatDuration(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		return "0m 0s"
	}
	parts := strings.Split(d, ":")
	switch len(parts) {
	case 2:
		return fmt.Sprintf("%sm %ss", parts[0], parts[1])
	case 3:
		return fmt.Sprintf("%sh %sm %ss", parts[0], parts[1], parts[2])
	}
	return d
}
