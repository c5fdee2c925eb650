package main

import (
	"context"
	"strings"

	"github.com/trezcool/masomo-portal/core/course"
	"github.com/trezcool/masomo-portal/core/dashboard"
)

func (cli *commandLine) dashboard(ctx context.Context, args []string) error {
	fs := cli.flagSet("dashboard")
	query := fs.String("search", "", "Only show the courses whose title contains this")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	id, err := cli.identity()
	if err != nil {
		return err
	}

	d := dashboard.New(cli.api, cli.notifier, cli.logger, id.UserID)
	if err = d.Load(ctx); err != nil {
		return err
	}
	s := d.Summary()
	cli.printf("Courses: %d  Completed lessons: %d  Certificates: %d\n",
		s.TotalCourses, s.CompletedLessons, s.AchievedCertificates)
	for _, ec := range d.Search(*query) {
		cli.printf("%-14s %-40s %3d%%\n", ec.EnrollmentID, ec.Course.Title, ec.Progress())
	}
	return nil
}

// loadCourse opens the course page of one of the signed-in user's enrollments.
func (cli *commandLine) loadCourse(ctx context.Context, enrollmentID string) (*course.Controller, error) {
	id, err := cli.identity()
	if err != nil {
		return nil, err
	}
	c := course.NewController(course.Deps{
		Backend:   cli.api,
		Notifier:  cli.notifier,
		Logger:    cli.logger,
		Validator: cli.validator,
	}, id.UserID, enrollmentID)
	if err = c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (cli *commandLine) course(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("course", args, "show", "open", "complete")
	if err != nil {
		return err
	}
	fs := cli.flagSet("course " + sub)
	enrollmentID := fs.String("enrollment", "", "Enrollment id, as listed by the dashboard")
	required := []string{"enrollment"}
	var lectureID *int
	if sub != "show" {
		lectureID = fs.Int("lecture", 0, "Lecture id, as listed by course show")
		required = append(required, "lecture")
	}
	if err = cli.parse(fs, args, required...); err != nil {
		return err
	}

	c, err := cli.loadCourse(ctx, *enrollmentID)
	if err != nil {
		return err
	}

	switch sub {
	case "open":
		lec, ok := c.Enrollment().Lecture(*lectureID)
		if !ok {
			cli.notifier.Error("Lecture not found")
			return course.ErrLectureNotFound
		}
		res := c.OpenLecture(lec)
		cli.printf("%s (%s)\n", lec.Title, res.Kind)
		switch res.Presentation {
		case course.PresentPlayer:
			cli.printf("play:     %s\n", res.URL)
			if lec.Duration != "" {
				cli.printf("duration: %s\n", course.FormatDuration(lec.Duration))
			}
		case course.PresentFrame:
			cli.printf("view:     %s\n", res.URL)
		default:
			cli.printf("download: %s\n", res.URL)
		}
		c.CloseLecture()
		return nil

	case "complete":
		if err = c.ToggleCompletion(ctx, *lectureID); err != nil {
			return err
		}
		state := "not completed"
		if c.IsCompleted(*lectureID) {
			state = "completed"
		}
		cli.printf("Lecture %d %s. Progress: %d%%\n", *lectureID, state, c.Progress())
		return nil
	}

	enr := c.Enrollment()
	cli.printf("%s\n", enr.Course.Title)
	if enr.Course.Instructor.Name != "" {
		cli.printf("by %s\n", enr.Course.Instructor.Name)
	}
	cli.printf("Progress: %d%% (%d/%d lectures)\n", c.Progress(), len(enr.CompletedLessons), enr.LectureCount())
	for _, sec := range enr.Curriculum {
		cli.printf("\n%s", sec.Title)
		if sec.ContentDuration != "" {
			cli.printf("  [%s]", sec.ContentDuration)
		}
		cli.println()
		for _, lec := range sec.VariantItems {
			mark := " "
			if c.IsCompleted(lec.ID) {
				mark = "x"
			}
			cli.printf("  [%s] %4d  %-36s %-9s %s\n", mark, lec.ID, lec.Title, course.Classify(lec.File).Kind, lec.Duration)
		}
	}
	return nil
}

func (cli *commandLine) note(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("note", args, "list", "add", "edit", "rm")
	if err != nil {
		return err
	}
	fs := cli.flagSet("note " + sub)
	enrollmentID := fs.String("enrollment", "", "Enrollment id, as listed by the dashboard")
	required := []string{"enrollment"}
	var (
		noteID      *int
		query       *string
		title, text *string
	)
	switch sub {
	case "list":
		query = fs.String("search", "", "Only show the notes containing this")
	case "add", "edit":
		title = fs.String("title", "", "Note title")
		text = fs.String("text", "", "Note content")
		if sub == "add" {
			required = append(required, "title", "text")
		}
	}
	if sub == "edit" || sub == "rm" {
		noteID = fs.Int("id", 0, "Note id")
		required = append(required, "id")
	}
	if err = cli.parse(fs, args, required...); err != nil {
		return err
	}

	c, err := cli.loadCourse(ctx, *enrollmentID)
	if err != nil {
		return err
	}

	switch sub {
	case "list":
		if err = c.Notes.Search(ctx, *query); err != nil {
			return err
		}
	case "add":
		c.Notes.OpenCreate()
		err = c.Notes.Create(ctx, course.NoteForm{Title: *title, Note: *text})
	case "edit":
		if err = c.Notes.OpenEdit(*noteID); err != nil {
			cli.notifier.Error("Note not found")
			return err
		}
		err = c.Notes.Edit(ctx, *noteID, course.NoteForm{Title: *title, Note: *text})
	case "rm":
		err = c.Notes.Delete(ctx, *noteID)
	}
	if err != nil {
		return err
	}

	for _, n := range c.Notes.List() {
		cli.printf("%4d  %s\n      %s\n", n.ID, n.Title, n.Note)
	}
	return nil
}

func (cli *commandLine) question(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("question", args, "list", "ask", "reply")
	if err != nil {
		return err
	}
	fs := cli.flagSet("question " + sub)
	enrollmentID := fs.String("enrollment", "", "Enrollment id, as listed by the dashboard")
	required := []string{"enrollment"}
	var (
		qaID           *int
		query          *string
		title, message *string
	)
	switch sub {
	case "list":
		query = fs.String("search", "", "Only show the questions whose title contains this")
		qaID = fs.Int("id", 0, "Show the conversation of this question")
	case "ask":
		title = fs.String("title", "", "Question title")
		message = fs.String("message", "", "Question")
		required = append(required, "title", "message")
	case "reply":
		qaID = fs.Int("id", 0, "Question id")
		message = fs.String("message", "", "Reply")
		required = append(required, "id", "message")
	}
	if err = cli.parse(fs, args, required...); err != nil {
		return err
	}

	c, err := cli.loadCourse(ctx, *enrollmentID)
	if err != nil {
		return err
	}
	qs := c.Questions

	switch sub {
	case "list":
		if *qaID != 0 {
			if err = qs.OpenConversation(*qaID); err != nil {
				cli.notifier.Error("Question not found")
				return err
			}
			thread, _ := qs.Active()
			cli.printThread(thread)
			return nil
		}
		if err = qs.Search(ctx, *query); err != nil {
			return err
		}
	case "ask":
		qs.OpenAsk()
		if err = qs.Ask(ctx, course.QuestionForm{Title: *title, Message: *message}); err != nil {
			return err
		}
	case "reply":
		if err = qs.OpenConversation(*qaID); err != nil {
			cli.notifier.Error("Question not found")
			return err
		}
		if err = qs.Reply(ctx, course.MessageForm{Message: *message}); err != nil {
			return err
		}
		thread, _ := qs.Active()
		cli.printThread(thread)
		return nil
	}

	for _, q := range qs.List() {
		cli.printf("%4d  %-40s %s (%d messages)\n", q.QAID, q.Title, q.Profile.FullName, len(q.Messages))
	}
	return nil
}

func (cli *commandLine) printThread(q course.Question) {
	cli.printf("%s\n%s\n", q.Title, strings.Repeat("-", len(q.Title)))
	for _, m := range q.Messages {
		cli.printf("%s: %s\n", m.Profile.FullName, m.Message)
	}
}

func (cli *commandLine) review(ctx context.Context, args []string) error {
	fs := cli.flagSet("review")
	enrollmentID := fs.String("enrollment", "", "Enrollment id, as listed by the dashboard")
	rating := fs.Int("rating", 0, "Rating, from 1 to 5")
	text := fs.String("text", "", "Review")
	if err := cli.parse(fs, args, "enrollment"); err != nil {
		return err
	}

	c, err := cli.loadCourse(ctx, *enrollmentID)
	if err != nil {
		return err
	}
	if *rating != 0 || *text != "" {
		if err = c.Review.Submit(ctx, course.ReviewForm{Rating: *rating, Review: *text}); err != nil {
			return err
		}
	}

	r, ok := c.Review.Current()
	if !ok {
		cli.println("Not reviewed yet. Run: portal review -enrollment ID -rating N -text TEXT")
		return nil
	}
	cli.printf("%s%s\n%s\n", strings.Repeat("★", r.Rating), strings.Repeat("☆", 5-r.Rating), r.Review)
	return nil
}
