package main

import (
	"context"
	"flag"
	"strconv"
	"strings"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/instructor"
)

func (cli *commandLine) courseEdit(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("course-edit", args, "show", "upload-image", "upload-intro", "save")
	if err != nil {
		return err
	}
	fs := cli.flagSet("course-edit " + sub)
	courseID := fs.String("course", "", "Course id (the course_id of the course)")
	required := []string{"course"}

	var (
		file    *string
		changes courseChanges
	)
	switch sub {
	case "upload-image", "upload-intro":
		file = fs.String("file", "", "Path of the file to upload")
		required = append(required, "file")
	case "save":
		changes.register(fs)
	}
	if err = cli.parse(fs, args, required...); err != nil {
		return err
	}
	if _, err = cli.identity(); err != nil {
		return err
	}

	e := instructor.NewEditor(cli.api, cli.sessions, cli.notifier, cli.logger, *courseID)
	if err = e.Load(ctx); err != nil {
		return err
	}

	switch sub {
	case "upload-image":
		if err = e.UploadImage(ctx, *file); err != nil {
			return err
		}
		err = e.Submit(ctx)
	case "upload-intro":
		if err = e.UploadIntro(ctx, *file); err != nil {
			return err
		}
		err = e.Submit(ctx)
	case "save":
		if err = changes.apply(e.Draft(), e.Categories()); err != nil {
			cli.notifier.Warning(core.UserMessage("Please fix the form", err))
			return err
		}
		err = e.Submit(ctx)
	}
	if err != nil {
		return err
	}

	crs := e.Draft()
	cli.printf("%s  [%s]\n", crs.Title, crs.CourseID)
	cli.printf("category:    %s\n", categoryTitle(crs.Category, e.Categories()))
	cli.printf("level:       %s\n", crs.Level)
	cli.printf("language:    %s\n", crs.Language)
	cli.printf("price:       %s\n", crs.Price)
	cli.printf("image:       %s\n", crs.Image)
	cli.printf("intro:       %s\n", crs.File)
	cli.printf("description: %s\n", crs.Description)
	return nil
}

// courseChanges are the course fields set on the command line; unset ones keep the draft's value.
type courseChanges struct {
	title, description, level, language, category string
	price                                         float64
}

func (c *courseChanges) register(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "Title")
	fs.StringVar(&c.description, "description", "", "Description")
	fs.StringVar(&c.level, "level", "", "Level: "+strings.Join(instructor.Levels, ", "))
	fs.StringVar(&c.language, "language", "", "Language")
	fs.StringVar(&c.category, "category", "", "Category title or id")
	fs.Float64Var(&c.price, "price", 0, "Price")
}

func (c courseChanges) apply(draft *instructor.Course, cats []instructor.Category) error {
	var flds []core.FieldError
	if c.level != "" {
		level := ""
		for _, l := range instructor.Levels {
			if strings.EqualFold(l, c.level) {
				level = l
			}
		}
		if level == "" {
			flds = append(flds, core.FieldError{Field: "level", Error: "must be one of " + strings.Join(instructor.Levels, ", ")})
		}
		draft.Level = level
	}
	if c.category != "" {
		ref, ok := findCategory(c.category, cats)
		if !ok {
			flds = append(flds, core.FieldError{Field: "category", Error: "unknown category " + c.category})
		}
		draft.Category = ref
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if c.title != "" {
		draft.Title = c.title
	}
	if c.description != "" {
		draft.Description = c.description
	}
	if c.language != "" {
		draft.Language = c.language
	}
	if c.price != 0 {
		draft.Price = core.Money(c.price)
	}
	return nil
}

func findCategory(s string, cats []instructor.Category) (instructor.CategoryRef, bool) {
	for _, cat := range cats {
		if strings.EqualFold(cat.Title, s) || core.CleanString(s) == strconv.Itoa(cat.ID) {
			return instructor.CategoryRef{ID: cat.ID, Title: cat.Title}, true
		}
	}
	return instructor.CategoryRef{}, false
}

func categoryTitle(ref instructor.CategoryRef, cats []instructor.Category) string {
	if ref.Title != "" {
		return ref.Title
	}
	for _, cat := range cats {
		if cat.ID == ref.ID {
			return cat.Title
		}
	}
	if ref.ID == 0 {
		return "-"
	}
	return strconv.Itoa(ref.ID)
}
