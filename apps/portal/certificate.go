package main

import (
	"context"
	"strings"

	"github.com/trezcool/masomo-portal/core/certificate"
)

func (cli *commandLine) certificate(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("certificate", args, "show", "download", "print", "share")
	if err != nil {
		return err
	}
	fs := cli.flagSet("certificate " + sub)
	certID := fs.String("id", "", "Certificate id")
	var dir *string
	if sub == "download" {
		dir = fs.String("dir", ".", "Directory to save the certificate image in")
	}
	if err = cli.parse(fs, args, "id"); err != nil {
		return err
	}
	id, err := cli.identity()
	if err != nil {
		return err
	}

	v := certificate.NewViewer(certificate.ViewerDeps{
		Backend:   cli.api,
		Notifier:  cli.notifier,
		Logger:    cli.logger,
		Printer:   cli.printer,
		Sharer:    cli.sharer,
		Clipboard: cli.clipboard,
		PublicURL: cli.conf.FrontendBaseURL,
	}, id.UserID)
	cert, err := v.Load(ctx, *certID)
	if err != nil {
		return err
	}

	switch sub {
	case "download":
		path, err := v.Download(*dir)
		if err != nil {
			return err
		}
		cli.println(path)
	case "print":
		return v.Print(ctx)
	case "share":
		return v.Share(ctx)
	default:
		cli.printf("Certificate of Completion  #%s\n", cert.Reference())
		cli.printf("%s completed %s\n", cert.StudentName, cert.CourseTitle)
		if cert.TeacherName != "" {
			cli.printf("instructor: %s\n", cert.TeacherName)
		}
		cli.printf("completed:  %s\n", certificate.LongDate(cert.CompletionDate))
		cli.printf("issued:     %s\n", certificate.LongDate(cert.IssueDate))
		if skills := cert.Skills(); len(skills) > 0 {
			cli.printf("skills:     %s\n", strings.Join(skills, ", "))
		}
		if cert.VerificationURL != "" {
			cli.printf("verify:     %s\n", cert.VerificationURL)
		}
		cli.printf("page:       %s\n", v.PageURL())
	}
	return nil
}
