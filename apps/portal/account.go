package main

import (
	"context"

	"github.com/trezcool/masomo-portal/core/auth"
	"github.com/trezcool/masomo-portal/core/profile"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.flagSet("login")
	email := fs.String("email", "", "The account's email. The password will be prompted next.")
	if err := cli.parse(fs, args, "email"); err != nil {
		return err
	}
	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}

	id, err := cli.auth.Login(ctx, auth.LoginForm{Email: *email, Password: pwd})
	if err != nil {
		return err
	}
	cli.printf("Signed in as %s <%s>\n", id.FullName, id.Email)
	return nil
}

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := cli.flagSet("register")
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email. The password will be prompted next.")
	if err := cli.parse(fs, args, "name", "email"); err != nil {
		return err
	}
	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}
	pwd2, err := cli.readPassword("Confirm password")
	if err != nil {
		return err
	}

	id, err := cli.auth.Register(ctx, auth.RegisterForm{FullName: *name, Email: *email, Password: pwd, Password2: pwd2})
	if err != nil {
		return err
	}
	cli.printf("Signed in as %s <%s>\n", id.FullName, id.Email)
	return nil
}

func (cli *commandLine) forgotPassword(ctx context.Context, args []string) error {
	fs := cli.flagSet("forgot-password")
	email := fs.String("email", "", "The account's email")
	if err := cli.parse(fs, args, "email"); err != nil {
		return err
	}
	return cli.auth.ForgotPassword(ctx, *email)
}

func (cli *commandLine) resetPassword(ctx context.Context, args []string) error {
	fs := cli.flagSet("reset-password")
	otp := fs.String("otp", "", "The otp parameter of the reset link")
	uuidb64 := fs.String("uuidb64", "", "The uuidb64 parameter of the reset link")
	if err := cli.parse(fs, args, "otp", "uuidb64"); err != nil {
		return err
	}
	pwd, err := cli.readPassword("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := cli.readPassword("Confirm new password")
	if err != nil {
		return err
	}

	return cli.auth.ResetPassword(ctx, auth.ResetPasswordForm{
		OTP:             *otp,
		UUIDB64:         *uuidb64,
		Password:        pwd,
		ConfirmPassword: confirm,
	})
}

func (cli *commandLine) changePassword(ctx context.Context, args []string) error {
	fs := cli.flagSet("change-password")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if _, err := cli.identity(); err != nil {
		return err
	}
	old, err := cli.readPassword("Enter current password")
	if err != nil {
		return err
	}
	pwd, err := cli.readPassword("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := cli.readPassword("Confirm new password")
	if err != nil {
		return err
	}

	return cli.auth.ChangePassword(ctx, auth.ChangePasswordForm{
		OldPassword:        old,
		NewPassword:        pwd,
		ConfirmNewPassword: confirm,
	})
}

func (cli *commandLine) whoami() error {
	id, err := cli.identity()
	if err != nil {
		return err
	}
	cli.printf("%s <%s>\n", id.FullName, id.Email)
	cli.printf("user id:    %d\n", id.UserID)
	if id.IsTeacher() {
		cli.printf("teacher id: %d\n", id.TeacherID)
	}
	if !id.ExpiresAt.IsZero() {
		cli.printf("expires:    %s\n", id.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (cli *commandLine) profile(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("profile", args, "show", "update")
	if err != nil {
		return err
	}
	id, err := cli.identity()
	if err != nil {
		return err
	}
	editor := profile.NewEditor(cli.api, cli.notifier, cli.logger, id.UserID)

	var form profile.Form
	fs := cli.flagSet("profile " + sub)
	if sub == "update" {
		fs.StringVar(&form.FullName, "name", "", "Full name")
		fs.StringVar(&form.About, "about", "", "About you")
		fs.StringVar(&form.Country, "country", "", "Country")
		fs.StringVar(&form.ImagePath, "image", "", "Path of a new profile picture")
	}
	if err = cli.parse(fs, args); err != nil {
		return err
	}

	p, err := editor.Load(ctx)
	if err != nil {
		return err
	}
	if sub == "update" {
		if p, err = editor.Update(ctx, form); err != nil {
			return err
		}
	}

	cli.printf("%s\n", p.FullName)
	if p.Country != "" {
		cli.printf("country: %s\n", p.Country)
	}
	if p.About != "" {
		cli.printf("about:   %s\n", p.About)
	}
	if p.Image != "" {
		cli.printf("image:   %s\n", p.Image)
	}
	return nil
}
