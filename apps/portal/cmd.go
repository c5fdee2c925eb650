package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/auth"
	"github.com/trezcool/masomo-portal/core/cart"
	"github.com/trezcool/masomo-portal/core/certificate"
	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/services/desktop"
	"github.com/trezcool/masomo-portal/services/lmsapi"
	"github.com/trezcool/masomo-portal/services/notify"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	logger    core.Logger
	out       io.Writer
	notifier  core.Notifier
	validator *core.Validator

	sessions *session.Store
	cartIDs  *cart.IDStore
	api      *lmsapi.Client
	auth     *auth.Service

	printer   certificate.Printer
	sharer    certificate.Sharer
	clipboard certificate.Clipboard
}

func newCommandLine(conf *core.Config, logger core.Logger, storage core.Storage, out io.Writer) *commandLine {
	cli := &commandLine{
		conf:      conf,
		logger:    logger,
		out:       out,
		notifier:  notify.NewConsole(out, !conf.TestMode),
		validator: core.NewValidator(),
		sessions:  session.NewStore(storage),
		cartIDs:   cart.NewIDStore(storage),
		printer:   certificate.LPPrinter{},
		sharer:    desktop.BrowserSharer{},
		clipboard: desktop.FallbackClipboard{
			Primary:   desktop.Clipboard{},
			Secondary: desktop.WriterClipboard{Out: out},
		},
	}
	cli.api = lmsapi.New(conf, cli.sessions, logger)
	cli.auth = auth.NewService(auth.Deps{
		Backend:   cli.api,
		Sessions:  cli.sessions,
		Notifier:  cli.notifier,
		Logger:    logger,
		Validator: cli.validator,
	})
	return cli
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  login -email EMAIL                          - sign in (the password is prompted)")
	cli.println("  logout                                      - sign out")
	cli.println("  register -name NAME -email EMAIL            - create an account and sign in")
	cli.println("  forgot-password -email EMAIL                - email a password reset link")
	cli.println("  reset-password -otp OTP -uuidb64 UUIDB64    - set a new password from a reset link")
	cli.println("  change-password                             - change the password")
	cli.println("  whoami                                      - show the signed-in user")
	cli.println("  profile show|update                         - show or edit the profile")
	cli.println("  cart courses|list|add|remove|checkout|order - browse the catalog and check out")
	cli.println("  dashboard [-search QUERY]                   - enrolled courses and progress")
	cli.println("  course show|open|complete                   - follow a course")
	cli.println("  note list|add|edit|rm                       - personal notes of a course")
	cli.println("  question list|ask|reply                     - Q&A of a course")
	cli.println("  review -enrollment ID [-rating N -text T]   - rate a course")
	cli.println("  certificate show|download|print|share       - certificates")
	cli.println("  course-edit show|upload-image|upload-intro|save - edit a course you teach")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	cmd, rest := args[1], args[2:]

	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		return cli.auth.Logout()
	case "register":
		return cli.register(ctx, rest)
	case "forgot-password":
		return cli.forgotPassword(ctx, rest)
	case "reset-password":
		return cli.resetPassword(ctx, rest)
	case "change-password":
		return cli.changePassword(ctx, rest)
	case "whoami":
		return cli.whoami()
	case "profile":
		return cli.profile(ctx, rest)
	case "cart":
		return cli.cart(ctx, rest)
	case "dashboard":
		return cli.dashboard(ctx, rest)
	case "course":
		return cli.course(ctx, rest)
	case "note":
		return cli.note(ctx, rest)
	case "question":
		return cli.question(ctx, rest)
	case "review":
		return cli.review(ctx, rest)
	case "certificate":
		return cli.certificate(ctx, rest)
	case "course-edit":
		return cli.courseEdit(ctx, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

// Helpers

func (cli *commandLine) println(a ...interface{}) {
	_, _ = fmt.Fprintln(cli.out, a...)
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses args and checks the required string flags are set.
func (cli *commandLine) parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	for _, name := range required {
		if f := fs.Lookup(name); f == nil || strings.TrimSpace(f.Value.String()) == "" || f.Value.String() == "0" {
			cli.printf("missing -%s\n", name)
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

// subcommand splits "cmd sub args..." and checks sub is one of subs.
func (cli *commandLine) subcommand(cmd string, args []string, subs ...string) (string, []string, error) {
	if len(args) > 0 {
		for _, sub := range subs {
			if args[0] == sub {
				return sub, args[1:], nil
			}
		}
	}
	cli.printf("Usage: %s %s\n", cmd, strings.Join(subs, "|"))
	return "", nil, errHelp
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	cli.printf("%s:", prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// identity returns the signed-in user, or session.ErrNotLoggedIn.
func (cli *commandLine) identity() (session.Identity, error) {
	id, err := cli.sessions.Identity()
	if err != nil {
		cli.notifier.Warning("You are not logged in. Run: portal login -email EMAIL")
		return session.Identity{}, err
	}
	return id, nil
}
