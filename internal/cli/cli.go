// Package cli implements zmail's command-line subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zarlcorp/zmail/internal/config"
	"github.com/zarlcorp/zmail/internal/gate"
	"github.com/zarlcorp/zmail/internal/mailgen"
	"golang.org/x/term"
)

// Flags is the session flag store as seen by the subcommands.
type Flags interface {
	Load() bool
	Set() error
	Clear() error
	Close()
}

// App wires the subcommands to their dependencies.
type App struct {
	Version string
	Config  config.Config
	Out     io.Writer
	Err     io.Writer

	// OpenFlags opens the session flag store for this terminal session.
	OpenFlags func() (Flags, error)
	// Prompt asks for a username and password.
	Prompt func() (user, pass string, err error)
	// RunTUI starts the interactive widget.
	RunTUI func(ctx context.Context) error
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "zmail",
		Short:         "temporary email generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.RunTUI(cmd.Context())
		},
	}
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(a.Out, "zmail %s\n", a.Version)
			},
		},
		&cobra.Command{
			Use:   "email",
			Short: "log in if needed and print a generated email",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.CmdEmail()
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "clear the session for this terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.CmdLogout()
			},
		},
	)

	return root
}

// CmdEmail prints one generated email. Without a live session it prompts
// for credentials first and starts a session on success.
func (a *App) CmdEmail() error {
	flags, err := a.OpenFlags()
	if err != nil {
		// no session store: still usable, just prompts every time
		fmt.Fprintf(a.Err, "zmail: session unavailable: %v\n", err)
		flags = nil
	}
	if flags != nil {
		defer flags.Close()
	}

	g := gate.New(gate.Default(), flags != nil && flags.Load())
	if !g.Restore() {
		user, pass, err := a.Prompt()
		if err != nil {
			return err
		}
		r := g.Login(user, pass)
		if !r.Granted {
			return errors.New(r.Notice.Text)
		}
		if flags != nil {
			if err := flags.Set(); err != nil {
				fmt.Fprintf(a.Err, "zmail: %v\n", err)
			}
		}
	}

	gen := mailgen.New(a.Config.Domain, a.Config.Length)
	fmt.Fprintln(a.Out, gen.Generate())
	return nil
}

// CmdLogout clears the session flag.
func (a *App) CmdLogout() error {
	flags, err := a.OpenFlags()
	if err != nil {
		return err
	}
	defer flags.Close()

	r := gate.New(gate.Default(), flags.Load()).Logout()
	if r.Clear {
		if err := flags.Clear(); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.Err, r.Notice.Text)
	return nil
}

// TerminalPrompt reads a username from in and a password from the
// terminal without echo. Prompts go to w.
func TerminalPrompt(in io.Reader, w io.Writer) func() (string, string, error) {
	return func() (string, string, error) {
		user, err := ReadLine("username: ", in, w)
		if err != nil {
			return "", "", err
		}
		pass, err := ReadPassword("password: ", w)
		if err != nil {
			return "", "", err
		}
		return user, pass, nil
	}
}

// ReadLine prompts on w and reads one line from r.
func ReadLine(prompt string, r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPassword prompts on w and reads a password without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
