// Package gate decides who gets past the login panel.
//
// The check is a flat comparison against a fixed pair. Functions here are
// pure: they return what the caller should show and persist, and never
// touch the screen or the session store themselves.
package gate

import (
	"strings"

	"github.com/zarlcorp/zmail/internal/notify"
)

// Built-in credentials.
const (
	DefaultUsername = "admin"
	DefaultPassword = "1234"
)

// Credentials is the username/password pair the gate accepts.
type Credentials struct {
	Username string
	Password string
}

// Default returns the built-in credential pair.
func Default() Credentials {
	return Credentials{Username: DefaultUsername, Password: DefaultPassword}
}

// View identifies which of the two panels is visible.
type View int

const (
	ViewGate View = iota
	ViewGenerator
)

func (v View) String() string {
	switch v {
	case ViewGate:
		return "gate"
	case ViewGenerator:
		return "generator"
	}
	return "unknown"
}

// user-facing messages
const (
	MsgEmptyFields = "fill in all fields"
	MsgBadLogin    = "wrong username or password"
	MsgLoggedIn    = "logged in"
	MsgLoggedOut   = "logged out"
)

// Result tells the caller what a gate operation decided.
type Result struct {
	Granted bool
	Notice  notify.Notice
	// Show is the panel that should be visible afterwards.
	Show View
	// Shake asks for the attention animation on the gate panel.
	Shake bool
	// Persist is true when the session flag must be written, false when it
	// must be left as is. Logout reports through Clear instead.
	Persist bool
	// Clear is true when the session flag must be removed.
	Clear bool
}

// AttemptLogin checks user and pass against creds. Both inputs are trimmed;
// if either ends up empty the credentials are not compared at all.
func AttemptLogin(creds Credentials, user, pass string) Result {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)

	if user == "" || pass == "" {
		return Result{
			Notice: notify.Notice{Text: MsgEmptyFields, Kind: notify.Error},
			Show:   ViewGate,
		}
	}

	if user != creds.Username || pass != creds.Password {
		return Result{
			Notice: notify.Notice{Text: MsgBadLogin, Kind: notify.Error},
			Show:   ViewGate,
			Shake:  true,
		}
	}

	return Result{
		Granted: true,
		Notice:  notify.Notice{Text: MsgLoggedIn, Kind: notify.Success},
		Show:    ViewGenerator,
		Persist: true,
	}
}

// Gate holds the session state for one terminal session.
type Gate struct {
	creds    Credentials
	loggedIn bool
}

// New creates a gate. restored is the session flag as read from storage.
func New(creds Credentials, restored bool) *Gate {
	return &Gate{creds: creds, loggedIn: restored}
}

// LoggedIn reports the in-memory session flag.
func (g *Gate) LoggedIn() bool { return g.loggedIn }

// View returns the panel that matches the current session flag.
func (g *Gate) View() View {
	if g.loggedIn {
		return ViewGenerator
	}
	return ViewGate
}

// Login runs AttemptLogin and records a successful attempt. A failed
// attempt leaves the flag untouched.
func (g *Gate) Login(user, pass string) Result {
	r := AttemptLogin(g.creds, user, pass)
	if r.Granted {
		g.loggedIn = true
	}
	return r
}

// Restore reports whether the session flag was set when the gate was
// created. When it returns true the generator panel should be shown and
// one email generated.
func (g *Gate) Restore() bool {
	return g.loggedIn
}

// Logout clears the flag. There is no confirmation step.
func (g *Gate) Logout() Result {
	g.loggedIn = false
	return Result{
		Notice: notify.Notice{Text: MsgLoggedOut, Kind: notify.Info},
		Show:   ViewGate,
		Clear:  true,
	}
}
