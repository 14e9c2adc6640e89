package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rolandocepedadev/ccat/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	endSession(ctx context.Context)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Star(ctx context.Context, args []string) error
	Get(ctx context.Context, args []string) error
	URL(ctx context.Context, args []string) error

	Add(ctx context.Context, args []string) error
	Queue(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error

	Profile(ctx context.Context, args []string) error
	Name(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error
	Passwd(ctx context.Context, args []string) error
	Debug(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, help, exit"
	helpSignedIn  = `Available commands:
  ls                    refresh and list files
  find [text]           filter by name (no text clears the filter)
  sort name|size|date   sort by column; repeat to flip direction
  view list|grid        switch layout
  select <n>...|all|none
  rm [n...]             delete the given rows, or the selection
  star <n>              add or remove a star
  get <n>               download into the download directory
  url <n>               print a 24 hour download link
  add <path>...         queue files for upload
  queue [rm <n>|clear]  show or edit the upload queue
  upload [path...]      upload everything queued
  profile, name [first] [last], avatar <path>|url, passwd
  debug                 storage diagnostics
  logout, exit`
)

// runREPL starts a simple read–eval–print loop for the ccat CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command errors are printed and never end
// the loop; a rejected session signs the user out. The loop exits on EOF
// or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ccat %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue
		}

		run, ok := dispatch(a, cmd)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := run(ctx, args); err != nil {
			report(ctx, a, err)
		}
	}
}

func dispatch(a execIface, cmd string) (func(context.Context, []string) error, bool) {
	noArgs := func(fn func(context.Context) error) func(context.Context, []string) error {
		return func(ctx context.Context, _ []string) error { return fn(ctx) }
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "register":
			return noArgs(a.Register), true
		case "login":
			return noArgs(a.Login), true
		}
		return func(context.Context, []string) error { return errNotSignedIn }, true
	}

	switch cmd {
	case "register", "login":
		return func(context.Context, []string) error { return errSignedIn }, true
	case "logout":
		return noArgs(a.Logout), true
	case "l", "ls", "list":
		return a.List, true
	case "find", "search":
		return a.Find, true
	case "sort":
		return a.Sort, true
	case "view":
		return a.View, true
	case "select", "sel":
		return a.Select, true
	case "rm", "delete":
		return a.Delete, true
	case "star":
		return a.Star, true
	case "get", "download":
		return a.Get, true
	case "url":
		return a.URL, true
	case "add":
		return a.Add, true
	case "queue":
		return a.Queue, true
	case "upload":
		return a.Upload, true
	case "profile":
		return a.Profile, true
	case "name":
		return a.Name, true
	case "avatar":
		return a.Avatar, true
	case "passwd", "password":
		return a.Passwd, true
	case "debug":
		return a.Debug, true
	}
	return nil, false
}

var (
	errNotSignedIn = errors.New("please log in first (type 'help' for commands)")
	errSignedIn    = errors.New("already logged in, use 'logout' first")
)

// report prints err for the user. A rejected session ends it locally.
func report(ctx context.Context, a execIface, err error) {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		a.endSession(ctx)
		printlnFn("Session expired, please log in again")
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, try again later")
	default:
		printlnFn("Error:", err)
	}
}
