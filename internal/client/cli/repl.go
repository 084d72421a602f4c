package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(ctx context.Context, err error)
	Open(ctx context.Context, args []string) error
	Where(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Students(ctx context.Context, args []string) error
	Student(ctx context.Context, args []string) error
	AddStudent(ctx context.Context) error
	EditStudent(ctx context.Context, args []string) error
	DelStudent(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the console CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                    show available commands
//	  - open <path>             navigate to a console location
//	  - where                   print the current location
//	  - register                create an account
//	  - login                   authenticate
//	  - exit | quit             leave the program
//
//	Logged in:
//	  - whoami                  show the signed-in user
//	  - students [page] [size]  list student records
//	  - student <id>            show one record
//	  - addstudent              create a record
//	  - editstudent <id>        update a record
//	  - delstudent <id>         delete a record
//	  - logout                  log out
//
// Command prompts read from the same reader, so answers and commands may be
// piped in together. Errors returned by command handlers are passed to
// a.report and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("console %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open, where, whoami, students, student, addstudent, editstudent, delstudent, logout, exit")
			} else {
				printlnFn("Available commands: open, where, register, login, exit")
			}

		case "open":
			err = a.Open(ctx, args)
		case "where":
			err = a.Where(ctx)
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "students":
			err = a.Students(ctx, args)
		case "student":
			err = a.Student(ctx, args)
		case "addstudent":
			err = a.AddStudent(ctx)
		case "editstudent":
			err = a.EditStudent(ctx, args)
		case "delstudent":
			err = a.DelStudent(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			a.report(ctx, err)
		}
	}
}
