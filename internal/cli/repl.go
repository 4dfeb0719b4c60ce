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
	Groups(ctx context.Context) error
	AddGroup(ctx context.Context) error
	DeleteGroup(ctx context.Context) error
	List(ctx context.Context) error
	AddItem(ctx context.Context) error
	Show(ctx context.Context) error
	History(ctx context.Context) error
	DeleteItem(ctx context.Context) error
	Attach(ctx context.Context) error
	Export(ctx context.Context) error
	Cleanup(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the haexpass CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//   - help           — show available commands
//   - groups         — list the group tree
//   - addgroup       — create a group
//   - delgroup       — move a group to trash (or delete permanently)
//   - list | l       — list items
//   - add            — add an item
//   - show           — show a single item (interactive ID prompt)
//   - history        — show the snapshot history of an item
//   - del            — move an item to trash (or delete permanently)
//   - attach         — attach a file to an item
//   - export         — export an attachment to disk
//   - cleanup        — remove unreferenced binaries
//   - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("haexpass %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: groups, addgroup, delgroup, (l)ist, add, show, history, del, attach, export, cleanup, exit")

		case "groups":
			_ = a.Groups(ctx)

		case "addgroup":
			_ = a.AddGroup(ctx)

		case "delgroup":
			_ = a.DeleteGroup(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.AddItem(ctx)

		case "show":
			_ = a.Show(ctx)

		case "history":
			_ = a.History(ctx)

		case "del":
			_ = a.DeleteItem(ctx)

		case "attach":
			_ = a.Attach(ctx)

		case "export":
			_ = a.Export(ctx)

		case "cleanup":
			_ = a.Cleanup(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
