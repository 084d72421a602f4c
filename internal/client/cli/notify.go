package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// printNotifier shows notifications inline in the terminal. Notifications
// may arrive from the reload timer, so writes are serialized.
type printNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrintNotifier(w io.Writer) *printNotifier {
	return &printNotifier{w: w}
}

func (n *printNotifier) print(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, msg)
}

func (n *printNotifier) Warn(_ context.Context, msg string)    { n.print("warn", msg) }
func (n *printNotifier) Error(_ context.Context, msg string)   { n.print("error", msg) }
func (n *printNotifier) Success(_ context.Context, msg string) { n.print("ok", msg) }
