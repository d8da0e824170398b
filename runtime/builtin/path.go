package builtin

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/annotator"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// PathAnnotator completes command names against a cache of executable
// basenames found on PATH. The cache is filled once at startup on its
// own goroutine; the annotator only ever takes the lock long enough to
// copy matches out.
type PathAnnotator struct {
	mu    sync.Mutex
	names []string
}

// NewPathAnnotator starts the background PATH scan and returns the
// annotator immediately; completions appear as the cache fills.
func NewPathAnnotator() *PathAnnotator {
	p := &PathAnnotator{}
	go p.refresh(os.Getenv("PATH"))
	return p
}

func (p *PathAnnotator) refresh(pathVar string) {
	for _, dir := range filepath.SplitList(pathVar) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var batch []string
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				batch = append(batch, entry.Name())
			}
		}
		p.mu.Lock()
		p.names = append(p.names, batch...)
		p.mu.Unlock()
	}
}

// Annotate emits up to five prefix matches for the command name under
// the cursor.
func (p *PathAnnotator) Annotate(node *parser.PTNode, sink *annotator.Sink) {
	if node.Kind() != types.CommandName {
		return
	}
	text := node.Text()

	p.mu.Lock()
	var matches []string
	for _, name := range p.names {
		if strings.HasPrefix(name, text) {
			matches = append(matches, name)
			if len(matches) >= 5 {
				break
			}
		}
	}
	p.mu.Unlock()

	for _, m := range matches {
		sink.AddCompletion(m)
	}
}
