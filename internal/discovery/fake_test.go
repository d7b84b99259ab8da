package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"modlauncher/internal/modtree"
	"modlauncher/internal/utility"
)

// fakeUtility answers queries from canned output. Missing entries behave
// like a utility that could not be started.
type fakeUtility struct {
	list     *string
	metadata map[string]string
	settings map[string]string
	// delay per mod key, to shuffle completion order
	delay map[string]time.Duration

	mu      sync.Mutex
	queried []string
}

func newFakeUtility(list string) *fakeUtility {
	return &fakeUtility{
		list:     &list,
		metadata: map[string]string{},
		settings: map[string]string{},
		delay:    map[string]time.Duration{},
	}
}

func respond(text string, ok bool) <-chan utility.Output {
	done := make(chan utility.Output, 1)
	if ok {
		done <- utility.Output{Stdout: []byte(text)}
	} else {
		done <- utility.Output{Err: utility.ErrSpawn}
	}
	close(done)
	return done
}

func (f *fakeUtility) ListMods(context.Context) <-chan utility.Output {
	if f.list == nil {
		return respond("", false)
	}
	return respond(*f.list, true)
}

func (f *fakeUtility) ModMetadata(ctx context.Context, key string) <-chan utility.Output {
	f.mu.Lock()
	f.queried = append(f.queried, key)
	f.mu.Unlock()

	text, ok := f.metadata[key]
	if d := f.delay[key]; d > 0 {
		done := make(chan utility.Output, 1)
		go func() {
			defer close(done)
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
			done <- <-respond(text, ok)
		}()
		return done
	}
	return respond(text, ok)
}

func (f *fakeUtility) Setting(_ context.Context, name string) <-chan utility.Output {
	text, ok := f.settings[name]
	return respond(text, ok)
}

// treePresenter records presenter calls as strings.
type treePresenter struct {
	calls []string
}

func (p *treePresenter) ListPassStarted() {
	p.calls = append(p.calls, "pass")
}

func (p *treePresenter) ModDiscovered(ev modtree.NodeEvent) {
	name := ev.Key
	if name == "" {
		name = "[" + ev.Title + "]"
	}
	p.calls = append(p.calls, "add "+ev.Parent.String()+" "+name)
}

func (p *treePresenter) SelectionResolved(path modtree.Path) {
	p.calls = append(p.calls, "select "+path.String())
}

func (p *treePresenter) String() string {
	return strings.Join(p.calls, "\n")
}
