// Package discovery drives one discovery pass: list the installed mods,
// fetch every mod's metadata, assemble the dependency tree and restore the
// previously selected mod.
package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"modlauncher/internal/errors"
	"modlauncher/internal/logging"
	"modlauncher/internal/mods"
	"modlauncher/internal/modtree"
	"modlauncher/internal/utility"
)

// Setting names read from the utility.
const (
	SettingLastMod  = "Game.Mods"
	SettingRenderer = "Graphics.Renderer"
)

// Utility is the query surface of the external mod utility.
type Utility interface {
	ListMods(ctx context.Context) <-chan utility.Output
	ModMetadata(ctx context.Context, key string) <-chan utility.Output
	Setting(ctx context.Context, name string) <-chan utility.Output
}

// Options tunes a Session.
type Options struct {
	// Concurrency caps in-flight metadata queries; 0 means no cap.
	Concurrency int
	// RegistryCapacity > 0 makes the registry a fixed ring.
	RegistryCapacity int
	// DeferUnresolved holds back records whose dependency is not placed yet
	// and retries them after later placements.
	DeferUnresolved bool
	// Timeout bounds one pass; 0 means no bound.
	Timeout time.Duration
}

// Result is the outcome of one pass.
type Result struct {
	Tree        *modtree.Tree
	Keys        []string
	Records     []mods.Record
	Selected    modtree.Path
	SelectedKey string
	// Unresolved lists keys whose required mod never appeared.
	Unresolved []string
	// Skipped lists keys whose metadata query produced nothing.
	Skipped []string

	lookup func(key string) (*mods.Record, bool)
}

// Session owns the state of discovery passes. Passes on one session must
// not overlap.
type Session struct {
	utility   Utility
	presenter modtree.Presenter
	logger    *log.Logger
	opts      Options
	registry  *mods.Registry
}

// NewSession creates a session. presenter and logger may be nil.
func NewSession(u Utility, presenter modtree.Presenter, logger *log.Logger, opts Options) *Session {
	if presenter == nil {
		presenter = modtree.NopPresenter{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		utility:   u,
		presenter: presenter,
		logger:    logger,
		opts:      opts,
		registry:  mods.NewRegistry(opts.RegistryCapacity),
	}
}

// Run performs one discovery pass. Utility failures never fail the pass;
// they leave nodes out of the tree. Only cancellation is returned.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	s.presenter.ListPassStarted()
	s.registry.Reset()

	pass := &pass{
		session: s,
		tree:    modtree.NewTree(),
		result:  &Result{},
	}
	pass.assembler = modtree.NewAssembler(pass.tree, s.presenter)
	pass.result.Tree = pass.tree
	pass.result.lookup = s.registry.Lookup

	listing := <-s.utility.ListMods(ctx)
	if err := ctx.Err(); err != nil {
		return pass.result, errors.WithStackTrace(err)
	}
	if !listing.Usable() {
		s.logger.Warn("mod list unavailable", "status", listing.ExitStatus, "err", listing.Err)
		return pass.result, nil
	}

	keys := modKeys(listing.Text())
	pass.result.Keys = keys
	s.logger.Info("listed mods", "count", len(keys))

	if err := s.fetch(ctx, keys, pass.apply); err != nil {
		return pass.result, err
	}
	pass.flush()
	pass.result.Records = s.registry.Records()

	s.restore(ctx, pass)
	return pass.result, nil
}

func modKeys(text string) []string {
	var keys []string
	for _, line := range utility.SplitLines(text) {
		if key := strings.TrimSpace(line); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

type completion struct {
	index int
	out   utility.Output
}

// fetch queries every key's metadata concurrently and calls apply from the
// calling goroutine, one completion at a time, in list order.
func (s *Session) fetch(ctx context.Context, keys []string, apply func(key string, out utility.Output)) error {
	queue := make(chan completion)
	group, gctx := errgroup.WithContext(ctx)
	if s.opts.Concurrency > 0 {
		group.SetLimit(s.opts.Concurrency)
	}

	done := make(chan error, 1)
	go func() {
		defer close(queue)
		for i, key := range keys {
			group.Go(func() error {
				out := <-s.utility.ModMetadata(gctx, key)
				select {
				case queue <- completion{index: i, out: out}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		done <- group.Wait()
	}()

	pending := make(map[int]utility.Output)
	next := 0
	for c := range queue {
		pending[c.index] = c.out
		for {
			out, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			apply(keys[next], out)
			next++
		}
	}

	if err := <-done; err != nil {
		return errors.WithStackTrace(err)
	}
	return errors.WithStackTrace(ctx.Err())
}

func (s *Session) restore(ctx context.Context, p *pass) {
	out := <-s.utility.Setting(ctx, SettingLastMod)
	if !out.Usable() {
		s.logger.Debug("last mod setting unavailable", "err", out.Err)
		return
	}

	key := modtree.ParseSelection(out.Text())
	path, ok := modtree.NewRestorer(p.tree, s.presenter).Restore(out.Text())
	if !ok {
		s.logger.Warn("last used mod not in tree", "key", key)
		return
	}
	p.result.Selected = path
	p.result.SelectedKey = key
	s.logger.Debug("restored selection", "key", key, "path", path.String())
}

// pass is the working state of one Run.
type pass struct {
	session   *Session
	tree      *modtree.Tree
	assembler *modtree.Assembler
	result    *Result
	deferred  []*mods.Record
}

func (p *pass) apply(key string, out utility.Output) {
	s := p.session
	if !out.Usable() {
		s.logger.Warn("no metadata for mod", "key", key, "status", out.ExitStatus, "err", out.Err)
		p.result.Skipped = append(p.result.Skipped, key)
		return
	}

	rec := s.registry.Allocate()
	if mods.ParseRecord(out.Text(), rec) == 0 || rec.Key == "" {
		s.logger.Warn("malformed metadata", "key", key)
	}

	if s.opts.DeferUnresolved && !p.assembler.Resolves(rec) {
		s.logger.Debug("deferring mod until its dependency is placed", "key", rec.Key, "requires", rec.Requires)
		p.deferred = append(p.deferred, rec)
		return
	}
	p.place(rec)
	p.retryDeferred()
}

func (p *pass) place(rec *mods.Record) {
	node, placement := p.assembler.Place(rec)
	if placement == modtree.PlacedUnresolved {
		p.session.logger.Warn("required mod not found", "key", rec.Key, "requires", rec.Requires)
		p.result.Unresolved = append(p.result.Unresolved, rec.Key)
	}
	p.session.logger.Debug("placed mod", "key", rec.Key, "placement", placement, "under", node.Parent().Title)
}

// retryDeferred places held-back records until no more resolve.
func (p *pass) retryDeferred() {
	for progress := true; progress && len(p.deferred) > 0; {
		progress = false
		remaining := p.deferred[:0]
		for _, rec := range p.deferred {
			if p.assembler.Resolves(rec) {
				p.place(rec)
				progress = true
				continue
			}
			remaining = append(remaining, rec)
		}
		p.deferred = remaining
	}
}

// flush places the records whose dependency never showed up.
func (p *pass) flush() {
	for _, rec := range p.deferred {
		p.place(rec)
	}
	p.deferred = nil
}
