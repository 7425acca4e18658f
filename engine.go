package dxstyles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/dxstyles/internal/cache"
	"github.com/yacobolo/dxstyles/internal/markup"
	"github.com/yacobolo/dxstyles/internal/prefetch"
	"github.com/yacobolo/dxstyles/internal/stylesheet"
	"github.com/yacobolo/dxstyles/internal/watch"
)

// parsedCacheSize bounds the content-addressed result cache. Components
// are small; a few hundred distinct bodies covers typical trees.
const parsedCacheSize = 512

// prefetchEvery is the batch interval between cache preload passes.
const prefetchEvery = 10

// Engine wires discovery, parsing, identifier resolution, caching and
// stylesheet generation into one incremental pipeline.
type Engine struct {
	cfg     Config
	store   *cache.Store
	global  *GlobalSet
	parsed  *lru.Cache[uint64, cache.Entry]
	tracker *prefetch.Tracker

	mu          sync.Mutex
	loadedDirs  map[string]bool
	touchedDirs map[string]bool
}

// NewEngine creates an engine with the given configuration; zero-valued
// fields fall back to the documented defaults.
func NewEngine(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	parsed, err := lru.New[uint64, cache.Entry](parsedCacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:         cfg,
		store:       cache.NewStore(),
		global:      NewGlobalSet(),
		parsed:      parsed,
		tracker:     prefetch.NewTracker(),
		loadedDirs:  make(map[string]bool),
		touchedDirs: make(map[string]bool),
	}, nil
}

// Config returns the effective configuration after defaulting.
func (e *Engine) Config() Config {
	return e.cfg
}

// InitialScan discovers every component file, processes the full set in
// parallel and brings the stylesheet up to date. The reported delta is
// computed against the stylesheet already on disk so an unchanged tree
// restarts quietly.
func (e *Engine) InitialScan(ctx context.Context) (*BatchResult, ScanStats, error) {
	start := time.Now()

	files, stats, err := DiscoverFiles(e.cfg.SourceDir, e.cfg.Includes)
	if err != nil {
		return nil, stats, err
	}
	for _, dir := range uniqueDirs(files) {
		e.ensureDirLoaded(dir)
	}

	updates, reports, err := e.processPaths(ctx, files)
	if err != nil {
		return nil, stats, err
	}
	e.annotateReports(reports, updates)
	_, after := e.global.ApplyBatch(updates)

	prevClasses, prevIDs, err := stylesheet.ReadExisting(e.cfg.Output)
	if err != nil {
		return nil, stats, err
	}
	baseline := &Snapshot{Classes: prevClasses, IDs: prevIDs}

	res, err := e.finishBatch(reports, baseline, after, start)
	return res, stats, err
}

// ProcessBatch runs one debounced batch of changed paths through the
// pipeline, swaps the rebuilt global snapshot in atomically and rewrites
// the stylesheet when the totals changed.
func (e *Engine) ProcessBatch(ctx context.Context, paths []string) (*BatchResult, error) {
	start := time.Now()

	updates, reports, err := e.processPaths(ctx, paths)
	if err != nil {
		return nil, err
	}
	e.annotateReports(reports, updates)
	before, after := e.global.ApplyBatch(updates)

	for _, p := range paths {
		e.tracker.Record(p)
	}

	return e.finishBatch(reports, before, after, start)
}

// Watch blocks processing change batches until ctx is cancelled. onBatch
// is invoked after each completed batch; it may be nil.
func (e *Engine) Watch(ctx context.Context, onBatch func(*BatchResult)) error {
	w, err := watch.New([]string{e.cfg.SourceDir}, watch.Options{
		Debounce:   e.cfg.Debounce,
		Extensions: extensionsFromPatterns(e.cfg.Includes),
	})
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	batches := 0
	for batch := range w.Batches() {
		res, err := e.ProcessBatch(ctx, batch)
		if err != nil {
			return err
		}
		if onBatch != nil {
			onBatch(res)
		}

		batches++
		w.SetDebounce(watch.AdaptiveInterval(e.tracker.ChangeRate()))
		if batches%prefetchEvery == 0 {
			e.preloadHotDirs()
		}
	}

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// processPaths runs the per-file pipeline over paths with bounded
// parallelism and collects the contribution updates for the batch swap.
func (e *Engine) processPaths(ctx context.Context, paths []string) (map[string]*Contribution, []FileReport, error) {
	updates := make(map[string]*Contribution, len(paths))
	reports := make([]FileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	var mu sync.Mutex
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			contrib, rep := e.processFile(path)
			mu.Lock()
			updates[path] = contrib
			mu.Unlock()
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return updates, reports, nil
}

// processFile takes one file through hash, cache lookup, parse, resolve,
// mutate and cache update. A nil contribution removes the file from the
// working set. Failures never abort the batch; they land in the report.
func (e *Engine) processFile(path string) (*Contribution, FileReport) {
	report := FileReport{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		// Deleted or unreadable: drop its contribution and cache entry.
		e.store.Remove(path)
		e.markTouched(filepath.Dir(path))
		if !os.IsNotExist(err) {
			report.Err = err
		}
		return nil, report
	}

	e.ensureDirLoaded(filepath.Dir(path))

	hash := cache.HashBytes(content)
	if ent, ok := e.store.Lookup(path, hash); ok {
		report.CacheHit = true
		return &Contribution{Classes: ent.Classes, IDs: ent.IDs}, report
	}

	// A file whose bytes match another file's final processed form yields
	// the same derived data and needs no rewrite; reuse it without parsing.
	if ent, ok := e.parsed.Get(hash); ok && ent.Hash == hash {
		e.store.Put(path, ent)
		e.markTouched(filepath.Dir(path))
		report.CacheHit = true
		return &Contribution{Classes: ent.Classes, IDs: ent.IDs}, report
	}

	// The line-splice shortcut only applies in pure collection mode, where
	// line tokens are the source of truth and nothing is written back.
	// Known limitation: the line scanner reads attributes textually, so it
	// can disagree with the tree parse on commented-out markup or
	// entity-encoded attribute values. Spliced entries inherit that.
	if !e.cfg.RewriteIDs && !e.cfg.ExpandGroups {
		if contrib, rep, ok := e.spliceFile(path, content, hash, report); ok {
			return contrib, rep
		}
	}

	return e.parseFile(path, content, hash, report)
}

// spliceFile re-derives a file's tokens by rescanning only the changed
// line spans and reusing cached tokens for the rest. Falls back (ok ==
// false) when there is no usable previous entry or the edit rewrote too
// much of the file.
func (e *Engine) spliceFile(path string, content []byte, hash uint64, report FileReport) (*Contribution, FileReport, bool) {
	prev, ok := e.store.Get(path)
	if !ok || len(prev.Lines) == 0 {
		return nil, report, false
	}

	oldLines := make([]string, len(prev.Lines))
	for i, l := range prev.Lines {
		oldLines[i] = l.Text
	}
	newLines := strings.Split(string(content), "\n")

	d := cache.DiffLines(oldLines, newLines)
	if !d.Splicable() {
		return nil, report, false
	}

	lines := make([]cache.Line, len(newLines))
	for i, text := range newLines {
		if oldIdx, mapped := d.Unchanged[i]; mapped {
			lines[i] = prev.Lines[oldIdx]
			continue
		}
		tok := markup.ScanLine(text)
		lines[i] = cache.Line{Text: text, Classes: tok.Classes, IDs: tok.IDs}
	}

	ent := entryFromLines(hash, lines)
	e.store.Put(path, ent)
	e.parsed.Add(hash, ent)
	e.markTouched(filepath.Dir(path))

	report.Spliced = true
	return &Contribution{Classes: ent.Classes, IDs: ent.IDs}, report, true
}

// parseFile is the full pipeline: parse the tree, expand grouped classes,
// resolve managed identifiers, write mutations back and refresh the cache
// entry.
func (e *Engine) parseFile(path string, content []byte, hash uint64, report FileReport) (*Contribution, FileReport) {
	doc, err := markup.Parse(content)
	if err != nil {
		// Malformed markup contributes nothing this pass. No cache entry
		// is written, so the next change retries a full parse.
		report.Err = fmt.Errorf("parse %s: %w", path, err)
		return &Contribution{}, report
	}

	exp := &markup.Expansion{}
	if e.cfg.ExpandGroups {
		exp = markup.ExpandGroups(doc)
	}

	elements := markup.ExtractElements(doc)

	var classes, ids []string
	if e.cfg.RewriteIDs {
		res := markup.Resolve(elements, exp.Resolved, e.cfg.TriggerClass)
		markup.ApplyUpdates(res.Updates)
		bindingsChanged := markup.InsertBindings(doc, exp.Bindings)

		mutated := exp.Changed || len(res.Updates) > 0 || bindingsChanged
		out, changed, rerr := markup.RenderIfChanged(doc, content, mutated)
		if rerr != nil {
			// The mutation is dropped; the original bytes stay on disk and
			// the derived sets still stand.
			report.Err = fmt.Errorf("render %s: %w", path, rerr)
		} else if changed {
			if werr := writeFileAtomic(path, out); werr != nil {
				report.Err = fmt.Errorf("write %s: %w", path, werr)
			} else {
				content = out
				hash = cache.HashBytes(out)
				report.Rewritten = true
			}
		}
		classes = setToSlice(res.Classes)
		ids = setToSlice(res.IDs)
	} else {
		// Collection mode: class and id tokens are taken as they appear,
		// with grouped notation expanded but nothing written back.
		cset := make(map[string]struct{})
		iset := make(map[string]struct{})
		for _, el := range elements {
			list := el.Classes
			if r, ok := exp.Resolved[el.Node]; ok {
				list = r
			}
			for _, c := range list {
				cset[c] = struct{}{}
			}
			if el.CurrentID != "" {
				iset[el.CurrentID] = struct{}{}
			}
		}
		classes = setToSlice(cset)
		ids = setToSlice(iset)
	}

	lines := strings.Split(string(content), "\n")
	toks := markup.ScanLines(lines)
	entryLines := make([]cache.Line, len(lines))
	for i, text := range lines {
		entryLines[i] = cache.Line{Text: text, Classes: toks[i].Classes, IDs: toks[i].IDs}
	}

	ent := cache.Entry{Hash: hash, Classes: classes, IDs: ids, Lines: entryLines}
	e.store.Put(path, ent)
	e.parsed.Add(hash, ent)
	e.markTouched(filepath.Dir(path))

	return &Contribution{Classes: classes, IDs: ids}, report
}

// annotateReports attaches per-file contribution deltas to the reports,
// comparing each new contribution against the one currently recorded.
// Must run before the batch swap replaces the old contributions.
func (e *Engine) annotateReports(reports []FileReport, updates map[string]*Contribution) {
	for i := range reports {
		old, _ := e.global.Contribution(reports[i].Path)
		reports[i].Added, reports[i].Removed = contributionDelta(old, updates[reports[i].Path])
	}
}

// contributionDelta counts the names entering and leaving one file's
// contribution. A nil new contribution counts everything as removed.
func contributionDelta(old Contribution, updated *Contribution) (added, removed int) {
	oldNames := make(map[string]struct{}, len(old.Classes)+len(old.IDs))
	for _, n := range old.Classes {
		oldNames[n] = struct{}{}
	}
	for _, n := range old.IDs {
		oldNames[n] = struct{}{}
	}

	newNames := make(map[string]struct{})
	if updated != nil {
		for _, n := range updated.Classes {
			newNames[n] = struct{}{}
		}
		for _, n := range updated.IDs {
			newNames[n] = struct{}{}
		}
	}

	for n := range newNames {
		if _, ok := oldNames[n]; !ok {
			added++
		}
	}
	for n := range oldNames {
		if _, ok := newNames[n]; !ok {
			removed++
		}
	}
	return added, removed
}

// finishBatch computes the delta, rewrites the stylesheet when the totals
// moved and persists the touched directory blobs.
func (e *Engine) finishBatch(reports []FileReport, before, after *Snapshot, start time.Time) (*BatchResult, error) {
	res := &BatchResult{
		Reports: reports,
		Delta:   ComputeDelta(before, after),
	}
	if !res.Delta.Empty() {
		wrote, err := stylesheet.Write(e.cfg.Output, after.Classes, after.IDs)
		if err != nil {
			return nil, err
		}
		res.StylesheetWritten = wrote
	}
	if err := e.persistTouched(); err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

// ensureDirLoaded loads a directory's persisted cache blob once. In-memory
// entries win over persisted ones; a corrupt blob is discarded and rebuilt
// from source.
func (e *Engine) ensureDirLoaded(dir string) {
	e.mu.Lock()
	if e.loadedDirs[dir] {
		e.mu.Unlock()
		return
	}
	e.loadedDirs[dir] = true
	e.mu.Unlock()

	entries, err := cache.LoadDir(e.cfg.CacheDir, dir)
	if err != nil {
		if errors.Is(err, cache.ErrCorrupt) {
			_ = cache.RemoveBlob(e.cfg.CacheDir, dir)
		}
		return
	}
	for p, ent := range entries {
		if _, ok := e.store.Get(p); !ok {
			e.store.Put(p, ent)
		}
	}
}

func (e *Engine) markTouched(dir string) {
	e.mu.Lock()
	e.touchedDirs[dir] = true
	e.mu.Unlock()
}

// persistTouched writes one cache blob per directory touched since the
// last call. A directory whose last entry vanished loses its blob.
func (e *Engine) persistTouched() error {
	e.mu.Lock()
	dirs := make([]string, 0, len(e.touchedDirs))
	for d := range e.touchedDirs {
		dirs = append(dirs, d)
	}
	e.touchedDirs = make(map[string]bool)
	e.mu.Unlock()
	sort.Strings(dirs)

	var firstErr error
	for _, dir := range dirs {
		entries := e.store.EntriesInDir(dir)
		var err error
		if len(entries) == 0 {
			err = cache.RemoveBlob(e.cfg.CacheDir, dir)
		} else {
			err = cache.SaveDir(e.cfg.CacheDir, dir, entries)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// preloadHotDirs warms cache blobs for directories adjacent to the ones
// changing most often; edits tend to cluster by feature area.
func (e *Engine) preloadHotDirs() {
	for _, dir := range e.tracker.RankDirs(e.cfg.PrefetchLimit) {
		parent := filepath.Dir(dir)
		entries, err := os.ReadDir(parent)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			if ent.IsDir() {
				e.ensureDirLoaded(filepath.Join(parent, ent.Name()))
			}
		}
	}
}

// writeFileAtomic replaces path via a temp file and rename. The temp name
// carries a .tmp suffix so the watcher never feeds it back as a change.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dxstyles-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// extensionsFromPatterns derives the watched extension set from the
// include globs, e.g. "**/*.html" contributes ".html".
func extensionsFromPatterns(patterns []string) []string {
	seen := make(map[string]bool)
	var exts []string
	for _, p := range patterns {
		ext := filepath.Ext(p)
		if ext == "" || strings.ContainsAny(ext, "*?[{") || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}

func entryFromLines(hash uint64, lines []cache.Line) cache.Entry {
	cset := make(map[string]struct{})
	iset := make(map[string]struct{})
	for _, l := range lines {
		for _, c := range l.Classes {
			cset[c] = struct{}{}
		}
		for _, id := range l.IDs {
			iset[id] = struct{}{}
		}
	}
	return cache.Entry{
		Hash:    hash,
		Classes: setToSlice(cset),
		IDs:     setToSlice(iset),
		Lines:   lines,
	}
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
