// Package converter turns projects into office documents and back. A run
// tries three stages in order: export a project, read an edited export
// back into its project, and build a new project from a bare document.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/novx"
	"github.com/rpggio/novx/internal/odf"
	"github.com/rpggio/novx/internal/splitter"
)

// History records finished runs.
type History interface {
	Record(ctx context.Context, entry *activity.Entry) error
}

type splitFunc func(*splitter.Splitter, *novel.Novel) (bool, error)

// splits names the splitter that rebuilds structure after reading a kind.
var splits = map[format.Kind]splitFunc{
	format.Manuscript:     (*splitter.Splitter).SplitSections,
	format.ChapterDesc:    (*splitter.Splitter).SplitChapters,
	format.SectionDesc:    (*splitter.Splitter).SplitStages,
	format.DocumentImport: (*splitter.Splitter).SplitSections,
}

// Converter runs conversions.
type Converter struct {
	opts     Options
	decider  Decider
	history  History
	splitter *splitter.Splitter
	logger   *slog.Logger
}

// New creates a Converter. A nil decider overwrites existing targets and
// a nil history records nothing.
func New(opts Options, decider Decider, history History, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{
		opts:     opts,
		decider:  decider,
		history:  history,
		splitter: splitter.New(logger),
		logger:   logger,
	}
}

type stage struct {
	name activity.Stage
	run  func(req Request) (*Result, error)
}

// Run converts req.Path with the first stage that accepts it. A stage is
// passed over only when it does not handle the file type; any other
// failure ends the run. The result is returned with the error once a stage
// has accepted the file.
func (c *Converter) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runID := uuid.New()
	stages := []stage{
		{activity.StageExport, c.export},
		{activity.StageImport, c.reimport},
		{activity.StageNewProject, c.newProject},
	}
	for _, s := range stages {
		res, err := s.run(req)
		if errors.Is(err, format.ErrUnsupportedType) && res == nil {
			c.logger.Debug("stage skipped", "stage", s.name, "path", req.Path, "reason", err)
			continue
		}
		if res == nil {
			res = &Result{Source: req.Path}
		}
		res.RunID = runID
		res.Stage = s.name
		c.record(ctx, res, err)
		if err != nil {
			c.logger.Info("conversion stopped", "run_id", runID, "stage", s.name, "path", req.Path, "error", err)
		} else {
			c.logger.Info("conversion finished", "run_id", runID, "stage", s.name, "source", res.Source, "target", res.Target)
		}
		return res, err
	}

	err := fmt.Errorf("%s: %w", filepath.Base(req.Path), format.ErrUnsupportedType)
	c.record(ctx, &Result{RunID: runID, Stage: activity.StageNone, Source: req.Path}, err)
	return nil, err
}

func (c *Converter) record(ctx context.Context, res *Result, runErr error) {
	if c.history == nil {
		return
	}
	entry := &activity.Entry{
		RunID:   res.RunID.String(),
		Stage:   res.Stage,
		Source:  res.Source,
		Target:  res.Target,
		Status:  activity.StatusSucceeded,
		Message: res.Message,
	}
	if res.Stage != activity.StageNone {
		entry.Kind = res.Kind.String()
	}
	switch {
	case errors.Is(runErr, ErrCanceled):
		entry.Status = activity.StatusCanceled
		entry.Message = runErr.Error()
	case runErr != nil:
		entry.Status = activity.StatusFailed
		entry.Message = runErr.Error()
	}
	if err := c.history.Record(ctx, entry); err != nil {
		c.logger.Warn("conversion not recorded", "run_id", entry.RunID, "error", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm applies the overwrite policy to an existing target. It returns
// false when the target is to be kept.
func (c *Converter) confirm(req Request, res *Result) (bool, error) {
	decider := c.decider
	if req.Decider != nil {
		decider = req.Decider
	}
	if !exists(res.Target) || !c.opts.AskBeforeOverwrite || decider == nil {
		return true, nil
	}
	switch decider.Decide(res.Target) {
	case Overwrite:
		return true, nil
	case OpenExisting:
		res.Opened = true
		res.Message = fmt.Sprintf("%s kept", filepath.Base(res.Target))
		return false, nil
	default:
		return false, notify(ErrCanceled, "%s not overwritten", filepath.Base(res.Target))
	}
}

func (c *Converter) split(k format.Kind, n *novel.Novel) error {
	fn, ok := splits[k]
	if !ok {
		return nil
	}
	changed, err := fn(c.splitter, n)
	if err != nil {
		return fmt.Errorf("splitting %s: %w", k, err)
	}
	if changed {
		c.logger.Debug("structure rebuilt from dividers", "kind", k)
	}
	return nil
}

func (c *Converter) export(req Request) (*Result, error) {
	_, src, err := ExportSourceFactory{Backup: c.opts.Backup, Logger: c.logger}.Make(req.Path)
	if err != nil {
		return nil, err
	}
	targets := ExportTargetFactory{Filter: req.Filter, StylesPath: c.opts.StylesPath}
	kind, target, w, err := targets.Make(req.Path, req.Suffix)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("exporting", "source", req.Path, "target", target, "kind", kind)

	res := &Result{Kind: kind, Source: req.Path, Target: target}
	if odf.IsOpen(target) {
		return res, notify(ErrDocumentOpen, "%s is open in an office suite", filepath.Base(target))
	}
	if ok, err := c.confirm(req, res); !ok || err != nil {
		return res, err
	}

	n, err := src.Read()
	if err != nil {
		return res, err
	}
	if !req.Select.IsZero() {
		filter, err := req.Select.Filter(n)
		if err != nil {
			return res, err
		}
		targets.Filter = filter
		if _, _, w, err = targets.Make(req.Path, req.Suffix); err != nil {
			return res, err
		}
	}
	if err := w.Write(n); err != nil {
		return res, err
	}
	if c.opts.LockOnExport && kind.Descriptor().Reimport {
		if err := lock(req.Path, target); err != nil {
			return res, err
		}
	}
	res.Message = fmt.Sprintf("%s written", filepath.Base(target))
	return res, nil
}

func (c *Converter) reimport(req Request) (*Result, error) {
	kind, src, err := ImportSourceFactory{}.Make(req.Path)
	if err != nil {
		return nil, err
	}
	target, project, err := ImportTargetFactory{Backup: c.opts.Backup, Logger: c.logger}.Make(req.Path, kind)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("reading back", "source", req.Path, "project", target, "kind", kind)

	res := &Result{Kind: kind, Source: req.Path, Target: target}
	if !exists(target) {
		return res, fmt.Errorf("%s: %w", filepath.Base(target), ErrProjectNotFound)
	}
	if odf.IsOpen(req.Path) {
		return res, notify(ErrDocumentOpen, "%s is open in an office suite", filepath.Base(req.Path))
	}

	n, err := project.Read()
	if err != nil {
		return res, err
	}
	merged, err := src.Merge(n)
	if err != nil {
		return res, err
	}
	if err := c.split(kind, n); err != nil {
		return res, err
	}
	if err := project.Write(n); err != nil {
		return res, err
	}
	if err := unlock(target); err != nil {
		c.logger.Warn("lock marker kept", "project", target, "error", err)
	}
	res.Message = fmt.Sprintf("%d elements updated in %s", merged, filepath.Base(target))
	return res, nil
}

func (c *Converter) newProject(req Request) (*Result, error) {
	kind, src, err := NewProjectFactory{}.Make(req.Path)
	if err != nil {
		return nil, err
	}
	target := kind.ProjectPath(req.Path)
	c.logger.Debug("creating project", "source", req.Path, "target", target, "kind", kind)

	res := &Result{Kind: kind, Source: req.Path, Target: target}
	if ok, err := c.confirm(req, res); !ok || err != nil {
		return res, err
	}

	n, err := src.Read()
	if err != nil {
		return res, err
	}
	if err := c.split(kind, n); err != nil {
		return res, err
	}
	project := novx.NewFile(target, c.logger)
	project.Backup = c.opts.Backup
	if err := project.Write(n); err != nil {
		return res, err
	}
	res.Message = fmt.Sprintf("%s created", filepath.Base(target))
	return res, nil
}
