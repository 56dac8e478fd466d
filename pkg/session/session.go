// Package session manages live chart views.
//
// A [View] is one open document: it owns the render scheduler that keeps the
// drawing surface current, the navigator that forwards jump requests to the
// editor, and the pipeline options used for every pass. Views are explicit
// objects with an Open/Close lifecycle; nothing is shared between them except
// the stateless pipeline runner.
//
// # Usage
//
//	v, err := session.Open(path, session.Options{
//	    Pipeline:  pipeline.DefaultOptions(),
//	    Navigator: navigate.LogNavigator{Logger: logger},
//	    Logger:    logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//	go v.Run(ctx)
//
//	// Source saved on disk
//	v.Notify()
//
//	// Message posted by the chart
//	err = v.HandleMessage(ctx, body)
//
// A [Registry] indexes open views by ID for the HTTP server.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	simerrors "github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/navigate"
	"github.com/LMascagni/simasm/pkg/pipeline"
	"github.com/LMascagni/simasm/pkg/render/chart"
	"github.com/LMascagni/simasm/pkg/scheduler"
	"github.com/LMascagni/simasm/pkg/source"
)

// Sentinel errors for view operations.
var (
	// ErrNotFound is returned when a view does not exist.
	ErrNotFound = errors.New("view not found")

	// ErrNotDrawn is returned when a view has not completed a pass yet.
	ErrNotDrawn = errors.New("view not drawn yet")
)

// DefaultPoll is how often a served chart checks for a new revision.
const DefaultPoll = time.Second

// Options configures a view.
type Options struct {
	Pipeline  pipeline.Options
	Schedule  scheduler.Config
	Navigator navigate.Navigator

	// BasePath prefixes the view's HTTP endpoints ("/views/<id>/api/...").
	BasePath string
	// Poll is the chart's revision polling interval. Zero uses DefaultPoll.
	Poll time.Duration

	// Load reads the document for every pass. Defaults to source.ReadFile.
	Load   func(path string) (*source.Document, error)
	Logger *log.Logger
}

// View is one live chart of a source document.
type View struct {
	ID        string
	Path      string
	CreatedAt time.Time

	opts   Options
	runner *pipeline.Runner
	sched  *scheduler.Scheduler
	nav    navigate.Navigator
	logger *log.Logger

	mu     sync.RWMutex
	doc    *source.Document
	result *pipeline.Result

	closeOnce sync.Once
	closeErr  error
}

// Open creates a view of the document at path. The view draws nothing until
// Run is called.
func Open(path string, opts Options) (*View, error) {
	if err := simerrors.ValidateSourcePath(path); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Load == nil {
		opts.Load = source.ReadFile
	}
	if opts.Navigator == nil {
		opts.Navigator = navigate.LogNavigator{Logger: opts.Logger}
	}
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}

	opts.Pipeline.Formats = []string{pipeline.FormatHTML}
	if opts.Pipeline.Logger == nil {
		opts.Pipeline.Logger = opts.Logger
	}
	if err := opts.Pipeline.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	v := &View{
		ID:        uuid.NewString(),
		Path:      path,
		CreatedAt: time.Now(),
		opts:      opts,
		runner:    pipeline.NewRunner(opts.Logger),
		nav:       opts.Navigator,
	}
	v.logger = opts.Logger.With("view", v.ID[:8])
	v.sched = scheduler.New(v.draw, opts.Schedule, v.logger)
	return v, nil
}

// Base returns the URL prefix of the view's endpoints.
func (v *View) Base() string {
	return v.opts.BasePath + "/views/" + v.ID
}

// Run drives the view's scheduler until ctx is done or the view is closed.
func (v *View) Run(ctx context.Context) error {
	v.logger.Info("view opened", "path", v.Path)
	return v.sched.Run(ctx)
}

// Notify reports that the source document changed.
func (v *View) Notify() error {
	return v.sched.Invalidate()
}

// Resize reports the client's viewport.
func (v *View) Resize(vp scheduler.Viewport) error {
	return v.sched.Resize(vp)
}

// Frame returns the current surface, or nil before the first pass.
func (v *View) Frame() *scheduler.Frame {
	return v.sched.Frame()
}

// State returns the scheduler state.
func (v *View) State() scheduler.State {
	return v.sched.State()
}

// Subscribe forwards to the scheduler; see [scheduler.Scheduler.Subscribe].
func (v *View) Subscribe() (<-chan *scheduler.Frame, func()) {
	return v.sched.Subscribe()
}

// Done is closed when the view is closed.
func (v *View) Done() <-chan struct{} { return v.sched.Done() }

// Result returns the pipeline result of the last successful pass.
func (v *View) Result() (*pipeline.Result, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.result == nil {
		return nil, ErrNotDrawn
	}
	return v.result, nil
}

// ChartJSON renders the last successful pass as JSON.
func (v *View) ChartJSON() ([]byte, error) {
	res, err := v.Result()
	if err != nil {
		return nil, err
	}
	return chart.RenderJSON(res.Chart(v.opts.Pipeline.Title, v.opts.Pipeline.Layout.FontSize))
}

// GraphSVG renders the section graph of the last successful pass through
// Graphviz. Results go through the pipeline cache.
func (v *View) GraphSVG(ctx context.Context) ([]byte, error) {
	res, err := v.Result()
	if err != nil {
		return nil, err
	}
	opts := v.opts.Pipeline
	opts.Formats = []string{pipeline.FormatGraph}
	out, err := v.runner.Render(ctx, res, opts)
	if err != nil {
		return nil, simerrors.Wrap(simerrors.ErrCodeDrawFailed, err, "section graph")
	}
	return out[pipeline.FormatGraph], nil
}

// Jump asks the host to move its cursor to a 0-based document line.
func (v *View) Jump(ctx context.Context, line int) error {
	doc, err := v.document()
	if err != nil {
		return err
	}
	if err := doc.CheckLine(line); err != nil {
		return err
	}
	v.logger.Debug("jump", "line", line)
	return navigate.Deliver(ctx, v.nav, navigate.JumpToLine(line))
}

// HandleMessage decodes a message posted by the chart and acts on it.
func (v *View) HandleMessage(ctx context.Context, data []byte) error {
	m, err := navigate.Parse(data)
	if err != nil {
		return err
	}
	return v.Jump(ctx, m.Line)
}

// Close stops the scheduler and releases the navigator and the measurer.
// It is safe to call
// more than once.
func (v *View) Close() error {
	v.closeOnce.Do(func() {
		v.sched.Close()
		v.closeErr = errors.Join(v.nav.Close(), v.opts.Pipeline.Close())
		v.logger.Info("view closed", "path", v.Path)
	})
	return v.closeErr
}

func (v *View) document() (*source.Document, error) {
	v.mu.RLock()
	doc := v.doc
	v.mu.RUnlock()
	if doc != nil {
		return doc, nil
	}
	return v.opts.Load(v.Path)
}

// draw is the scheduler's DrawFunc. Every pass reloads and re-parses the
// document.
func (v *View) draw(ctx context.Context, _ scheduler.Viewport) (*scheduler.Frame, error) {
	doc, err := v.opts.Load(v.Path)
	if err != nil {
		return nil, err
	}
	rev := Revision(doc.Text())

	opts := v.opts.Pipeline
	base := v.Base()
	opts.ChartOptions = append(slices.Clone(opts.ChartOptions),
		chart.WithEndpoints(base+"/api/jump", base+"/api/resize"),
		chart.WithLiveReload(base+"/api/revision", rev, v.opts.Poll),
		chart.WithEmbeddedFont(),
	)

	res, err := v.runner.Run(ctx, doc, opts)
	if err != nil {
		return nil, simerrors.Wrap(simerrors.ErrCodeDrawFailed, err, "draw %s", v.Path)
	}

	v.mu.Lock()
	v.doc, v.result = doc, res
	v.mu.Unlock()

	f := &scheduler.Frame{
		Revision: rev,
		Sections: res.Stats.Sections,
		Routable: res.Stats.Routable,
		Paths:    res.Stats.Paths,
	}
	out, err := v.runner.Render(ctx, res, opts)
	if err != nil {
		return f, simerrors.Wrap(simerrors.ErrCodeDrawFailed, err, "render %s", v.Path)
	}
	f.Content = out[pipeline.FormatHTML]
	return f, nil
}

// Revision identifies a source text. Charts poll it to detect changes.
func Revision(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
