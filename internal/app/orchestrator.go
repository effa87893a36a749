// Package app wires configuration, the file-system model, the breadcrumb
// bar and the Gio window together and runs the event loop.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/justyntemme/crumbbar/internal/config"
	"github.com/justyntemme/crumbbar/internal/crumbs"
	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/fs"
	"github.com/justyntemme/crumbbar/internal/trash"
	"github.com/justyntemme/crumbbar/internal/ui"
)

// Options are the command-line overrides. Empty fields keep the config
// file's values.
type Options struct {
	ConfigPath string
	Root       string
	StartPath  string
	Debug      bool
}

type Orchestrator struct {
	window *app.Window
	cfg    *config.Manager
	fs     *fs.Local
	ui     *ui.Renderer
	crumbs *crumbs.Breadcrumbs

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	refresh chan struct{}
}

// NewOrchestrator loads the configuration and builds the model and the UI.
// The window is not shown until Run.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	cfgMgr := config.NewManager(opts.ConfigPath)
	if err := cfgMgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := cfgMgr.Get()

	if cfg.Debug.Categories != "" && os.Getenv("CRUMBBAR_DEBUG") == "" {
		debug.Configure(cfg.Debug.Categories)
	}
	if opts.Debug {
		debug.Init(os.Stderr, true)
	}

	root := firstNonEmpty(opts.Root, cfg.Root)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		root = home
	}
	start := firstNonEmpty(opts.StartPath, cfg.StartPath)
	if filepath.IsAbs(start) {
		// An absolute start path is taken relative to the root.
		if rel, err := filepath.Rel(root, start); err == nil {
			start = filepath.ToSlash(rel)
		}
	}

	var bin *trash.Bin
	if cfg.Behavior.OverwriteToTrash {
		bin = trash.New(cfg.Behavior.TrashDir)
		if !bin.Available() {
			debug.Log(debug.APP, "trash %q unavailable, overwrites delete permanently", bin.Dir())
			bin = nil
		}
	}

	model, err := fs.NewLocal(fs.Options{
		Root:       root,
		Start:      start,
		Trash:      bin,
		DebounceMs: cfg.Watcher.DebounceMs,
	})
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		window:  new(app.Window),
		cfg:     cfgMgr,
		fs:      model,
		refresh: make(chan struct{}, 1),
	}
	o.ctx, o.cancel = context.WithCancel(context.Background())

	o.ui = ui.NewRenderer(ui.Options{
		Dark:       cfgMgr.IsDarkMode(),
		Separator:  cfg.UI.Separator,
		ShowFiles:  cfg.UI.ShowFiles,
		Invalidate: o.window.Invalidate,
	})
	o.crumbs = crumbs.New(crumbs.Options{
		Context:    o.ctx,
		FS:         model,
		Dialogs:    o.ui.Dialogs(),
		Reporter:   o.ui,
		Invalidate: o.window.Invalidate,
		Spawn:      o.spawn,
	})
	o.ui.Bind(o.crumbs, o.openDir)

	if err := cfgMgr.ParseError(); err != nil {
		o.ui.ShowToast("Config error, using defaults: "+err.Error(), ui.ToastWarning)
	}
	return o, nil
}

// spawn runs f on a goroutine that shutdown waits for. It is only called
// from the UI goroutine, which is also the one running shutdown.
func (o *Orchestrator) spawn(f func()) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		f()
	}()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// openDir enters a directory clicked in the file panel.
func (o *Orchestrator) openDir(name string) {
	go func() {
		if err := o.fs.Navigate(o.ctx, name); err != nil {
			o.ui.Report(crumbs.OpenErrorContext, err)
		}
	}()
}

// startWorkers runs the watcher and the listing loop.
func (o *Orchestrator) startWorkers(watch bool) {
	if watch {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			if err := o.fs.Watch(o.ctx); err != nil {
				debug.Log(debug.WATCH, "watcher stopped: %v", err)
			}
		}()
	}

	cancelSub := o.fs.Subscribe(func(string) { o.requestListing() })
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancelSub()
		o.listLoop()
	}()
	o.requestListing()
}

// requestListing coalesces refresh requests; it never blocks.
func (o *Orchestrator) requestListing() {
	select {
	case o.refresh <- struct{}{}:
	default:
	}
}

func (o *Orchestrator) listLoop() {
	for {
		select {
		case <-o.ctx.Done():
			return
		case <-o.refresh:
			entries, err := o.fs.List()
			if err != nil {
				debug.Log(debug.FS, "list failed: %v", err)
				continue
			}
			o.ui.Files().SetEntries(entries)
			o.window.Invalidate()
		}
	}
}

// Run shows the window and processes events until it is closed.
func (o *Orchestrator) Run() error {
	debug.Log(debug.APP, "starting at %q (root %s)", o.fs.Path(), o.fs.Root())
	defer o.shutdown()

	o.window.Option(
		app.Title("crumbbar"),
		app.Size(unit.Dp(720), unit.Dp(480)),
	)
	o.startWorkers(o.cfg.Get().Watcher.Enabled)

	var ops op.Ops
	for {
		switch e := o.window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			o.ui.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (o *Orchestrator) shutdown() {
	o.cancel()
	o.crumbs.Close()
	o.wg.Wait()
	debug.Log(debug.APP, "stopped")
}

// Main runs the application. It does not return.
func Main(opts Options) {
	o, err := NewOrchestrator(opts)
	if err != nil {
		debug.Logger().Fatal().Err(err).Msg("startup failed")
	}
	go func() {
		if err := o.Run(); err != nil {
			debug.Logger().Fatal().Err(err).Msg("window error")
		}
		os.Exit(0)
	}()
	app.Main()
}
