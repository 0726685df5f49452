package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Surface is the rendering side of the editor: it draws documents, shows
// manipulation handles on one node and accepts single attribute updates
// without a full redraw.
type Surface interface {
	Render(doc Document)
	AttachHandles(id int64)
	DetachHandles()
	SetAttr(id int64, key, value string)
	SetBanner(banner BannerConfig)
}

type nopSurface struct{}

func (nopSurface) Render(Document)               {}
func (nopSurface) AttachHandles(int64)           {}
func (nopSurface) DetachHandles()                {}
func (nopSurface) SetAttr(int64, string, string) {}
func (nopSurface) SetBanner(BannerConfig)        {}

// Editor owns the live document, the selection and the history. It is the
// only writer of the document; every method must be called from the same
// event loop.
type Editor struct {
	doc      Document
	history  *History
	ids      *IDSource
	surface  Surface
	banner   BannerConfig
	debounce time.Duration
	logger   *slog.Logger

	selected  int64
	selecting bool
	zoom      float64
}

type EditorOptions struct {
	Banner    BannerConfig
	Debounce  time.Duration
	Scheduler Scheduler
	Surface   Surface
	Logger    *slog.Logger
	IDs       *IDSource
}

func NewEditor(opts EditorOptions) *Editor {
	if opts.Surface == nil {
		opts.Surface = nopSurface{}
	}
	if opts.Logger == nil {
		opts.Logger = newNopLogger()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = immediateScheduler{}
	}
	if opts.IDs == nil {
		opts.IDs = NewIDSource(time.Now().UnixMilli())
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Banner.Width <= 0 || opts.Banner.Height <= 0 {
		opts.Banner = BannerConfig{Width: defaultBannerWidth, Height: defaultBannerHeight}
	}
	e := &Editor{
		doc:      NewDocument(nil, nil),
		history:  NewHistory(opts.Scheduler),
		ids:      opts.IDs,
		surface:  opts.Surface,
		banner:   opts.Banner,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		zoom:     1,
	}
	e.surface.Render(e.doc)
	return e
}

func (e *Editor) Document() Document {
	return e.doc
}

func (e *Editor) History() *History {
	return e.history
}

func (e *Editor) Banner() BannerConfig {
	return e.banner
}

func (e *Editor) Selected() (int64, bool) {
	return e.selected, e.selecting
}

func (e *Editor) Zoom() float64 {
	return e.zoom
}

// skip absorbs the conditions that are recovered locally: stale ids and
// rejected resizes leave everything as it was.
func (e *Editor) skip(op string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDegenerateGeometry) {
		e.logger.Debug("mutation skipped", "op", op, "id", id, "error", err)
		return nil
	}
	return err
}

func (e *Editor) apply(next Document) {
	e.doc = next
	e.surface.Render(next)
}

func (e *Editor) commit(op string, next Document) {
	e.apply(next)
	e.history.Commit(next)
	e.logger.Debug("commit", "op", op, "cursor", e.history.Cursor())
}

func (e *Editor) ClickBackground() {
	e.selecting = false
	e.selected = 0
	e.surface.DetachHandles()
}

func (e *Editor) Click(id int64) {
	if !e.doc.Has(id) {
		e.logger.Debug("click on unknown node", "id", id)
		return
	}
	e.selected = id
	e.selecting = true
	e.surface.AttachHandles(id)
}

func (e *Editor) Add(kind ElementKind) (int64, error) {
	next, id, err := AddElement(e.doc, kind, e.ids)
	if err != nil {
		return 0, err
	}
	e.commit("add "+kind.String(), next)
	return id, nil
}

// Insert adds caller-built geometry, e.g. from a replay script.
func (e *Editor) Insert(el Element) (int64, error) {
	next, id, err := InsertElement(e.doc, el, e.ids)
	if err != nil {
		return 0, err
	}
	e.commit("insert "+el.Kind.String(), next)
	return id, nil
}

// AddImage is called once decoding has finished, on the event loop.
func (e *Editor) AddImage(bitmap image.Image, source string) (int64, error) {
	next, id, err := AddImage(e.doc, bitmap, source, e.banner, e.ids)
	if err != nil {
		return 0, err
	}
	e.commit("add image", next)
	return id, nil
}

func (e *Editor) DeleteSelected() {
	id, ok := e.Selected()
	if !ok {
		return
	}
	next, err := DeleteByID(e.doc, id)
	e.ClickBackground()
	if err != nil {
		e.skip("delete", id, err)
		return
	}
	e.commit("delete", next)
}

func (e *Editor) DragEnd(x, y float64) {
	id, ok := e.Selected()
	if !ok {
		return
	}
	next, err := MoveTo(e.doc, id, x, y)
	if err != nil {
		e.skip("move", id, err)
		return
	}
	e.commit("move", next)
}

// TransformEnd reconciles a finished resize gesture. On rejection the surface
// is redrawn from the model so the node snaps back and the cause is returned:
// ErrNotFound without a live selection, ErrDegenerateGeometry for a box below
// the minimum.
func (e *Editor) TransformEnd(tr Transform) error {
	id, ok := e.Selected()
	if !ok {
		return fmt.Errorf("transform without a selection: %w", ErrNotFound)
	}
	next, err := ApplyTransform(e.doc, id, tr)
	if err != nil {
		e.logger.Debug("mutation skipped", "op", "transform", "id", id, "error", err)
		e.surface.Render(e.doc)
		return err
	}
	e.commit("transform", next)
	return nil
}

// SetProperty edits the selected entry. Colors come from continuous pickers
// and go through the debounced commit; everything else commits at once.
func (e *Editor) SetProperty(key, value string) error {
	id, ok := e.Selected()
	if !ok {
		return nil
	}
	if _, isImage := e.doc.Image(id); isImage && key == PropFill {
		return nil
	}
	next, err := SetProperty(e.doc, id, key, value)
	if err != nil {
		return e.skip("set "+key, id, err)
	}
	e.doc = next
	e.surface.SetAttr(id, key, value)
	if key == PropFill || key == PropStroke {
		e.history.DebouncedCommit(next, e.debounce)
		return nil
	}
	e.history.Commit(next)
	e.logger.Debug("commit", "op", "set "+key, "cursor", e.history.Cursor())
	return nil
}

func (e *Editor) Retext(id int64, text string) error {
	next, err := Retext(e.doc, id, text)
	if err != nil {
		return e.skip("retext", id, err)
	}
	e.commit("retext", next)
	return nil
}

func (e *Editor) Undo() bool {
	doc, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.ClickBackground()
	e.apply(doc)
	e.logger.Debug("undo", "cursor", e.history.Cursor())
	return true
}

func (e *Editor) Redo() bool {
	doc, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.ClickBackground()
	e.apply(doc)
	e.logger.Debug("redo", "cursor", e.history.Cursor())
	return true
}

// SetBanner changes the composition size. Like zoom it is configuration, not
// document content, so nothing is committed; later image fits and exports
// use the new size.
func (e *Editor) SetBanner(banner BannerConfig) error {
	if banner.Width <= 0 || banner.Height <= 0 || banner.Width > maxBannerSize || banner.Height > maxBannerSize {
		return fmt.Errorf("banner %dx%d: %w", banner.Width, banner.Height, ErrInvalidInput)
	}
	e.banner = banner
	e.surface.SetBanner(banner)
	e.logger.Debug("banner resized", "width", banner.Width, "height", banner.Height)
	return nil
}

// SetZoom changes the view scale only; the document is untouched.
func (e *Editor) SetZoom(zoom float64) {
	e.zoom = min(maxZoom, max(minZoom, zoom))
}

func (e *Editor) ZoomIn() {
	e.SetZoom(e.zoom * zoomStep)
}

func (e *Editor) ZoomOut() {
	e.SetZoom(e.zoom / zoomStep)
}

// SuggestText picks one of the canned call-to-action phrases.
func (e *Editor) SuggestText() string {
	return textSuggestions[rand.IntN(len(textSuggestions))]
}

func (e *Editor) ExportHTML() string {
	return ExportHTML(e.doc, e.banner)
}
