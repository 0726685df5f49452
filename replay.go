package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Script is a recorded list of editor intents. It is replayed against a
// virtual clock, so waits and debounce windows cost no real time.
type Script struct {
	Banner *BannerConfig `yaml:"banner"`
	Steps  []Step        `yaml:"steps"`
}

// Step holds exactly one intent.
type Step struct {
	Add       string         `yaml:"add,omitempty"`
	Insert    *InsertStep    `yaml:"insert,omitempty"`
	Image     string         `yaml:"image,omitempty"`
	Select    string         `yaml:"select,omitempty"`
	Move      *MoveStep      `yaml:"move,omitempty"`
	Transform *TransformStep `yaml:"transform,omitempty"`
	Set       *SetStep       `yaml:"set,omitempty"`
	Retext    string         `yaml:"retext,omitempty"`
	Delete    bool           `yaml:"delete,omitempty"`
	Undo      bool           `yaml:"undo,omitempty"`
	Redo      bool           `yaml:"redo,omitempty"`
	Wait      time.Duration  `yaml:"wait,omitempty"`
	Banner    *BannerConfig  `yaml:"banner,omitempty"`
}

type InsertStep struct {
	Kind     string    `yaml:"kind"`
	X        float64   `yaml:"x"`
	Y        float64   `yaml:"y"`
	Text     string    `yaml:"text"`
	FontSize float64   `yaml:"font_size"`
	Width    float64   `yaml:"width"`
	Height   float64   `yaml:"height"`
	Radius   float64   `yaml:"radius"`
	Points   []float64 `yaml:"points"`
	Open     bool      `yaml:"open"`
	Fill     string    `yaml:"fill"`
	Stroke   string    `yaml:"stroke"`
}

type MoveStep struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TransformStep struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	ScaleX float64 `yaml:"scale_x"`
	ScaleY float64 `yaml:"scale_y"`
}

type SetStep struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

func (s Step) intents() int {
	n := 0
	for _, set := range []bool{
		s.Add != "", s.Insert != nil, s.Image != "", s.Select != "",
		s.Move != nil, s.Transform != nil, s.Set != nil, s.Retext != "",
		s.Delete, s.Undo, s.Redo, s.Wait > 0, s.Banner != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", path, err, ErrInvalidInput)
	}
	for i, step := range script.Steps {
		if n := step.intents(); n != 1 {
			return nil, fmt.Errorf("step %d has %d intents, want 1: %w", i+1, n, ErrInvalidInput)
		}
	}
	return &script, nil
}

// Replayer drives an Editor from a script.
type Replayer struct {
	editor  *Editor
	clock   *virtualScheduler
	baseDir string
	logger  *slog.Logger

	last    int64
	hasLast bool
}

func NewReplayer(banner BannerConfig, debounce time.Duration, baseDir string, logger *slog.Logger) *Replayer {
	clock := newVirtualScheduler()
	return &Replayer{
		editor: NewEditor(EditorOptions{
			Banner:    banner,
			Debounce:  debounce,
			Scheduler: clock,
			Logger:    logger,
			IDs:       NewIDSource(0),
		}),
		clock:   clock,
		baseDir: baseDir,
		logger:  logger,
	}
}

func (r *Replayer) Editor() *Editor {
	return r.editor
}

// Run plays every step and then lets any pending debounce land.
func (r *Replayer) Run(steps []Step) error {
	for i, step := range steps {
		if err := r.step(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	r.clock.Advance(r.editor.debounce)
	return nil
}

func (r *Replayer) added(id int64) {
	r.last = id
	r.hasLast = true
	r.editor.Click(id)
}

func (r *Replayer) step(s Step) error {
	switch {
	case s.Add != "":
		kind, ok := parseElementKind(s.Add)
		if !ok {
			return fmt.Errorf("element kind %q: %w", s.Add, ErrInvalidInput)
		}
		id, err := r.editor.Add(kind)
		if err != nil {
			return err
		}
		r.added(id)
	case s.Insert != nil:
		el, err := s.Insert.element()
		if err != nil {
			return err
		}
		id, err := r.editor.Insert(el)
		if err != nil {
			return err
		}
		r.added(id)
	case s.Image != "":
		path := s.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		bitmap, err := loadImage(path)
		if err != nil {
			return err
		}
		id, err := r.editor.AddImage(bitmap, s.Image)
		if err != nil {
			return err
		}
		r.added(id)
	case s.Select != "":
		return r.selectTarget(s.Select)
	case s.Move != nil:
		r.editor.DragEnd(s.Move.X, s.Move.Y)
	case s.Transform != nil:
		tr := Transform{X: s.Transform.X, Y: s.Transform.Y, ScaleX: s.Transform.ScaleX, ScaleY: s.Transform.ScaleY}
		if tr.ScaleX == 0 {
			tr.ScaleX = 1
		}
		if tr.ScaleY == 0 {
			tr.ScaleY = 1
		}
		if err := r.editor.TransformEnd(tr); err != nil {
			r.logger.Info("transform rejected", "scale_x", tr.ScaleX, "scale_y", tr.ScaleY, "error", err)
		}
	case s.Set != nil:
		return r.editor.SetProperty(s.Set.Key, s.Set.Value)
	case s.Retext != "":
		id, ok := r.editor.Selected()
		if !ok {
			return fmt.Errorf("retext without a selection: %w", ErrInvalidInput)
		}
		return r.editor.Retext(id, sanitizeText(s.Retext))
	case s.Delete:
		r.editor.DeleteSelected()
	case s.Undo:
		r.editor.Undo()
	case s.Redo:
		r.editor.Redo()
	case s.Wait > 0:
		r.clock.Advance(s.Wait)
	case s.Banner != nil:
		return r.editor.SetBanner(*s.Banner)
	}
	return nil
}

// selectTarget accepts "last", "background"/"none" or a numeric id.
func (r *Replayer) selectTarget(target string) error {
	switch target {
	case "background", "none":
		r.editor.ClickBackground()
		return nil
	case "last":
		if !r.hasLast {
			return fmt.Errorf("nothing added yet: %w", ErrInvalidInput)
		}
		r.editor.Click(r.last)
		return nil
	}
	id, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("select %q: %w", target, ErrInvalidInput)
	}
	r.editor.Click(id)
	return nil
}

func (s *InsertStep) element() (Element, error) {
	kind, ok := parseElementKind(s.Kind)
	if !ok {
		return Element{}, fmt.Errorf("element kind %q: %w", s.Kind, ErrInvalidInput)
	}
	el, err := NewElement(kind, 0)
	if err != nil {
		return Element{}, err
	}
	el.X, el.Y = s.X, s.Y
	if s.Fill != "" {
		el.Fill = s.Fill
	}
	if s.Stroke != "" {
		el.Stroke = s.Stroke
	}
	switch kind {
	case KindText:
		if s.Text != "" {
			el.Text = sanitizeText(s.Text)
		}
		if s.FontSize != 0 {
			el.FontSize = s.FontSize
		}
	case KindRect:
		if s.Width != 0 || s.Height != 0 {
			el.Width, el.Height = s.Width, s.Height
		}
	case KindCircle:
		if s.Radius != 0 {
			el.Radius = s.Radius
		}
	case KindPolygon:
		if s.Points != nil {
			el.Points = s.Points
		}
		el.Closed = !s.Open
	}
	return el, nil
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Run an intent script headlessly and export the result",
	Long:  `Feeds a YAML list of editor intents through the editor on a virtual clock and writes the HTML and PNG exports.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd, args[0])
	},
}

func init() {
	replayCmd.Flags().String("html", "", "Write the HTML export to this path")
	replayCmd.Flags().String("png", "", "Write the PNG snapshot to this path")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, scriptPath string) error {
	config := resolveConfig(cmd)
	logger := newTextLogger(os.Stderr, config.Level())

	script, err := loadScript(scriptPath)
	if err != nil {
		return err
	}
	banner := config.Banner
	if script.Banner != nil && script.Banner.Width > 0 && script.Banner.Height > 0 {
		banner = *script.Banner
	}

	r := NewReplayer(banner, config.Debounce(), filepath.Dir(scriptPath), logger)
	if err := r.Run(script.Steps); err != nil {
		return err
	}
	doc := r.Editor().Document()
	banner = r.Editor().Banner()

	htmlPath, _ := cmd.Flags().GetString("html")
	pngPath, _ := cmd.Flags().GetString("png")
	if htmlPath == "" && pngPath == "" {
		htmlPath = config.GetSavePath(htmlExportName)
		pngPath = config.GetSavePath(pngExportName)
	}
	if htmlPath != "" {
		if err := writeHTML(htmlPath, doc, banner); err != nil {
			return fmt.Errorf("failed to write html: %w", err)
		}
		logger.Info("exported html", "path", htmlPath, "entries", doc.Len())
	}
	if pngPath != "" {
		raster, err := NewRasterizer()
		if err != nil {
			return err
		}
		if err := raster.SavePNG(pngPath, doc, banner); err != nil {
			return fmt.Errorf("failed to write png: %w", err)
		}
		logger.Info("exported png", "path", pngPath, "entries", doc.Len())
	}
	fmt.Printf("Replayed %d steps: %d entries, %d history snapshots\n",
		len(script.Steps), doc.Len(), r.Editor().History().Len())
	return nil
}
