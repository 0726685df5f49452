package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	Execute()
}

func newModel(config *Config, logger *slog.Logger, scheduler Scheduler) (model, error) {
	raster, err := NewRasterizer()
	if err != nil {
		return model{}, err
	}
	canvas := NewCanvas(config.Banner)
	editor := NewEditor(EditorOptions{
		Banner:    config.Banner,
		Debounce:  config.Debounce(),
		Scheduler: scheduler,
		Surface:   canvas,
		Logger:    logger,
	})
	return model{
		mode:          ModeNormal,
		editor:        editor,
		canvas:        canvas,
		raster:        raster,
		config:        config,
		logger:        logger,
		readClipboard: readClipboardText,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case debounceFiredMsg:
		msg.fire()
		return m, nil

	case imageDecodedMsg:
		m.handleImageDecoded(msg)
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.handleHelpKey(msg.String())
			return m, nil
		}
		switch m.mode {
		case ModeMove:
			return m.handleMoveKey(msg)
		case ModeResize:
			return m.handleResizeKey(msg)
		case ModeTextInput:
			return m.handleTextKey(msg)
		case ModeFileInput:
			return m.handleFileKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

// target is the selected entry, or failing that whatever sits under the
// cursor, which then becomes the selection.
func (m *model) target() (int64, bool) {
	if id, ok := m.editor.Selected(); ok {
		return id, true
	}
	id, ok := m.canvas.HitTest(m.cursorX, m.cursorY, m.viewport())
	if !ok {
		return 0, false
	}
	m.editor.Click(id)
	return id, true
}

func (m *model) selectAtCursor() {
	if id, ok := m.canvas.HitTest(m.cursorX, m.cursorY, m.viewport()); ok {
		m.editor.Click(id)
		return
	}
	m.editor.ClickBackground()
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.clearMessages()

	if msg.Type == tea.KeyEscape {
		m.zPanMode = false
		m.editor.ClickBackground()
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		return m, nil
	case "z":
		m.zPanMode = !m.zPanMode
		return m, nil
	case "enter", " ":
		m.selectAtCursor()
		return m, nil

	case "t", "r", "c", "g":
		kinds := map[string]ElementKind{"t": KindText, "r": KindRect, "c": KindCircle, "g": KindPolygon}
		id, err := m.editor.Add(kinds[key])
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.editor.Click(id)
		return m, nil
	case "p":
		return m, m.pasteAsText()
	case "i":
		m.startFileInput(FileOpAddImage, "")
		return m, nil
	case "H":
		m.startFileInput(FileOpExportHTML, htmlExportName)
		return m, nil
	case "P":
		m.startFileInput(FileOpExportPNG, pngExportName)
		return m, nil
	case "b":
		banner := m.editor.Banner()
		m.startFileInput(FileOpBannerSize, fmt.Sprintf("%dx%d", banner.Width, banner.Height))
		return m, nil
	case ":":
		if _, ok := m.target(); !ok {
			m.errorMessage = "Nothing selected"
			return m, nil
		}
		m.startFileInput(FileOpSetProperty, "")
		return m, nil

	case "e":
		id, ok := m.target()
		if !ok {
			return m, nil
		}
		el, isElement := m.editor.Document().Element(id)
		if !isElement || el.Kind != KindText {
			m.errorMessage = "Only text can be edited"
			return m, nil
		}
		m.mode = ModeTextInput
		m.editID = id
		m.editText = el.Text
		m.editCursorPos = len([]rune(el.Text))
		return m, nil
	case "m":
		if id, ok := m.target(); ok {
			m.startGesture(id, ModeMove)
		}
		return m, nil
	case "s":
		if id, ok := m.target(); ok {
			m.startGesture(id, ModeResize)
		}
		return m, nil

	case "f", "F":
		m.cycleFill(key == "F")
		return m, nil
	case ">", "<":
		m.stepFontSize(key == "<")
		return m, nil
	case "a":
		m.cycleAnimation()
		return m, nil
	case "A":
		m.toggleInfinite()
		return m, nil
	case "S":
		m.suggestion = m.editor.SuggestText()
		return m, nil

	case "x", "delete":
		if _, ok := m.target(); !ok {
			return m, nil
		}
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDelete
			return m, nil
		}
		m.editor.DeleteSelected()
		return m, nil

	case "ctrl+z", "u":
		if !m.editor.Undo() {
			m.errorMessage = "Nothing to undo"
		}
		return m, nil
	case "ctrl+y", "U":
		if !m.editor.Redo() {
			m.errorMessage = "Nothing to redo"
		}
		return m, nil

	case "+", "=":
		m.editor.ZoomIn()
		return m, nil
	case "-", "_":
		m.editor.ZoomOut()
		return m, nil
	}

	if isNavigationKey(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m *model) startFileInput(op FileOperation, filename string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = filename
}

// entryOrigin is the position MoveTo and Transform work with.
func entryOrigin(doc Document, id int64) (float64, float64, bool) {
	if img, ok := doc.Image(id); ok {
		return img.X, img.Y, true
	}
	if el, ok := doc.Element(id); ok {
		return el.X, el.Y, true
	}
	return 0, 0, false
}

func (m *model) startGesture(id int64, mode Mode) {
	x, y, ok := entryOrigin(m.editor.Document(), id)
	if !ok {
		return
	}
	m.mode = mode
	m.gestureID = id
	m.gestureX, m.gestureY = x, y
	m.gestureScaleX, m.gestureScaleY = 1, 1
}

func (m *model) gesture() Transform {
	return Transform{X: m.gestureX, Y: m.gestureY, ScaleX: m.gestureScaleX, ScaleY: m.gestureScaleY}
}

func (m *model) endGesture() {
	m.canvas.ClearGesture()
	m.mode = ModeNormal
}

func (m *model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEscape:
		m.endGesture()
	case key == "enter":
		m.endGesture()
		m.editor.DragEnd(m.gestureX, m.gestureY)
	case isNavigationKey(key):
		vp := m.viewport()
		dx, dy := direction(key)
		speed := float64(m.getMoveSpeed(key))
		m.gestureX += float64(dx) * speed * vp.cellW()
		m.gestureY += float64(dy) * speed * vp.cellH()
		m.canvas.SetGesture(m.gestureID, m.gesture())
	}
	return m, nil
}

const resizeStep = 0.1

func (m *model) handleResizeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEscape:
		m.endGesture()
	case key == "enter":
		m.endGesture()
		err := m.editor.TransformEnd(m.gesture())
		switch {
		case errors.Is(err, ErrDegenerateGeometry):
			m.errorMessage = fmt.Sprintf("Too small, minimum is %gx%g", minBoxSize, minBoxSize)
		case errors.Is(err, ErrNotFound):
			m.errorMessage = "Nothing to resize"
		case err != nil:
			m.errorMessage = err.Error()
		}
	case isNavigationKey(key):
		dx, dy := direction(key)
		speed := float64(m.getMoveSpeed(key))
		m.gestureScaleX += float64(dx) * speed * resizeStep
		m.gestureScaleY += float64(dy) * speed * resizeStep
		m.canvas.SetGesture(m.gestureID, m.gesture())
	}
	return m, nil
}

func (m *model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	runes := []rune(m.editText)
	m.editCursorPos = min(max(m.editCursorPos, 0), len(runes))

	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.editText = ""
		return m, nil
	case tea.KeyCtrlS:
		m.mode = ModeNormal
		if err := m.editor.Retext(m.editID, sanitizeText(m.editText)); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				m.errorMessage = "Text cannot be empty"
			} else {
				m.errorMessage = err.Error()
			}
		}
		m.editText = ""
		return m, nil
	case tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
		return m, nil
	case tea.KeyRight:
		if m.editCursorPos < len(runes) {
			m.editCursorPos++
		}
		return m, nil
	case tea.KeyEnter:
		m.insertText("\n")
		return m, nil
	case tea.KeyTab:
		if m.suggestion != "" {
			m.editText = m.suggestion
			m.editCursorPos = len([]rune(m.suggestion))
		}
		return m, nil
	case tea.KeyBackspace:
		if m.editCursorPos > 0 {
			m.editText = string(append(runes[:m.editCursorPos-1:m.editCursorPos-1], runes[m.editCursorPos:]...))
			m.editCursorPos--
		}
		return m, nil
	case tea.KeyDelete:
		if m.editCursorPos < len(runes) {
			m.editText = string(append(runes[:m.editCursorPos:m.editCursorPos], runes[m.editCursorPos+1:]...))
		}
		return m, nil
	case tea.KeyCtrlV:
		text, err := m.readClipboard()
		if err != nil {
			m.errorMessage = "Clipboard unavailable"
			return m, nil
		}
		m.insertText(cleanClipboardText(text))
		return m, nil
	case tea.KeySpace:
		m.insertText(" ")
		return m, nil
	case tea.KeyRunes:
		m.insertText(string(msg.Runes))
		return m, nil
	}
	return m, nil
}

func (m *model) insertText(s string) {
	runes := []rune(m.editText)
	pos := min(max(m.editCursorPos, 0), len(runes))
	ins := []rune(s)
	m.editText = string(slices.Insert(runes, pos, ins...))
	m.editCursorPos = pos + len(ins)
}

// pasteAsText drops the clipboard contents into a new text element.
func (m *model) pasteAsText() tea.Cmd {
	text, err := m.readClipboard()
	if err != nil {
		m.errorMessage = "Clipboard unavailable"
		return nil
	}
	text = strings.TrimSpace(sanitizeText(cleanClipboardText(text)))
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return nil
	}
	el, err := NewElement(KindText, 0)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	el.Text = text
	id, err := m.editor.Insert(el)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.editor.Click(id)
	return nil
}

func (m *model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
		return m, nil
	case tea.KeyEnter:
		if strings.TrimSpace(m.filename) == "" {
			m.errorMessage = "Filename required"
			return m, nil
		}
		return m, m.runFileOp()
	case tea.KeyBackspace:
		if runes := []rune(m.filename); len(runes) > 0 {
			m.filename = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeyCtrlV:
		if text, err := m.readClipboard(); err == nil {
			m.filename += strings.TrimSpace(cleanClipboardText(text))
		}
		return m, nil
	case tea.KeySpace:
		m.filename += " "
		return m, nil
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m *model) runFileOp() tea.Cmd {
	doc := m.editor.Document()
	banner := m.editor.Banner()
	m.errorMessage = ""

	switch m.fileOp {
	case FileOpAddImage:
		path := expandPath(strings.TrimSpace(m.filename))
		m.mode = ModeNormal
		m.filename = ""
		m.successMessage = "Loading " + path
		return decodeImageCmd(path)
	case FileOpExportHTML:
		path := m.config.GetSavePath(m.filename)
		if err := writeHTML(path, doc, banner); err != nil {
			m.errorMessage = fmt.Sprintf("Export failed: %v", err)
			return nil
		}
		m.logger.Info("exported html", "path", path, "entries", doc.Len())
		m.successMessage = "Exported to " + path
		if err := writeClipboardText(path); err == nil {
			m.successMessage += " (path copied)"
		}
	case FileOpExportPNG:
		path := m.config.GetSavePath(m.filename)
		if err := m.raster.SavePNG(path, doc, banner); err != nil {
			m.errorMessage = fmt.Sprintf("Export failed: %v", err)
			return nil
		}
		m.logger.Info("exported png", "path", path, "entries", doc.Len())
		m.successMessage = "Exported to " + path
	case FileOpBannerSize:
		size, err := parseBannerSize(m.filename)
		if err == nil {
			err = m.editor.SetBanner(size)
		}
		if err != nil {
			m.errorMessage = fmt.Sprintf("Banner size must be WxH, 1 to %d: %q", maxBannerSize, m.filename)
			return nil
		}
		m.successMessage = fmt.Sprintf("Banner is now %dx%d", size.Width, size.Height)
	case FileOpSetProperty:
		key, value, ok := strings.Cut(m.filename, "=")
		if !ok {
			m.errorMessage = "Use key=value, e.g. stroke=red"
			return nil
		}
		key = strings.TrimSpace(key)
		if err := m.editor.SetProperty(key, strings.TrimSpace(value)); err != nil {
			m.errorMessage = err.Error()
			return nil
		}
		m.successMessage = "Set " + key
	}
	m.mode = ModeNormal
	m.filename = ""
	return nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDelete:
			m.editor.DeleteSelected()
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		maxScroll := max(0, len(helpLines)-max(1, m.height-1))
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
}

func (m *model) handleImageDecoded(msg imageDecodedMsg) {
	m.successMessage = ""
	if msg.err != nil {
		m.logger.Warn("image rejected", "path", msg.source, "error", msg.err)
		if errors.Is(msg.err, ErrInvalidInput) {
			m.errorMessage = "Not an image: " + msg.source
		} else {
			m.errorMessage = msg.err.Error()
		}
		return
	}
	id, err := m.editor.AddImage(msg.bitmap, msg.source)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.editor.Click(id)
	m.successMessage = "Added " + msg.source
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	w, h := m.canvasSize()
	vp := m.viewport()
	switch msg.Type {
	case tea.MouseWheelUp:
		m.editor.ZoomIn()
	case tea.MouseWheelDown:
		m.editor.ZoomOut()
	case tea.MouseLeft:
		if msg.X >= w || msg.Y >= h {
			return
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		id, ok := m.canvas.HitTest(msg.X, msg.Y, vp)
		if !ok {
			m.editor.ClickBackground()
			return
		}
		m.editor.Click(id)
		x, y, _ := entryOrigin(m.editor.Document(), id)
		m.dragging = true
		m.dragMoved = false
		m.dragStartCol, m.dragStartRow = msg.X, msg.Y
		m.gestureID = id
		m.gestureX, m.gestureY = x, y
		m.gestureScaleX, m.gestureScaleY = 1, 1
	case tea.MouseMotion:
		if !m.dragging {
			return
		}
		tr := m.dragTransform(msg.X, msg.Y, vp)
		m.dragMoved = msg.X != m.dragStartCol || msg.Y != m.dragStartRow
		m.canvas.SetGesture(m.gestureID, tr)
	case tea.MouseRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.canvas.ClearGesture()
		if m.dragMoved {
			tr := m.dragTransform(msg.X, msg.Y, vp)
			m.editor.DragEnd(tr.X, tr.Y)
		}
	}
}

func (m *model) dragTransform(col, row int, vp viewport) Transform {
	return IdentityTransform(
		m.gestureX+float64(col-m.dragStartCol)*vp.cellW(),
		m.gestureY+float64(row-m.dragStartRow)*vp.cellH(),
	)
}

func (m *model) cycleFill(backwards bool) {
	id, ok := m.target()
	if !ok {
		return
	}
	el, isElement := m.editor.Document().Element(id)
	if !isElement {
		m.errorMessage = "Images have no fill"
		return
	}
	i := slices.Index(fillPalette, el.Fill)
	switch {
	case i < 0:
		i = 0
	case backwards:
		i = (i - 1 + len(fillPalette)) % len(fillPalette)
	default:
		i = (i + 1) % len(fillPalette)
	}
	m.setProperty(PropFill, fillPalette[i])
}

const fontStep = 2

func (m *model) stepFontSize(smaller bool) {
	id, ok := m.target()
	if !ok {
		return
	}
	el, isElement := m.editor.Document().Element(id)
	if !isElement || el.Kind != KindText {
		m.errorMessage = "Only text has a font size"
		return
	}
	size := el.FontSize + fontStep
	if smaller {
		size = el.FontSize - fontStep
	}
	m.setProperty(PropFontSize, strconv.FormatFloat(size, 'f', -1, 64))
}

func entryAnimation(doc Document, id int64) (Animation, bool) {
	if img, ok := doc.Image(id); ok {
		return img.Animation, true
	}
	if el, ok := doc.Element(id); ok {
		return el.Animation, true
	}
	return Animation{}, false
}

func (m *model) cycleAnimation() {
	id, ok := m.target()
	if !ok {
		return
	}
	anim, _ := entryAnimation(m.editor.Document(), id)
	next := AnimationKind((int(anim.Kind) + 1) % len(animationNames))
	m.setProperty(PropAnimKind, next.String())
}

func (m *model) toggleInfinite() {
	id, ok := m.target()
	if !ok {
		return
	}
	anim, _ := entryAnimation(m.editor.Document(), id)
	value := "infinite"
	if anim.Iterations.Infinite {
		value = "1"
	}
	m.setProperty(PropAnimIteration, value)
}

func (m *model) setProperty(key, value string) {
	if err := m.editor.SetProperty(key, value); err != nil {
		m.errorMessage = err.Error()
	}
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(frameColor)).
			PaddingLeft(1).
			Width(panelWidth - 1)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	w, h := m.canvasSize()
	showCursor := m.mode == ModeNormal
	lines := m.canvas.Draw(w, h, m.viewport(), m.cursorX, m.cursorY, showCursor)

	panel := m.panelView()
	if panelLines := strings.Split(panel, "\n"); len(panelLines) > h {
		panel = strings.Join(panelLines[:h], "\n")
	}

	var result strings.Builder
	result.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(lines, "\n"), panel))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func enabled(label string, ok bool) string {
	if ok {
		return label
	}
	return disabledStyle.Render(label)
}

func swatch(value string) string {
	hex, ok := hexColor(value)
	if !ok {
		return value
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ") + " " + value
}

func (m model) panelView() string {
	doc := m.editor.Document()
	banner := m.editor.Banner()
	history := m.editor.History()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Banner"))
	fmt.Fprintf(&b, " %dx%d\n", banner.Width, banner.Height)
	fmt.Fprintf(&b, "Zoom %d%%  Entries %d\n\n", int(m.editor.Zoom()*100+0.5), doc.Len())

	b.WriteString(titleStyle.Render("Add") + "\n")
	b.WriteString(" t text  r rect  c circle\n g triangle  i image\n\n")
	b.WriteString(enabled("Undo ctrl+z", history.CanUndo()))
	b.WriteString("  ")
	b.WriteString(enabled("Redo ctrl+y", history.CanRedo()))
	b.WriteString("\n\n")

	id, selected := m.editor.Selected()
	if !selected {
		b.WriteString(disabledStyle.Render("Nothing selected"))
	} else {
		b.WriteString(m.selectionView(doc, id))
	}

	if m.suggestion != "" {
		fmt.Fprintf(&b, "\n\n%s\n %q", titleStyle.Render("Suggestion"), m.suggestion)
	}
	return panelStyle.Render(b.String())
}

func (m model) selectionView(doc Document, id int64) string {
	var b strings.Builder
	var anim Animation
	if img, ok := doc.Image(id); ok {
		b.WriteString(titleStyle.Render("image") + fmt.Sprintf(" #%d\n", id))
		fmt.Fprintf(&b, " pos %g,%g\n size %gx%g\n", img.X, img.Y, img.Width, img.Height)
		anim = img.Animation
	} else if el, ok := doc.Element(id); ok {
		b.WriteString(titleStyle.Render(el.Kind.String()) + fmt.Sprintf(" #%d\n", id))
		fmt.Fprintf(&b, " pos %g,%g\n", el.X, el.Y)
		switch el.Kind {
		case KindText:
			fmt.Fprintf(&b, " font %g\n", el.FontSize)
		case KindRect:
			fmt.Fprintf(&b, " size %gx%g\n", el.Width, el.Height)
		case KindCircle:
			fmt.Fprintf(&b, " radius %g\n", el.Radius)
		case KindPolygon:
			fmt.Fprintf(&b, " points %d\n", len(el.Points)/2)
		}
		fmt.Fprintf(&b, " fill %s\n", swatch(el.Fill))
		if el.Kind != KindText {
			stroke := el.Stroke
			if stroke == "" {
				stroke = "none"
			}
			fmt.Fprintf(&b, " stroke %s\n", swatch(stroke))
		}
		anim = el.Animation
	}
	if anim.Kind == AnimNone {
		b.WriteString(" animation none")
	} else {
		fmt.Fprintf(&b, " animation %s\n %gs +%gs x%s", anim.Kind, anim.Duration, anim.Delay, anim.Iterations)
	}
	return b.String()
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeMove:
		return "MOVE"
	case ModeResize:
		return "RESIZE"
	case ModeTextInput:
		return "TEXT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// cursorDisplay shows the edit cursor as a block over the character it sits on.
func cursorDisplay(text string, pos int) string {
	runes := []rune(strings.ReplaceAll(text, "\n", "⏎"))
	pos = min(max(pos, 0), len(runes))
	if pos >= len(runes) {
		return string(runes) + "█"
	}
	runes[pos] = '█'
	return string(runes)
}

func (m model) statusLine() string {
	var status string
	switch m.mode {
	case ModeTextInput:
		status = fmt.Sprintf("Mode: TEXT | %s | ←/→=move cursor, Enter=newline, Tab=suggestion, Ctrl+S=save, Esc=cancel",
			cursorDisplay(m.editText, m.editCursorPos))
	case ModeMove:
		status = fmt.Sprintf("Mode: MOVE | #%d at %g,%g | hjkl/arrows=move, Enter=finish, Esc=cancel",
			m.gestureID, m.gestureX, m.gestureY)
	case ModeResize:
		status = fmt.Sprintf("Mode: RESIZE | #%d scale %.1fx%.1f | hjkl/arrows=resize, Enter=finish, Esc=cancel",
			m.gestureID, m.gestureScaleX, m.gestureScaleY)
	case ModeFileInput:
		var op string
		switch m.fileOp {
		case FileOpAddImage:
			op = "Image path"
		case FileOpExportHTML:
			op = "Export HTML"
		case FileOpExportPNG:
			op = "Export PNG"
		case FileOpBannerSize:
			op = "Banner size (WxH)"
		case FileOpSetProperty:
			op = "Set (key=value)"
		}
		status = fmt.Sprintf("Mode: FILE | %s: %s█ | Enter=confirm, Esc=cancel", op, m.filename)
	case ModeConfirm:
		message := "Quit? (y/n)"
		if m.confirmAction == ConfirmDelete {
			message = "Delete selection? (y/n)"
		}
		status = "Mode: CONFIRM | " + message
	default:
		modeStr := m.modeString()
		if m.zPanMode {
			modeStr = "PAN"
		}
		status = fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, m.cursorX, m.cursorY)
		if m.errorMessage == "" && m.successMessage == "" {
			status += " | ? for help | q to quit"
		}
	}
	if m.successMessage != "" {
		status += " | " + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	}
	return status
}

var helpLines = []string{
	"Banner Help",
	"===========",
	"",
	"Navigation:",
	"-----------",
	"  h/←/j/↓/k/↑/l/→  Move cursor around the canvas",
	"  Shift+h/j/k/l    Move cursor 2x faster",
	"  z                Toggle pan mode (arrows pan the view)",
	"  +/-              Zoom in/out (mouse wheel too)",
	"  Enter/Space      Select what is under the cursor",
	"  Esc              Clear selection",
	"",
	"Adding:",
	"-------",
	"  t                Text",
	"  r                Rectangle",
	"  c                Circle",
	"  g                Triangle",
	"  i                Image from a file",
	"  p                Text from the clipboard",
	"",
	"Selection:",
	"----------",
	"  e                Edit text",
	"  m                Move mode",
	"  s                Resize mode",
	"  f/F              Next/previous fill color",
	"  >/<              Larger/smaller font",
	"  a                Next entrance animation",
	"  A                Toggle infinite animation",
	"  :                Set a property: fill, stroke, fontSize,",
	"                   animation.kind, animation.duration,",
	"                   animation.delay, animation.iterations",
	"  x/Delete         Delete",
	"  Mouse            Click to select, drag to move",
	"",
	"Text Mode:",
	"----------",
	"  Ctrl+S           Save text",
	"  Ctrl+V           Paste",
	"  Tab              Use the current suggestion",
	"  Esc              Cancel",
	"",
	"General:",
	"--------",
	"  S                Suggest a call to action",
	"  ctrl+z/u         Undo",
	"  ctrl+y/U         Redo",
	"  H                Export HTML",
	"  P                Export PNG",
	"  b                Change the banner size",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := max(1, m.height-1)
	startLine := min(m.helpScroll, max(0, len(helpLines)-visibleHeight))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}
