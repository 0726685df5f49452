package main

import (
	"fmt"
	"image"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, confirmations bool) (*model, *virtualScheduler) {
	t.Helper()
	config := defaultConfig()
	config.Confirmations = confirmations
	clock := newVirtualScheduler()
	m, err := newModel(config, newNopLogger(), clock)
	require.NoError(t, err)
	return send(&m, tea.WindowSizeMsg{Width: 100, Height: 30}), clock
}

// send feeds messages through Update and unwraps the resulting model.
func send(m *model, msgs ...tea.Msg) *model {
	var current tea.Model = m
	for _, msg := range msgs {
		current, _ = current.Update(msg)
	}
	switch v := current.(type) {
	case model:
		return &v
	case *model:
		return v
	}
	panic(fmt.Sprintf("unexpected model type %T", current))
}

func keys(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func key(t tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: t}
}

func selectedElement(t *testing.T, m *model) Element {
	t.Helper()
	id, ok := m.editor.Selected()
	require.True(t, ok)
	el, ok := m.editor.Document().Element(id)
	require.True(t, ok)
	return el
}

func TestModel_AddUndoRedo(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("rc")...)
	assert.Equal(t, 2, m.editor.Document().Len())

	m = send(m, key(tea.KeyCtrlZ))
	assert.Equal(t, 1, m.editor.Document().Len())
	assert.Equal(t, KindRect, m.editor.Document().Elements[0].Kind)

	m = send(m, key(tea.KeyCtrlY))
	assert.Equal(t, 2, m.editor.Document().Len())

	m = send(m, key(tea.KeyCtrlY))
	assert.Equal(t, "Nothing to redo", m.errorMessage)
}

func TestModel_NothingToUndo(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("u")...)
	assert.Equal(t, "Nothing to undo", m.errorMessage)
}

func TestModel_EditText(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("te!")...)
	assert.Equal(t, ModeTextInput, m.mode)
	assert.Equal(t, "New Text!", m.editText)

	m = send(m, key(tea.KeyCtrlS))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "New Text!", selectedElement(t, m).Text)
	assert.Empty(t, m.errorMessage)
}

func TestModel_EditTextRejectsEmpty(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("te")...)
	for range len("New Text") {
		m = send(m, key(tea.KeyBackspace))
	}
	assert.Empty(t, m.editText)

	m = send(m, key(tea.KeyCtrlS))
	assert.Equal(t, "Text cannot be empty", m.errorMessage)
	assert.Equal(t, "New Text", selectedElement(t, m).Text)
	assert.Equal(t, 2, m.editor.History().Len())
}

func TestModel_EditTextEscape(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("teabc")...)
	m = send(m, key(tea.KeyEscape))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "New Text", selectedElement(t, m).Text)
}

func TestModel_OnlyTextIsEditable(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("re")...)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Only text can be edited", m.errorMessage)
}

func TestModel_Delete(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("rx")...)
	assert.Equal(t, 0, m.editor.Document().Len())
	assert.Equal(t, 3, m.editor.History().Len())
}

func TestModel_DeleteWithConfirmation(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = send(m, keys("rx")...)
	assert.Equal(t, ModeConfirm, m.mode)

	m = send(m, keys("n")...)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, m.editor.Document().Len())

	m = send(m, keys("xy")...)
	assert.Equal(t, 0, m.editor.Document().Len())
}

func TestModel_MoveMode(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("rmll")...)
	assert.Equal(t, ModeMove, m.mode)
	assert.Equal(t, 20.0, selectedElement(t, m).X, "nothing commits before enter")

	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 36.0, selectedElement(t, m).X)
	assert.Equal(t, 3, m.editor.History().Len())
}

func TestModel_MoveModeCancel(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("rmjj")...)
	m = send(m, key(tea.KeyEscape))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 20.0, selectedElement(t, m).Y)
	assert.Equal(t, 2, m.editor.History().Len())
}

func TestModel_ResizeMode(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("rsll")...)
	m = send(m, key(tea.KeyEnter))
	assert.InDelta(t, 120, selectedElement(t, m).Width, 1e-9)
	assert.Empty(t, m.errorMessage)
}

func TestModel_ResizeRejectsTinyBox(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("rs")...)
	m = send(m, keys("hhhhhhhhhh")...)
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, "Too small, minimum is 5x5", m.errorMessage)
	assert.Equal(t, 100.0, selectedElement(t, m).Width)
	assert.Equal(t, 2, m.editor.History().Len())
}

func TestModel_CycleFillIsDebounced(t *testing.T) {
	m, clock := newTestModel(t, false)
	m = send(m, keys("rf")...)
	assert.Equal(t, "orange", selectedElement(t, m).Fill)
	assert.Equal(t, 2, m.editor.History().Len())

	m = send(m, keys("F")...)
	assert.Equal(t, "blue", selectedElement(t, m).Fill)

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 3, m.editor.History().Len())
}

func TestModel_FontSizeAndAnimation(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("t>>aA")...)
	el := selectedElement(t, m)
	assert.Equal(t, 24.0, el.FontSize)
	assert.Equal(t, AnimFadeIn, el.Animation.Kind)
	assert.True(t, el.Animation.Iterations.Infinite)

	m = send(m, keys("r<")...)
	assert.Equal(t, "Only text has a font size", m.errorMessage)
}

func TestModel_MouseDrag(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("r")...)
	m = send(m, key(tea.KeyEscape))
	_, ok := m.editor.Selected()
	require.False(t, ok)

	m = send(m,
		tea.MouseMsg{X: 5, Y: 2, Type: tea.MouseLeft},
		tea.MouseMsg{X: 7, Y: 2, Type: tea.MouseMotion},
		tea.MouseMsg{X: 7, Y: 2, Type: tea.MouseRelease},
	)
	assert.Equal(t, 36.0, selectedElement(t, m).X)
	assert.Equal(t, 3, m.editor.History().Len())
}

func TestModel_ClickWithoutDragDoesNotCommit(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("r")...)
	m = send(m,
		tea.MouseMsg{X: 5, Y: 2, Type: tea.MouseLeft},
		tea.MouseMsg{X: 5, Y: 2, Type: tea.MouseRelease},
	)
	assert.Equal(t, 2, m.editor.History().Len())

	m = send(m, tea.MouseMsg{X: 60, Y: 25, Type: tea.MouseLeft})
	_, ok := m.editor.Selected()
	assert.False(t, ok)
}

func TestModel_Zoom(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("+")...)
	assert.Equal(t, 1.25, m.editor.Zoom())
	m = send(m, keys("--")...)
	assert.InDelta(t, 0.8, m.editor.Zoom(), 1e-9)
	m = send(m, tea.MouseMsg{Type: tea.MouseWheelUp})
	assert.InDelta(t, 1.0, m.editor.Zoom(), 1e-9)
}

func TestModel_CursorStaysOnCanvas(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("hhkk")...)
	assert.Equal(t, 0, m.cursorX)
	assert.Equal(t, 0, m.cursorY)

	for range 100 {
		m = send(m, keys("l")...)
	}
	assert.Equal(t, 100-panelWidth-1, m.cursorX)
}

func TestModel_ImageDecoded(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, imageDecodedMsg{source: "notes.txt", err: fmt.Errorf("sniffed text: %w", ErrInvalidInput)})
	assert.Equal(t, "Not an image: notes.txt", m.errorMessage)
	assert.Equal(t, 0, m.editor.Document().Len())

	m = send(m, imageDecodedMsg{source: "logo.png", bitmap: image.NewRGBA(image.Rect(0, 0, 10, 10))})
	require.Len(t, m.editor.Document().Images, 1)
	id, ok := m.editor.Selected()
	require.True(t, ok)
	assert.Equal(t, m.editor.Document().Images[0].ID, id)
	assert.Equal(t, "Added logo.png", m.successMessage)
}

func TestModel_ImagePrompt(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("i")...)
	assert.Equal(t, ModeFileInput, m.mode)

	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, "Filename required", m.errorMessage)

	m = send(m, keys("a.png")...)
	next, cmd := m.Update(key(tea.KeyEnter))
	m = send(next.(*model))
	assert.Equal(t, ModeNormal, m.mode)
	require.NotNil(t, cmd)
	msg, ok := cmd().(imageDecodedMsg)
	require.True(t, ok)
	assert.Error(t, msg.err)
}

func TestModel_ExportPNG(t *testing.T) {
	m, _ := newTestModel(t, false)
	m.config.SaveDirectory = t.TempDir()
	m = send(m, keys("rP")...)
	assert.Equal(t, pngExportName, m.filename)

	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.errorMessage)
	assert.Contains(t, m.successMessage, pngExportName)
	assert.FileExists(t, m.config.GetSavePath(pngExportName))
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("r")...)
	view := m.View()
	assert.Contains(t, view, "Banner")
	assert.Contains(t, view, "600x400")
	assert.Contains(t, view, "rect")

	m = send(m, keys("?")...)
	assert.True(t, m.help)
	m = send(m, keys("?")...)
	assert.False(t, m.help)
}

func clipboardWith(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

func TestModel_PasteIsOneCommit(t *testing.T) {
	m, _ := newTestModel(t, false)
	m.readClipboard = clipboardWith("<b>Big Sale</b>\r\n")
	before := m.editor.History().Len()

	m = send(m, keys("p")...)
	assert.Equal(t, before+1, m.editor.History().Len())
	assert.Equal(t, "Big Sale", selectedElement(t, m).Text)

	m = send(m, keys("p")...)
	assert.Equal(t, before+2, m.editor.History().Len())

	m = send(m, key(tea.KeyCtrlZ), key(tea.KeyCtrlZ))
	assert.Equal(t, 0, m.editor.Document().Len(), "undo removes each paste whole")
}

func TestModel_PasteEmptyClipboard(t *testing.T) {
	m, _ := newTestModel(t, false)
	m.readClipboard = clipboardWith("  \n")
	m = send(m, keys("p")...)
	assert.Equal(t, "Clipboard is empty", m.errorMessage)
	assert.Equal(t, 1, m.editor.History().Len())

	m.readClipboard = func() (string, error) { return "", fmt.Errorf("no clipboard") }
	m = send(m, keys("p")...)
	assert.Equal(t, "Clipboard unavailable", m.errorMessage)
}

func TestModel_PasteIntoTextEdit(t *testing.T) {
	m, _ := newTestModel(t, false)
	m.readClipboard = clipboardWith(" now")
	m = send(m, keys("te")...)
	m = send(m, key(tea.KeyCtrlV), key(tea.KeyCtrlS))
	assert.Equal(t, "New Text now", selectedElement(t, m).Text)
}

func TestModel_BannerSizePrompt(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("b")...)
	assert.Equal(t, ModeFileInput, m.mode)
	assert.Equal(t, "600x400", m.filename)

	for range len("600x400") {
		m = send(m, key(tea.KeyBackspace))
	}
	m = send(m, keys("300x250")...)
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, BannerConfig{Width: 300, Height: 250}, m.editor.Banner())
	assert.Equal(t, 1, m.editor.History().Len())
	assert.Contains(t, m.View(), "300x250")

	m = send(m, imageDecodedMsg{source: "wide.png", bitmap: image.NewRGBA(image.Rect(0, 0, 1000, 100))})
	require.Len(t, m.editor.Document().Images, 1)
	assert.InDelta(t, 260, m.editor.Document().Images[0].Width, 1e-9)
}

func TestModel_BannerSizePromptRejectsBadInput(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys("bx")...)
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, ModeFileInput, m.mode, "the prompt stays open")
	assert.Contains(t, m.errorMessage, "Banner size must be WxH")
	assert.Equal(t, testBanner, m.editor.Banner())
}

func TestModel_SetPropertyPrompt(t *testing.T) {
	m, clock := newTestModel(t, false)
	m = send(m, keys("r:")...)
	assert.Equal(t, ModeFileInput, m.mode)

	m = send(m, keys("stroke=red")...)
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "red", selectedElement(t, m).Stroke)
	assert.Equal(t, 2, m.editor.History().Len(), "stroke waits for the debounce")
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 3, m.editor.History().Len())

	m = send(m, keys(":animation.duration=2.5")...)
	m = send(m, key(tea.KeyEnter))
	m = send(m, keys(":animation.delay = 0.5")...)
	m = send(m, key(tea.KeyEnter))
	el := selectedElement(t, m)
	assert.Equal(t, 2.5, el.Animation.Duration)
	assert.Equal(t, 0.5, el.Animation.Delay)
	assert.Equal(t, 5, m.editor.History().Len())
}

func TestModel_SetPropertyPromptErrors(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, keys(":")...)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Nothing selected", m.errorMessage)

	m = send(m, keys("r:stroke")...)
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, ModeFileInput, m.mode)
	assert.Contains(t, m.errorMessage, "key=value")

	m = send(m, keys("=")...)
	m = send(m, key(tea.KeyEscape))
	m = send(m, keys(":animation.delay=-1")...)
	m = send(m, key(tea.KeyEnter))
	assert.Contains(t, m.errorMessage, "invalid input")
	assert.Equal(t, 0.0, selectedElement(t, m).Animation.Delay)
}

func TestModel_ResizeWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t, false)
	m.mode = ModeResize
	m.gestureScaleX, m.gestureScaleY = 1, 1
	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, "Nothing to resize", m.errorMessage)
}
