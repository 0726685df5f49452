package main

import "log/slog"

type model struct {
	width      int
	height     int
	cursorX    int
	cursorY    int
	zPanMode   bool
	panX       int
	panY       int
	mode       Mode
	help       bool
	helpScroll int

	editor *Editor
	canvas *Canvas
	raster *Rasterizer
	config *Config
	logger *slog.Logger

	editID        int64
	editText      string
	editCursorPos int

	filename string
	fileOp   FileOperation

	readClipboard func() (string, error)

	// pending gesture in move and resize modes
	gestureID     int64
	gestureX      float64
	gestureY      float64
	gestureScaleX float64
	gestureScaleY float64

	dragging     bool
	dragMoved    bool
	dragStartCol int
	dragStartRow int

	confirmAction  ConfirmAction
	errorMessage   string
	successMessage string
	suggestion     string
}

const panelWidth = 32
