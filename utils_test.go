package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Shop Now!", sanitizeText("Shop Now!"))
	assert.Equal(t, "Shop & save", sanitizeText("<b>Shop</b> &amp; save"))
	assert.Equal(t, "Hi", sanitizeText(`<script>alert(1)</script>Hi`))
	assert.Equal(t, "a < b", sanitizeText("a < b"))
}

func TestCleanClipboardText(t *testing.T) {
	assert.Equal(t, "line one\nline two\nthree", cleanClipboardText("line one\r\nline two\rthree"))
	assert.Equal(t, "bell", cleanClipboardText("be\x07ll"))
	assert.Equal(t, "Limited Offer!", cleanClipboardText("<html><body><div>Limited Offer!</div></body></html>"))
	assert.Equal(t, "Hello", cleanClipboardText(`{\rtf1\ansi Hello}`))
	assert.Empty(t, cleanClipboardText(""))
}

func TestIsRTF(t *testing.T) {
	assert.True(t, isRTF(`{\rtf1 x}`))
	assert.False(t, isRTF("plain"))
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("<div>x</div>"))
	assert.False(t, isHTML("<3 you"))
}
