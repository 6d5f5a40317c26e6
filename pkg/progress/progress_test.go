package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarShow(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Show(5242880, 10485760, 10, false)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\r"))
	assert.Contains(t, out, "[=====     ]")
	assert.Contains(t, out, "5MiB/10MiB")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestBarShowTerminatesLine(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Show(10485760, 10485760, 10, true)
	out := buf.String()

	assert.Contains(t, out, "[==========]")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestBarShowClampsOvershoot(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Show(2048, 1024, 4, false)
	assert.Contains(t, buf.String(), "1KiB/1KiB")
}

func TestBarShowDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Show(0, 1024, 0, false)
	assert.Contains(t, buf.String(), "["+strings.Repeat(" ", DefaultWidth)+"]")
}
