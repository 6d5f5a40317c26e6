// Package progress renders download progress for interactive use.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/docker/go-units"
)

// DefaultWidth is the default bar width in characters.
const DefaultWidth = 35

// Reporter receives cumulative transfer progress.
type Reporter interface {
	// Show reports that current of total bytes have been transferred.
	// The bar is rendered width characters wide. When carriageReturn
	// is true the line is terminated, otherwise the cursor stays on
	// the line for the next update.
	Show(current, total int64, width int, carriageReturn bool)
}

// Bar is a Reporter that renders an ASCII progress bar.
type Bar struct {
	Out io.Writer
}

// NewBar returns a Bar writing to out.
func NewBar(out io.Writer) *Bar {
	return &Bar{Out: out}
}

// Show renders the bar.
func (b *Bar) Show(current, total int64, width int, carriageReturn bool) {
	if width <= 0 {
		width = DefaultWidth
	}
	if current > total {
		current = total
	}

	filled := 0
	if total > 0 {
		filled = int(float64(width) * float64(current) / float64(total))
	}

	fmt.Fprintf(b.Out, "\r[%s%s] %s/%s",
		strings.Repeat("=", filled),
		strings.Repeat(" ", width-filled),
		units.BytesSize(float64(current)),
		units.BytesSize(float64(total)))

	if carriageReturn {
		fmt.Fprint(b.Out, "\n")
	}
}

// Discard is a Reporter that drops all updates.
type Discard struct{}

// Show implements Reporter.
func (Discard) Show(current, total int64, width int, carriageReturn bool) {}
