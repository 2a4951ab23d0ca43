package main

import (
	"os"

	"github.com/fatih/color"
)

// shouldUseColor decides whether colored output is appropriate: the
// --no-color flag and the NO_COLOR environment variable both win over an
// interactive terminal, matching the convention in the reference CLI this
// tool is shaped after.
func shouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// palette bundles the color.Color helpers the CLI's output uses, built
// once per invocation so every caller respects the same --no-color
// decision without threading a bool through every print call.
type palette struct {
	red    *color.Color
	green  *color.Color
	yellow *color.Color
	gray   *color.Color
	cyan   *color.Color
}

func newPalette(useColor bool) *palette {
	p := &palette{
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		gray:   color.New(color.FgHiBlack),
		cyan:   color.New(color.FgCyan),
	}
	if !useColor {
		for _, c := range []*color.Color{p.red, p.green, p.yellow, p.gray, p.cyan} {
			c.DisableColor()
		}
	}
	return p
}
