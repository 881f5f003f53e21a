package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`   ____ _               _               _   `,
	`  / ___| |__   ___  ___| | _____  _   _| |_ `,
	` | |   | '_ \ / _ \/ __| |/ / _ \| | | | __|`,
	` | |___| | | |  __/ (__|   < (_) | |_| | |_ `,
	`  \____|_| |_|\___|\___|_|\_\___/ \__,_|\__|`,
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

// PrintBanner writes the checkout banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
