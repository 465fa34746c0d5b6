package cmd

import (
	"fmt"
	"io"

	"github.com/krau/floravision/classifier"
)

const (
	bold  = "\x1b[1m"
	reset = "\x1b[0m"
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

// printResult writes one "label: NN.NN%" line per prediction. The top
// prediction is bold.
func printResult(w io.Writer, r classifier.Result) {
	if len(r) == 0 {
		fmt.Fprintln(w, "No predictions")
		return
	}
	for i, p := range r {
		line := fmt.Sprintf("%s: %s", p.Label, p.Percent())
		if i == 0 {
			line = bold + line + reset
		}
		fmt.Fprintln(w, line)
	}
}
