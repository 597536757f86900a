// Command fmttable prints the stopwatch time text next to a zero-padded
// rendering of the same elapsed time, so display deviations can be reviewed.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"stopwatch/watch/ticks"
	"stopwatch/watch/timefmt"
)

func main() {
	var (
		minutes int
		all     bool
		diff    bool
	)
	flag.IntVar(&minutes, "minutes", 11, "Elapsed minutes to cover.")
	flag.BoolVar(&all, "all", false, "Print every hundredth instead of every second.")
	flag.BoolVar(&diff, "diff", true, "Print only rows where the two renderings differ.")
	flag.Parse()

	if minutes <= 0 || minutes > 255 {
		fmt.Fprintln(os.Stderr, "fmttable: -minutes must be in 1..255")
		os.Exit(2)
	}

	n := write(os.Stdout, uint64(minutes)*60*ticks.Rate, all, diff)
	fmt.Fprintf(os.Stdout, "%d rows differ\n", n)
}

// write drives an accumulator through limit ticks and prints the rows. It
// returns how many printed rows differ from the padded rendering.
func write(w io.Writer, limit uint64, all, diff bool) int {
	var (
		clock   ticks.Accumulator
		differs int
	)
	fmt.Fprintf(w, "%-10s %-8s %-8s\n", "ticks", "display", "padded")
	for i := uint64(0); i < limit; i++ {
		clock.OnTick()
		s := clock.Snapshot()
		if !all && s.Hundredths != 0 {
			continue
		}
		got := timefmt.FormatSnapshot(s).String()
		want := padded(s.Elapsed)
		if got != want {
			differs++
		} else if diff {
			continue
		}
		mark := ""
		if got != want {
			mark = " *"
		}
		fmt.Fprintf(w, "%-10d %-8s %-8s%s\n", i+1, got, want, mark)
	}
	return differs
}

func padded(e ticks.Elapsed) string {
	return fmt.Sprintf("%02d:%02d.%02d", e.Minutes%100, e.Seconds, e.Hundredths)
}
