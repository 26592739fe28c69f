package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LabChart text exports vary: tab, comma or space delimited, with anywhere
// from zero to ~10 header lines. The loader accepts any line whose first two
// fields parse as numbers and skips the rest, then sanity-checks the result
// the same way the acquisition side does.
const minLoadSamples = 100

// LoadLabChart reads a LabChart .txt export into a Trace. The first column
// is time in seconds, the second force in mN; further columns are ignored.
func LoadLabChart(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, fmt.Errorf("labchart: %w", err)
	}
	defer f.Close()

	var times, forces []float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		t, v, ok := parseSampleLine(sc.Text())
		if !ok {
			continue
		}
		times = append(times, t)
		forces = append(forces, v)
	}
	if err := sc.Err(); err != nil {
		return Trace{}, fmt.Errorf("labchart: read %s: %w", path, err)
	}

	if len(times) < minLoadSamples {
		return Trace{}, fmt.Errorf("labchart: %s: only %d parseable samples (need at least %d)", path, len(times), minLoadSamples)
	}
	tr, err := New(times, forces)
	if err != nil {
		return Trace{}, fmt.Errorf("labchart: %s: %w", path, err)
	}
	return tr, nil
}

func parseSampleLine(line string) (t, force float64, ok bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '\t' || r == ',' || r == ';' || r == ' '
	})
	if len(fields) < 2 {
		return 0, 0, false
	}
	t, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, false
	}
	force, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return t, force, true
}
