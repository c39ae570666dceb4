package lattice

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pthm-cable/seep/textrec"
)

// maxLineBytes bounds a single record line. Real lattice files stay far below.
const maxLineBytes = 1 << 20

// scanRecords calls fn with the 1-based number and text of every line in r.
func scanRecords(r io.Reader, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := fn(lineNo, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return nil
}

// loadFile opens path and hands it to load, wrapping open failures so that
// errors.Is(err, fs.ErrNotExist) still works for callers.
func loadFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	v, err := load(f)
	if err != nil {
		return zero, fmt.Errorf("loading %s: %w", path, err)
	}
	return v, nil
}

// record is one tokenized data line.
type record struct {
	line   int
	raw    string
	tokens []string
}

func newRecord(lineNo int, line string, minTokens int) (record, error) {
	rec := record{line: lineNo, raw: line, tokens: textrec.Fields(line)}
	if len(rec.tokens) < minTokens {
		return rec, &RecordError{
			Line:   lineNo,
			Raw:    line,
			Detail: fmt.Sprintf("too few tokens: got %d, want %d", len(rec.tokens), minTokens),
		}
	}
	return rec, nil
}

// index parses a 1-based lattice coordinate and returns it zero-based.
func (r record) index(pos int, name string) (int, error) {
	n, err := strconv.Atoi(r.tokens[pos])
	if err != nil {
		return 0, r.fail(fmt.Sprintf("bad %s token %q", name, r.tokens[pos]), err)
	}
	return n - 1, nil
}

func (r record) float(pos int, name string) (float64, error) {
	v, err := strconv.ParseFloat(r.tokens[pos], 64)
	if err != nil {
		return 0, r.fail(fmt.Sprintf("bad %s token %q", name, r.tokens[pos]), err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, r.fail(fmt.Sprintf("non-finite %s %q", name, r.tokens[pos]), nil)
	}
	return v, nil
}

func (r record) fail(detail string, err error) error {
	return &RecordError{Line: r.line, Raw: r.raw, Detail: detail, Err: err}
}

// checkAxis validates a zero-based coordinate against its extent.
func (r record) checkAxis(axis string, v, bound int) error {
	if v < 0 || v >= bound {
		return &RangeError{Line: r.line, Raw: r.raw, Axis: axis, Value: v, Bound: bound}
	}
	return nil
}
