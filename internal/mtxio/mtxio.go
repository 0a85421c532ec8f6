// Package mtxio is the Matrix Market (1-based coordinate form) streaming
// reader/writer referenced as an external collaborator in spec.md section
// 6: the core consumes it only via a single-pass tuple-stream contract and
// produces output via a leaf-visiting callback. Nothing here participates
// in the quadtree correctness story; it is file-format plumbing, in the
// same spirit as bart/cmd/routes.go's bufio-driven prefix-file streaming.
package mtxio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tuple is one streamed (row, col, value) triple, 0-based.
type Tuple[T any] struct {
	Row, Col int64
	Val      T
}

// Warner receives non-fatal input warnings (spec.md section 7's "input
// warning" kind). It is satisfied structurally by any type with a Warn
// method, so the root package's WarningConsumer implementations work here
// without either package importing the other.
type Warner interface {
	Warn(msg string)
}

// Reader streams tuples out of a Matrix Market coordinate file, one line
// at a time, single pass.
type Reader[T any] struct {
	scanner      *bufio.Scanner
	parseVal     func(fields []string) (T, error)
	warn         Warner
	nrows, ncols int64
	nnzHint      int64
	lineNo       int
}

// NewReader parses the Matrix Market header and dimension line, leaving
// the returned Reader positioned to stream data lines via Next.
// parseVal receives the fields after row and column (0, 1, or more tokens
// depending on "pattern" vs "real"/"integer" fields) and produces a value.
func NewReader[T any](r io.Reader, parseVal func(fields []string) (T, error), warn Warner) (*Reader[T], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	rd := &Reader[T]{scanner: sc, parseVal: parseVal, warn: warn}

	header, ok := rd.nextNonBlank()
	if !ok {
		return nil, fmt.Errorf("mtxio: empty input, expected a %%%%MatrixMarket header")
	}
	fields := strings.Fields(header)
	if len(fields) < 5 || !strings.EqualFold(fields[0], "%%MatrixMarket") {
		return nil, fmt.Errorf("mtxio: missing or malformed %%%%MatrixMarket header: %q", header)
	}
	if !strings.EqualFold(fields[1], "matrix") || !strings.EqualFold(fields[2], "coordinate") {
		return nil, fmt.Errorf("mtxio: only coordinate matrices are supported, got %q %q", fields[1], fields[2])
	}
	symmetry := fields[4]
	if !strings.EqualFold(symmetry, "general") {
		return nil, fmt.Errorf("mtxio: %s symmetry is not implemented", symmetry)
	}

	dims, ok := rd.nextDataLine()
	if !ok {
		return nil, fmt.Errorf("mtxio: missing dimension line")
	}
	df := strings.Fields(dims)
	if len(df) != 3 {
		return nil, fmt.Errorf("mtxio: malformed dimension line %q, want \"nrows ncols nnz\"", dims)
	}
	var err error
	if rd.nrows, err = strconv.ParseInt(df[0], 10, 64); err != nil {
		return nil, fmt.Errorf("mtxio: bad nrows: %w", err)
	}
	if rd.ncols, err = strconv.ParseInt(df[1], 10, 64); err != nil {
		return nil, fmt.Errorf("mtxio: bad ncols: %w", err)
	}
	if rd.nnzHint, err = strconv.ParseInt(df[2], 10, 64); err != nil {
		return nil, fmt.Errorf("mtxio: bad nnz: %w", err)
	}
	return rd, nil
}

// Shape returns the matrix dimensions declared in the dimension line.
func (rd *Reader[T]) Shape() (nrows, ncols int64) { return rd.nrows, rd.ncols }

// NNZHint returns the declared nonzero count, an upper bound useful for
// preallocation — some rows may still be skipped with a warning.
func (rd *Reader[T]) NNZHint() int64 { return rd.nnzHint }

// Next returns the next valid tuple and true, or a zero Tuple and false
// once the stream is exhausted. Rows referencing an out-of-range index are
// skipped with a warning to the injected Warner and do not stop the scan
// (spec.md section 7's non-fatal "input warning").
func (rd *Reader[T]) Next() (Tuple[T], bool) {
	for {
		line, ok := rd.nextDataLine()
		if !ok {
			return Tuple[T]{}, false
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			rd.warn.Warn(fmt.Sprintf("mtxio: line %d: expected at least row and col, got %q", rd.lineNo, line))
			continue
		}
		row1, err1 := strconv.ParseInt(fields[0], 10, 64)
		col1, err2 := strconv.ParseInt(fields[1], 10, 64)
		if err1 != nil || err2 != nil {
			rd.warn.Warn(fmt.Sprintf("mtxio: line %d: non-integer row/col in %q", rd.lineNo, line))
			continue
		}
		row, col := row1-1, col1-1 // 1-based -> 0-based
		if row < 0 || row >= rd.nrows || col < 0 || col >= rd.ncols {
			rd.warn.Warn(fmt.Sprintf("mtxio: line %d: index (%d,%d) out of range for %dx%d matrix",
				rd.lineNo, row1, col1, rd.nrows, rd.ncols))
			continue
		}
		val, err := rd.parseVal(fields[2:])
		if err != nil {
			rd.warn.Warn(fmt.Sprintf("mtxio: line %d: %v", rd.lineNo, err))
			continue
		}
		return Tuple[T]{Row: row, Col: col, Val: val}, true
	}
}

func (rd *Reader[T]) nextNonBlank() (string, bool) {
	for rd.scanner.Scan() {
		rd.lineNo++
		line := strings.TrimSpace(rd.scanner.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func (rd *Reader[T]) nextDataLine() (string, bool) {
	for rd.scanner.Scan() {
		rd.lineNo++
		line := strings.TrimSpace(rd.scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return line, true
	}
	return "", false
}

// Writer streams a Matrix Market coordinate file out, one leaf's tuples at
// a time, in the shape a leaf-visiting callback naturally produces.
type Writer[T any] struct {
	w      *bufio.Writer
	format func(T) string
}

// NewWriter writes the header and dimension line immediately and returns a
// Writer ready for WriteTuple calls.
func NewWriter[T any](w io.Writer, nrows, ncols, nnz int64, field string, format func(T) string) (*Writer[T], error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate %s general\n", field); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", nrows, ncols, nnz); err != nil {
		return nil, err
	}
	return &Writer[T]{w: bw, format: format}, nil
}

// WriteTuple appends one (row, col, value) triple, converting 0-based
// indices back to Matrix Market's 1-based convention.
func (wr *Writer[T]) WriteTuple(row, col int64, val T) error {
	_, err := fmt.Fprintf(wr.w, "%d %d %s\n", row+1, col+1, wr.format(val))
	return err
}

// Flush flushes any buffered output.
func (wr *Writer[T]) Flush() error { return wr.w.Flush() }
