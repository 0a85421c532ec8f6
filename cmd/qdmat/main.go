// Command qdmat multiplies two Matrix Market files under a chosen
// builtin semiring and writes the result back out in the same format.
package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/qdmat/qdmat"
	"github.com/qdmat/qdmat/internal/mtxio"
)

func main() {
	log.SetFlags(0)

	var semiringName string
	flag.StringVar(&semiringName, "semiring", "plus-times", "plus-times | or-and | min-plus")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf("usage: qdmat [-semiring name] a.mtx b.mtx")
	}

	switch semiringName {
	case "or-and":
		runBool(args[0], args[1])
	case "min-plus":
		runFloat(args[0], args[1], qdmat.MinPlus())
	case "plus-times":
		runFloat(args[0], args[1], qdmat.PlusTimes[float64]())
	default:
		log.Fatalf("unknown semiring %q", semiringName)
	}
}

func parseFloat(fields []string) (float64, error) {
	if len(fields) < 1 {
		return 1, nil
	}
	return strconv.ParseFloat(fields[0], 64)
}

func parseBool(fields []string) (bool, error) {
	return true, nil
}

func runFloat(aPath, bPath string, sr qdmat.Semiring[float64]) {
	cfg := qdmat.DefaultConfig()
	warn := qdmat.DiscardConsumer{}

	a, err := loadMatrix[float64](aPath, parseFloat, warn, sr, cfg)
	if err != nil {
		log.Fatalf("reading %s: %v", aPath, err)
	}
	b, err := loadMatrix[float64](bPath, parseFloat, warn, sr, cfg)
	if err != nil {
		log.Fatalf("reading %s: %v", bPath, err)
	}
	c, err := qdmat.Multiply[float64](a, b, sr, cfg)
	if err != nil {
		log.Fatalf("multiply: %v", err)
	}
	if err := writeMatrix[float64](os.Stdout, c, "real", func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}); err != nil {
		log.Fatalf("writing result: %v", err)
	}
}

func runBool(aPath, bPath string) {
	sr := qdmat.OrAnd()
	cfg := qdmat.DefaultConfig()
	warn := qdmat.DiscardConsumer{}

	a, err := loadMatrix[bool](aPath, parseBool, warn, sr, cfg)
	if err != nil {
		log.Fatalf("reading %s: %v", aPath, err)
	}
	b, err := loadMatrix[bool](bPath, parseBool, warn, sr, cfg)
	if err != nil {
		log.Fatalf("reading %s: %v", bPath, err)
	}
	c, err := qdmat.Multiply[bool](a, b, sr, cfg)
	if err != nil {
		log.Fatalf("multiply: %v", err)
	}
	if err := writeMatrix[bool](os.Stdout, c, "pattern", func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}); err != nil {
		log.Fatalf("writing result: %v", err)
	}
}

func loadMatrix[T any](path string, parseVal func([]string) (T, error), warn qdmat.WarningConsumer, sr qdmat.Semiring[T], cfg qdmat.Config) (*qdmat.Matrix[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := mtxio.NewReader[T](f, parseVal, warn)
	if err != nil {
		return nil, err
	}
	nrows, ncols := r.Shape()
	shape := qdmat.Shape{NRows: nrows, NCols: ncols}

	var tuples []qdmat.Tuple[T]
	for {
		t, ok := r.Next()
		if !ok {
			break
		}
		tuples = append(tuples, qdmat.Tuple[T]{Row: t.Row, Col: t.Col, Val: t.Val})
	}
	return qdmat.MatrixFromTuples[T](shape, qdmat.SliceStream(tuples), sr, cfg)
}

func writeMatrix[T any](f *os.File, m *qdmat.Matrix[T], field string, format func(T) string) error {
	shape := m.GetShape()
	w, err := mtxio.NewWriter[T](f, shape.NRows, shape.NCols, m.GetNnn(), field, format)
	if err != nil {
		return err
	}
	var writeErr error
	m.DumpTuples(func(t qdmat.Tuple[T]) bool {
		if writeErr = w.WriteTuple(t.Row, t.Col, t.Val); writeErr != nil {
			return false
		}
		return true
	})
	if writeErr != nil {
		return writeErr
	}
	return w.Flush()
}
