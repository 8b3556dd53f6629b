// Package output writes assembly products and digestion fragments in the
// formats the command line offers.
package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bebop/poly/checks"

	"dnamix/internal/assembly"
)

var ErrFormat = errors.New("output: unknown format")

// Writer renders a batch of assemblies to w.
type Writer func(w io.Writer, as []*assembly.Assembly) error

// format -> writer; last registration wins
var writers = map[string]Writer{
	"fasta": WriteFASTA,
	"json":  WriteJSON,
}

func Register(format string, fn Writer) { writers[strings.ToLower(format)] = fn }

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write dispatches to the writer registered for format.
func Write(format string, w io.Writer, as []*assembly.Assembly) error {
	fn, ok := writers[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("%w %q (have %s)", ErrFormat, format, strings.Join(Formats(), ", "))
	}
	return fn(w, as)
}

// GC returns the GC content of bases in percent.
func GC(bases string) float64 {
	if bases == "" {
		return 0
	}
	return checks.GcContent(bases) * 100
}
