package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/subtok/internal/literal"
	"k8s.io/klog/v2"
)

// ErrMalformedMerge is returned for a merge file line that is not "left right[ freq]".
var ErrMalformedMerge = errors.New("malformed merge entry")

// maxLineSize bounds a single line of any file read by this package.
const maxLineSize = 16 << 20

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return sc
}

// ParseMerge parses one merge file line. The line index is the priority.
func ParseMerge(line string, priority int) (Merge, error) {
	decoded, err := literal.Decode(line)
	if err != nil {
		return Merge{}, errors.Wrapf(ErrMalformedMerge, "line %d: %v", priority+1, err)
	}

	fields := strings.Split(decoded, " ")
	m := Merge{Priority: priority}
	switch len(fields) {
	case 3:
		freq, err := strconv.Atoi(fields[2])
		if err != nil || freq < 0 {
			return Merge{}, errors.Wrapf(ErrMalformedMerge, "line %d: bad frequency in %q", priority+1, line)
		}
		m.Freq = freq
		fallthrough
	case 2:
		m.Left, m.Right = fields[0], fields[1]
	default:
		return Merge{}, errors.Wrapf(ErrMalformedMerge, "line %d: %q", priority+1, line)
	}

	if m.Left == "" || m.Right == "" {
		return Merge{}, errors.Wrapf(ErrMalformedMerge, "line %d: empty symbol in %q", priority+1, line)
	}
	return m, nil
}

// FormatMerge is the inverse of ParseMerge.
func FormatMerge(m Merge) string {
	return fmt.Sprintf("%s %d", literal.Encode(m.Left+" "+m.Right), m.Freq)
}

// ReadMerges reads merges in priority order. When maxMerges > 0 reading stops after that many lines.
func ReadMerges(r io.Reader, maxMerges int) (*MergeList, error) {
	ml := NewMergeList(0)
	sc := newLineScanner(r)
	for idx := 0; sc.Scan(); idx++ {
		if maxMerges > 0 && idx >= maxMerges {
			break
		}
		m, err := ParseMerge(sc.Text(), idx)
		if err != nil {
			return nil, err
		}
		if err := ml.Append(m); err != nil {
			return nil, errors.WithMessagef(err, "line %d", idx+1)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "error while reading merges")
	}
	return ml, nil
}

// ReadMergesFile reads merges from path, see ReadMerges.
func ReadMergesFile(path string, maxMerges int) (*MergeList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error while opening merges file")
	}
	defer f.Close()

	ml, err := ReadMerges(f, maxMerges)
	if err != nil {
		return nil, errors.WithMessagef(err, "merges file %s", path)
	}
	klog.V(1).Infof("loaded %s merges from %s", humanize.Comma(int64(ml.Len())), path)
	return ml, nil
}

// DumpMerges writes one line per merge in priority order.
func DumpMerges(w io.Writer, ml *MergeList) error {
	bw := bufio.NewWriter(w)
	for _, m := range ml.Merges() {
		if _, err := fmt.Fprintln(bw, FormatMerge(m)); err != nil {
			return errors.Wrap(err, "error while writing merges")
		}
	}
	return errors.Wrap(bw.Flush(), "error while writing merges")
}

// DumpMergesFile writes merges to path, replacing any existing file.
func DumpMergesFile(path string, ml *MergeList) error {
	return writeFile(path, func(w io.Writer) error { return DumpMerges(w, ml) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.WithMessagef(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
