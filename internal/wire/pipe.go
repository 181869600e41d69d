package wire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// PipeHeader opens every frame written to the compositor pipe.
const PipeHeader = "0x000010"

// EncodePipe renders a frame as newline terminated hex lines: the header, the
// sender pid, then one packed color per globe.
func EncodePipe(pid int, globes []model.Color) []byte {
	var buf bytes.Buffer
	buf.Grow((len(globes) + 2) * 9)
	buf.WriteString(PipeHeader)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "0x%06x\n", pid&0xffffff)
	for _, g := range globes {
		fmt.Fprintf(&buf, "0x%06X\n", g.Packed())
	}
	return buf.Bytes()
}

// PipeFrame is one decoded pipe frame.
type PipeFrame struct {
	PID    int
	Globes []model.Color
}

// DecodePipe reads exactly one frame of n globes from r. Hex digits may be
// upper or lower case. io.EOF is returned untouched when r is exhausted
// before a frame starts.
func DecodePipe(r *bufio.Reader, n int) (PipeFrame, error) {
	var f PipeFrame

	header, err := readLine(r)
	if err != nil {
		return f, err
	}
	if !strings.EqualFold(header, PipeHeader) {
		return f, fmt.Errorf("%w: bad header %q", ErrMalformed, header)
	}

	pidLine, err := readLine(r)
	if err != nil {
		return f, truncated(err, 0, n)
	}
	pid, err := parseHexLine(pidLine)
	if err != nil {
		return f, err
	}
	f.PID = int(pid)

	f.Globes = make([]model.Color, n)
	for i := 0; i < n; i++ {
		line, err := readLine(r)
		if err != nil {
			return f, truncated(err, i, n)
		}
		v, err := parseHexLine(line)
		if err != nil {
			return f, err
		}
		f.Globes[i] = model.FromPacked(v)
	}
	return f, nil
}

func truncated(err error, got, want int) error {
	if err == io.EOF {
		return fmt.Errorf("%w: truncated after %d of %d globes", ErrMalformed, got, want)
	}
	return err
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return "", fmt.Errorf("%w: unterminated line %q", ErrMalformed, line)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseHexLine(line string) (uint32, error) {
	if len(line) != 8 || (line[:2] != "0x" && line[:2] != "0X") {
		return 0, fmt.Errorf("%w: bad line %q", ErrMalformed, line)
	}
	v, err := strconv.ParseUint(line[2:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad line %q", ErrMalformed, line)
	}
	return uint32(v), nil
}
