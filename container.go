package rgbajpeg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// writeHeader writes the one-line text header "<W> <H> <quality>\n"
// followed by a single backing-tag byte, matching spec.md §4.H; the
// backing tag is not part of the header line itself but precedes the bit
// stream payload so Load knows which BitStream backing to reconstruct.
func writeHeader(w io.Writer, width, height int, quality float64, backing Backing) error {
	line := fmt.Sprintf("%d %d %s\n", width, height, strconv.FormatFloat(quality, 'g', -1, 64))
	if _, err := io.WriteString(w, line); err != nil {
		return errors.Wrap(err, "container: write header")
	}
	if _, err := w.Write([]byte{byte(backing)}); err != nil {
		return errors.Wrap(err, "container: write backing tag")
	}
	return nil
}

// readHeader parses the one-line text header and backing tag from r,
// returning width, height, quality and the backing so the caller can
// construct a BitStream and Read the remainder of r into it.
func readHeader(br *bufio.Reader) (width, height int, quality float64, backing Backing, err error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return 0, 0, 0, 0, &FormatError{Msg: "container: missing header line"}
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, 0, &FormatError{Msg: fmt.Sprintf("container: header has %d fields, want 3", len(fields))}
	}
	width, werr := strconv.Atoi(fields[0])
	height, herr := strconv.Atoi(fields[1])
	quality, qerr := strconv.ParseFloat(fields[2], 64)
	if werr != nil || herr != nil || qerr != nil {
		return 0, 0, 0, 0, &FormatError{Msg: "container: malformed header token"}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, 0, 0, &ConfigError{Field: "width/height", Msg: "dimensions must be positive"}
	}

	tag := make([]byte, 1)
	if _, err := io.ReadFull(br, tag); err != nil {
		return 0, 0, 0, 0, &FormatError{Msg: "container: missing bit stream backing tag"}
	}
	backing = Backing(tag[0])
	if backing != StringBacking && backing != PackedBacking {
		return 0, 0, 0, 0, &FormatError{Msg: fmt.Sprintf("container: unrecognized backing tag %q", tag[0])}
	}

	return width, height, quality, backing, nil
}
