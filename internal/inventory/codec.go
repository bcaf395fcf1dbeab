package inventory

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

const (
	headerV1      = "# Sphinx inventory version 1"
	headerV2      = "# Sphinx inventory version 2"
	prefixProject = "# Project: "
	prefixVersion = "# Version: "
	headerZlib    = "# The remainder of this file is compressed using zlib."
)

// reObject matches a v2 object line: name domain:role priority uri dispname.
var reObject = regexp.MustCompile(`^(.+?)\s+(\S+)\s+(-?\d+)\s+?(\S*)\s+(.*)$`)

// Decode reads a version 1 or version 2 inventory.
func Decode(r io.Reader) (*Inventory, error) {
	br := bufio.NewReader(r)

	header, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingHeader, err)
	}

	inv := &Inventory{}
	if err := readMeta(br, inv); err != nil {
		return nil, err
	}

	switch header {
	case headerV1:
		err = decodeV1(br, inv)
	case headerV2:
		err = decodeV2(br, inv)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, header)
	}

	if err != nil {
		return nil, err
	}

	slog.Debug("inventory decoded", "project", inv.Project, "version", inv.Version, "objects", len(inv.Objects))

	return inv, nil
}

func readLine(br *bufio.Reader) (string, error) {
	s, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}

	return strings.TrimRight(s, "\r\n"), nil
}

func readMeta(br *bufio.Reader, inv *Inventory) error {
	for _, m := range []struct {
		prefix string
		dst    *string
	}{
		{prefixProject, &inv.Project},
		{prefixVersion, &inv.Version},
	} {
		s, err := readLine(br)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrMissingHeader, m.prefix, err)
		}

		v, ok := strings.CutPrefix(s, m.prefix)
		if !ok {
			return fmt.Errorf("%w: want %q, got %q", ErrMissingHeader, m.prefix, s)
		}

		*m.dst = v
	}

	return nil
}

// decodeV1 reads the plain text body: "name type location".
func decodeV1(br *bufio.Reader, inv *Inventory) error {
	sc := bufio.NewScanner(br)

	for n := 4; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return fmt.Errorf("%w: line %d: %q", ErrMalformedLine, n, line)
		}

		name, typ, location := fields[0], fields[1], fields[2]

		obj := Object{Name: name, Domain: "py", Role: typ, Priority: 1, DisplayName: "-"}
		if typ == "mod" {
			obj.Role = "module"
			obj.URI = location + "#module-" + name
		} else {
			obj.URI = location + "#" + name
		}

		inv.Objects = append(inv.Objects, obj)
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading inventory: %w", err)
	}

	return nil
}

// decodeV2 reads the zlib compressed body.
func decodeV2(br *bufio.Reader, inv *Inventory) error {
	s, err := readLine(br)
	if err != nil || s != headerZlib {
		return fmt.Errorf("%w: compression line %q", ErrMissingHeader, s)
	}

	zr, err := zlib.NewReader(br)
	if err != nil {
		return fmt.Errorf("opening zlib stream: %w", err)
	}
	defer func() {
		if err := zr.Close(); err != nil {
			slog.Warn("closing zlib stream", "error", err)
		}
	}()

	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for n := 5; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		obj, err := parseObject(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}

		inv.Objects = append(inv.Objects, obj)
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading inventory: %w", err)
	}

	return nil
}

func parseObject(line string) (Object, error) {
	m := reObject.FindStringSubmatch(line)
	if m == nil {
		return Object{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	domain, role, ok := strings.Cut(m[2], ":")
	if !ok {
		return Object{}, fmt.Errorf("%w: type %q has no domain", ErrMalformedLine, m[2])
	}

	priority, err := strconv.Atoi(m[3])
	if err != nil {
		return Object{}, fmt.Errorf("%w: priority %q", ErrMalformedLine, m[3])
	}

	return Object{
		Name:        m[1],
		Domain:      domain,
		Role:        role,
		Priority:    priority,
		URI:         m[4],
		DisplayName: m[5],
	}, nil
}

// Encode writes inv as a version 2 inventory.
func Encode(w io.Writer, inv *Inventory) error {
	bw := bufio.NewWriter(w)

	for _, line := range []string{
		headerV2,
		prefixProject + inv.Project,
		prefixVersion + inv.Version,
		headerZlib,
	} {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	zw := zlib.NewWriter(bw)
	for _, o := range inv.Objects {
		d := o.DisplayName
		if d == "" {
			d = "-"
		}

		if _, err := fmt.Fprintf(zw, "%s %s %d %s %s\n", o.Name, o.Type(), o.Priority, o.URI, d); err != nil {
			return fmt.Errorf("writing object %q: %w", o.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zlib stream: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing inventory: %w", err)
	}

	return nil
}
