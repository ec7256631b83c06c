package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/vec"
)

// FileError is a configuration error raised while parsing a scene file. It
// carries the offending line so the CLI can print a precise diagnostic.
type FileError struct {
	Path string
	Line int // 1-indexed; 0 when not line-specific
	Msg  string
}

func (e *FileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// LoadFile parses a scene file: the first line is the window
// (xmin, ymin, xmax, ymax), and each subsequent non-blank line is a disk
// (cx, cy, r, R, G, B). Blank trailing lines are ignored; any other empty
// field is an error. The scene name is derived from the file's base name
// (sans extension).
func LoadFile(path string) (*DiskScene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Msg: fmt.Sprintf("unable to open file: %v", err)}
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	scanner := bufio.NewScanner(f)
	lineNo := 0

	readLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			return line, true
		}
		return "", false
	}

	windowLine, ok := readLine()
	if !ok || windowLine == "" {
		return nil, &FileError{Path: path, Line: lineNo, Msg: "no lines in scene file, must have at least one line with the window"}
	}
	window, err := parseWindow(windowLine)
	if err != nil {
		return nil, &FileError{Path: path, Line: lineNo, Msg: err.Error()}
	}

	var circles []Circle
	for {
		line, ok := readLine()
		if !ok {
			break
		}
		if line == "" {
			// Blank trailing (or interior) lines are ignored.
			continue
		}
		c, err := parseCircle(line, len(circles))
		if err != nil {
			return nil, &FileError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		circles = append(circles, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FileError{Path: path, Msg: fmt.Sprintf("read error: %v", err)}
	}

	return NewDiskScene(name, window, circles)
}

func parseWindow(line string) (vec.Window, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return vec.Window{}, fmt.Errorf("window line must have four comma-separated numbers, got %d", len(fields))
	}
	vals := make([]float32, 4)
	for i, f := range fields {
		v, err := parseField(f, "window")
		if err != nil {
			return vec.Window{}, err
		}
		vals[i] = v
	}
	return vec.Window{BL: mgl32.Vec2{vals[0], vals[1]}, TR: mgl32.Vec2{vals[2], vals[3]}}, nil
}

func parseCircle(line string, index int) (Circle, error) {
	label := fmt.Sprintf("circle #%d", index)
	fields := strings.Split(line, ",")
	if len(fields) != 6 {
		return Circle{}, fmt.Errorf("%s must have six comma-separated numbers (cx, cy, r, R, G, B), got %d", label, len(fields))
	}
	vals := make([]float32, 6)
	for i, f := range fields {
		v, err := parseField(f, label)
		if err != nil {
			return Circle{}, err
		}
		vals[i] = v
	}
	return NewCircle(mgl32.Vec2{vals[0], vals[1]}, vals[2], mgl32.Vec3{vals[3], vals[4], vals[5]}), nil
}

func parseField(raw string, label string) (float32, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%s is missing a field", label)
	}
	v, err := strconv.ParseFloat(trimmed, 32)
	if err != nil {
		return 0, fmt.Errorf("%s has malformed number %q: %w", label, raw, err)
	}
	return float32(v), nil
}
