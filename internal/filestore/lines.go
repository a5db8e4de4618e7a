package filestore

import "bytes"

// lineScanner provides zero-allocation line iteration over byte content,
// stripping a trailing \r\n or \n from each line.
type lineScanner struct {
	data  []byte
	start int
	end   int
	pos   int
	done  bool
}

func (ls *lineScanner) Scan() bool {
	if ls.done {
		return false
	}
	if ls.pos >= len(ls.data) {
		ls.done = true
		return false
	}

	ls.start = ls.pos

	idx := bytes.IndexByte(ls.data[ls.pos:], '\n')
	if idx < 0 {
		ls.end = len(ls.data)
		ls.pos = len(ls.data)
	} else {
		ls.end = ls.pos + idx
		ls.pos = ls.pos + idx + 1
	}

	if ls.end > ls.start && ls.data[ls.end-1] == '\r' {
		ls.end--
	}

	return true
}

func (ls *lineScanner) Text() string {
	return string(ls.data[ls.start:ls.end])
}

// countLines counts the number of lines in content without allocating, so
// callers can pre-allocate a result slice with exact capacity.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	newlines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		return newlines + 1
	}
	if newlines == 0 {
		return 0
	}
	return newlines
}

// SplitLinesWithCapacity splits content into lines with pre-allocated
// capacity, avoiding the repeated growth strings.Split incurs on large files.
func SplitLinesWithCapacity(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	lines := make([]string, 0, countLines(data))

	scanner := &lineScanner{data: data}
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines
}
