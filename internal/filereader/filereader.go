// Package filereader reads source files for snippet enrichment. Reads go
// through an explicit, caller-owned bounded cache rather than process-wide
// memoization, so concurrent report builds stay independent.
package filereader

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountLinesInFile counts the number of physical lines in a file.
func CountLinesInFile(filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
	}
	return lineCount, scanner.Err()
}

// ReadLinesInFile reads all lines from a file, decoding UTF-16 content when
// a byte-order mark announces it.
func ReadLinesInFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	if enc := detectEncoding(file); enc != nil {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		reader = transform.NewReader(file, enc.NewDecoder())
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// detectEncoding sniffs the file's byte-order mark. It returns nil for
// plain BOM-less UTF-8, which needs no transformation.
func detectEncoding(file *os.File) encoding.Encoding {
	bom := make([]byte, 3)
	n, err := file.Read(bom)
	if err != nil && err != io.EOF {
		return nil
	}
	bom = bom[:n]

	switch {
	case bytes.HasPrefix(bom, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(bom, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case bytes.HasPrefix(bom, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	}
	return nil
}

// Cache is a bounded, caller-owned cache of file contents keyed by path.
// When full, the oldest entry is evicted. Failed reads are cached too, so a
// missing source file is only probed once per build.
type Cache struct {
	maxEntries int
	entries    map[string][]string
	order      []string
}

// NewCache creates a cache holding the contents of up to maxEntries files.
func NewCache(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		maxEntries: maxEntries,
		entries:    make(map[string][]string),
	}
}

// ReadLines returns the file's lines, from cache when possible. Coverage
// reports often reference paths that do not exist in the current workspace;
// those come back as no lines, not an error, because snippet enrichment is
// best effort.
func (c *Cache) ReadLines(path string) []string {
	if lines, ok := c.entries[path]; ok {
		return lines
	}

	lines, err := ReadLinesInFile(path)
	if err != nil {
		lines = nil
	}

	if len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[path] = lines
	c.order = append(c.order, path)
	return lines
}

// Len reports the number of cached files.
func (c *Cache) Len() int {
	return len(c.entries)
}
