// Package mimetype maps stored file extensions to MIME types through a
// static embedded table with an explicit default.
package mimetype

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed types.yaml
var tableFile []byte

// DefaultType is returned for extensions the table does not know
const DefaultType = "application/octet-stream"

var table map[string]string

func init() {
	var err error
	table, err = loadTable(tableFile)
	if err != nil {
		// The table is embedded at build time; a parse failure is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("mimetype: invalid embedded table: %v", err))
	}
}

func loadTable(data []byte) (map[string]string, error) {
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Lookup returns the MIME type for a file extension (with or without the
// leading dot, any case). Unknown extensions map to DefaultType.
func Lookup(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if t, ok := table[ext]; ok {
		return t
	}
	return DefaultType
}

// ForPath returns the MIME type for a stored file path based on its
// extension alone. Content sniffing is deliberately not used: the public
// resolver must behave identically for identical extensions.
func ForPath(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return DefaultType
	}
	return Lookup(path[idx:])
}
