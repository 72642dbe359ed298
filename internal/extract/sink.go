package extract

import (
	"os"
	"path/filepath"
	"strings"
)

// Sink persists decoded records under a base directory.
type Sink struct {
	Dir string
}

// Write stores content as the exact bytes of name under the sink
// directory. Record names may carry slash-separated paths; separators are
// normalized, a leading separator is stripped, intermediate directories
// are created, and an existing file is silently overwritten.
func (s Sink) Write(name string, content []byte) error {
	rel := filepath.FromSlash(name)
	rel = strings.TrimLeft(rel, string(filepath.Separator))
	path := filepath.Join(s.Dir, rel)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}
