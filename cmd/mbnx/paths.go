package main

import "path/filepath"

// defaultOutputDir places extraction output next to the input image.
func defaultOutputDir(input string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(input)), "mcfg_sw")
}
