package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// WriteMarkdown writes content to dir/name, creating dir if needed.
func WriteMarkdown(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %v", path, err)
	}
	log.Printf("written to: %s", path)
	return nil
}
