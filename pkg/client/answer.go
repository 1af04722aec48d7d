package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/savioxavier/termlink"
)

// SaveAnswer writes answer to fileName and returns a report line with a clickable link to it.
func SaveAnswer(fileName, answer string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory for %s", fileName)
	}
	if err := os.WriteFile(fileName, []byte(answer), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to save answer to %s", fileName)
	}
	absPath, err := filepath.Abs(fileName)
	if err != nil {
		absPath = fileName
	}
	name := filepath.Base(fileName)
	return "answer saved to " + termlink.ColorLink(name, fmt.Sprintf("file://%s", absPath), "italic green"), nil
}
