package helper

import (
	"fmt"
	"os"
	"path/filepath"
)

// PIDFile manages the process id file written by the api server
type PIDFile struct {
	path string
}

// NewPIDFile resolves filename with GetPIDPath and returns a PIDFile for it
func NewPIDFile(filename string) *PIDFile {
	return &PIDFile{path: GetPIDPath(filename)}
}

// Path returns the resolved PID file path
func (p *PIDFile) Path() string {
	return p.path
}

// Write writes the current process ID to the PID file
func (p *PIDFile) Write() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	return os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644)
}

// Remove removes the PID file
func (p *PIDFile) Remove() error {
	return os.Remove(p.path)
}

// GetPIDPath returns the path to the PID file.
//
// Priority:
// 1. If filename is an absolute path, return it directly.
// 2. A relative filename resolves under the working directory when its parent exists.
// 3. Otherwise, fallback to /var/run/scentory.pid
func GetPIDPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}

	if filename != "" {
		if currentDir, err := os.Getwd(); err == nil && currentDir != "" {
			if absPath, err := filepath.Abs(filepath.Join(currentDir, filename)); err == nil {
				if _, err := os.Stat(filepath.Dir(absPath)); err == nil {
					return absPath
				}
			}
		}
	}

	return "/var/run/scentory.pid"
}
