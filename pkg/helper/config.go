package helper

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv names a directory searched before the working directory
const ConfigDirEnv = "SCENTORY_CONFIG_DIR"

const systemConfigDir = "/etc/scentory"

// GetCfgPath resolves a configuration file name. Absolute paths are returned
// as is. Relative names are looked up in $SCENTORY_CONFIG_DIR, then ./ and
// ./configs, and finally fall back to /etc/scentory.
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	var dirs []string
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		dirs = append(dirs, dir)
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd, filepath.Join(wd, "configs"))
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, filename)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			if abs, err := filepath.Abs(candidate); err == nil {
				return abs
			}
		}
	}
	return filepath.Join(systemConfigDir, filename)
}
