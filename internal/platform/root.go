package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root markers.
const (
	RootDir        = ".minions"
	RootConfigFile = "minions.yaml"
)

// FindRoot walks upward from startDir looking for a store root, i.e. a
// directory holding a .minions directory or a minions.yaml file. It
// returns the absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, RootDir) || hasFile(dir, RootConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
