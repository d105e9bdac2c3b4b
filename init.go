package udv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// controlIgnore is written to .udv/.gitignore so git skips local state.
const controlIgnore = "/config.local\n/tmp\n/cache"

// Init creates the control directory in a git working tree at root.
//
// It fails if root is not a git repository or if a .udv or .dvc directory
// already exists.
func Init(root string) error {
	if !exists(filepath.Join(root, ".git")) {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, root)
	}
	for _, name := range []string{".dvc", ControlDir} {
		if exists(filepath.Join(root, name)) {
			return fmt.Errorf("%w: %s exists", ErrAlreadyInitialized, name)
		}
	}

	dir := filepath.Join(root, ControlDir)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(controlIgnore), 0o644); err != nil {
		return fmt.Errorf("write control gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), nil, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Initialized reports whether root has a control directory.
func Initialized(root string) bool {
	info, err := os.Stat(filepath.Join(root, ControlDir))
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
