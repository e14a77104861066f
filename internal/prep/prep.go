// Package prep implements the directory-copying preparation step: every
// file and directory below an input directory is copied into the working
// directory of a case before the simulation runs.
package prep

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirPreparator copies the contents of InputDir into Workdir.
type DirPreparator struct {
	InputDir string
	Workdir  string
}

// Prepare creates Workdir if needed and copies every entry of InputDir
// into it, recursing into subdirectories. Existing files in Workdir are
// overwritten.
func (p *DirPreparator) Prepare() error {
	if err := os.MkdirAll(p.Workdir, 0o755); err != nil {
		return fmt.Errorf("creating workdir: %w", err)
	}
	entries, err := os.ReadDir(p.InputDir)
	if err != nil {
		return fmt.Errorf("reading input dir: %w", err)
	}
	for _, entry := range entries {
		src := filepath.Join(p.InputDir, entry.Name())
		dst := filepath.Join(p.Workdir, entry.Name())
		if entry.IsDir() {
			// os.CopyFS refuses to overwrite, so clear the target first.
			if err := os.RemoveAll(dst); err != nil {
				return fmt.Errorf("clearing %s: %w", entry.Name(), err)
			}
			if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
				return fmt.Errorf("copying %s: %w", entry.Name(), err)
			}
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copying %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Cleanup performs no action; the working directory is left in place for
// inspection.
func (p *DirPreparator) Cleanup() error { return nil }

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
