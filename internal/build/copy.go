package build

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// copyTree copies every regular file under srcDir into dstDir, preserving
// the relative layout. Per-file failures are recorded with both endpoints
// and never abort the copy: one unreadable file must not block the rest of
// the tree.
func copyTree(srcDir, dstDir string) []error {
	var recorded []error

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			recorded = append(recorded, siteerr.CopyFailure(path, dstDir, false, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			recorded = append(recorded, siteerr.CopyFailure(path, dstDir, false, err))
			return nil
		}
		dst := filepath.Join(dstDir, rel)
		if err := copyFile(path, dst); err != nil {
			recorded = append(recorded, siteerr.CopyFailure(path, dst, false, err))
		}
		return nil
	})
	if err != nil {
		recorded = append(recorded, siteerr.CopyFailure(srcDir, dstDir, false, err))
	}
	return recorded
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
