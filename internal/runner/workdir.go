package runner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// acquireWorkDir copies the program's source tree into a fresh temp
// directory so concurrent programs never share build state. The returned
// cleanup is safe to call on every exit path.
func acquireWorkDir(srcDir, program string) (string, func(), error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return "", nil, fmt.Errorf("program source %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("program source %s is not a directory", srcDir)
	}

	workDir, err := os.MkdirTemp("", "cbench-"+program+"-")
	if err != nil {
		return "", nil, fmt.Errorf("creating work dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(workDir) }

	if err := copyTree(srcDir, workDir); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("copying source tree: %w", err)
	}
	return workDir, cleanup, nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			// Sockets, devices and the like have no place in a source tree.
			return nil
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
