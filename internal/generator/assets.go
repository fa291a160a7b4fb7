package generator

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// faviconSVG is the site favicon written once per output base.
const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="32" height="32" viewBox="0 0 32 32">
    <rect width="32" height="32" fill="#3498db"/>
    <text x="16" y="20" text-anchor="middle" fill="white" font-family="Arial" font-size="16" font-weight="bold">W</text>
</svg>`

// WriteFavicon writes favicon.svg into dir.
func WriteFavicon(dir string) error {
	return writeFileAtomic(filepath.Join(dir, "favicon.svg"), []byte(faviconSVG))
}

// CopySharedAssets copies the top-level template files (index.html,
// styles.css) into the output base directory. Missing files are
// skipped, matching a partially populated template.
func CopySharedAssets(templateDir, outputBase string) error {
	for _, name := range []string{"index.html", "styles.css"} {
		src := filepath.Join(templateDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(outputBase, name)); err != nil {
			return err
		}
	}
	return nil
}

// copyDir recursively copies src into dst, creating directories as
// needed and overwriting existing files.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("generator: open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("generator: mkdir for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("generator: copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("generator: close %s: %w", dst, err)
	}
	return nil
}

// writeFileAtomic writes content via tmp file, fsync, and rename so a
// crashed run never leaves a truncated document behind.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("generator: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wardrobe-tmp-*")
	if err != nil {
		return fmt.Errorf("generator: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("generator: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("generator: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("generator: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("generator: rename: %w", err)
	}
	success = true
	return nil
}
