// Package output handles the filesystem side of a run: creating the
// output directory with the report viewer assets, writing results.json,
// and packaging the directory as a gzipped tarball.
package output

import (
	"archive/tar"
	"compress/gzip"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ga4gh/rnaget-compliance-suite/report"
)

//go:embed web
var webAssets embed.FS

// ResultsFileName is the report file written into the output directory.
const ResultsFileName = "results.json"

// Prepare validates the output path and creates the output directory,
// populated with the report viewer assets. The parent directory must
// already exist. An existing directory or archive at the target path is
// a setup error unless force is set, in which case both are removed
// first. Returns the normalized output directory path.
func Prepare(outputDir string, force bool) (string, error) {
	if filepath.Dir(outputDir) == "." && !filepath.IsAbs(outputDir) {
		outputDir = "./" + filepath.Base(outputDir)
	}
	parent := filepath.Dir(outputDir)
	if _, err := os.Stat(parent); err != nil {
		return "", fmt.Errorf("cannot create output directory at %s, base directory %s does not exist", outputDir, parent)
	}

	archivePath := outputDir + ".tar.gz"
	if !force {
		for _, p := range []string{outputDir, archivePath} {
			if _, err := os.Stat(p); err == nil {
				return "", fmt.Errorf("cannot create output directory at %s, directory/archive %s already exists (use --force to overwrite)", outputDir, p)
			}
		}
	} else {
		if err := os.RemoveAll(outputDir); err != nil {
			return "", fmt.Errorf("could not remove existing output directory %s: %w", outputDir, err)
		}
		if err := os.RemoveAll(archivePath); err != nil {
			return "", fmt.Errorf("could not remove existing archive %s: %w", archivePath, err)
		}
	}

	if err := os.Mkdir(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create output directory %s: %w", outputDir, err)
	}
	if err := copyWebAssets(outputDir); err != nil {
		return "", err
	}
	return outputDir, nil
}

func copyWebAssets(outputDir string) error {
	return fs.WalkDir(webAssets, "web", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("web", path)
		if err != nil {
			return err
		}
		target := filepath.Join(outputDir, rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(target, 0o755)
		}
		data, err := webAssets.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// WriteResults serializes the finalized report into the output
// directory and returns the path of the written file.
func WriteResults(outputDir string, rep *report.Report, pretty bool) (string, error) {
	data, err := rep.ToJSON(pretty)
	if err != nil {
		return "", fmt.Errorf("could not serialize report: %w", err)
	}
	path := filepath.Join(outputDir, ResultsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	return path, nil
}

// Archive packs the output directory into <outputDir>.tar.gz, with the
// directory's base name as the archive root, and returns the archive
// path.
func Archive(outputDir string) (string, error) {
	archivePath := outputDir + ".tar.gz"
	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("could not create archive %s: %w", archivePath, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	base := filepath.Base(outputDir)
	err = filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(base, rel))
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("could not archive %s: %w", outputDir, err)
	}
	return archivePath, nil
}
