// Package convert turns uploaded ebook files into HTML via pandoc and
// validates PDF uploads.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

// mediaSubdir is where pandoc extracts embedded images, relative to the
// staging directory. The relative path keeps converted markup referencing
// media/... so normalization can rewrite it.
const mediaSubdir = "media"

// Converter runs pandoc with a bounded timeout.
type Converter struct {
	pandocPath string
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a Converter. An empty pandocPath resolves pandoc from PATH.
func New(pandocPath string, timeout time.Duration, logger *slog.Logger) (*Converter, error) {
	if pandocPath == "" {
		path, err := exec.LookPath("pandoc")
		if err != nil {
			return nil, fmt.Errorf("pandoc not found in PATH: %w", err)
		}
		pandocPath = path
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Converter{pandocPath: pandocPath, timeout: timeout, logger: logger}, nil
}

// EPUBToHTML converts an EPUB into one standalone HTML document inside
// workDir. Embedded images land in workDir/media; the returned markup
// references them relatively. The document carries a nav with id="TOC"
// when the source has a table of contents.
func (c *Converter) EPUBToHTML(ctx context.Context, inputPath, workDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outPath := filepath.Join(workDir, "converted.html")

	args := []string{
		inputPath,
		"-f", "epub",
		"-t", "html5",
		"--standalone",
		"--toc",
		"--extract-media=" + mediaSubdir,
		"-o", outPath,
	}

	cmd := exec.CommandContext(ctx, c.pandocPath, args...)
	cmd.Dir = workDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.ConversionFailed(fmt.Sprintf("pandoc timed out after %s", c.timeout))
		}
		return "", errors.ConversionFailed(pandocError(err, stderr.String()))
	}

	c.logger.Debug("pandoc conversion finished",
		"input", filepath.Base(inputPath),
		"duration", time.Since(start).String(),
	)

	out, err := os.ReadFile(outPath)
	if err != nil {
		return "", errors.ConversionFailed(fmt.Sprintf("read pandoc output: %v", err))
	}
	return string(out), nil
}

// pandocError condenses a pandoc failure into one message, keeping the
// tail of stderr where pandoc puts the reason.
func pandocError(err error, stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Sprintf("pandoc: %v", err)
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return fmt.Sprintf("pandoc: %v: %s", err, strings.Join(lines, " "))
}

// MediaFile is one image pandoc extracted from the source archive.
type MediaFile struct {
	// Name is the path relative to the media directory, slash-separated.
	Name string
	Path string
}

// ListMedia enumerates the images pandoc extracted into workDir.
// A conversion with no embedded images returns an empty list.
func ListMedia(workDir string) ([]MediaFile, error) {
	root := filepath.Join(workDir, mediaSubdir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []MediaFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, MediaFile{Name: filepath.ToSlash(rel), Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk media: %w", err)
	}
	return files, nil
}
