// Package journal reads the on-board log, extracts alert lines and archives
// the log under a dated name.
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/litescript/ls-mission/internal/safeload"
)

// AlertKeyword marks a log line as an alert, matched case-insensitively.
const AlertKeyword = "alerte"

// maxLineLen bounds a single log line.
const maxLineLen = 1 << 20

// Read returns the lines of the log at path without line terminators.
// A missing file is reported as safeload.ErrNotFound.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", safeload.ErrNotFound, path)
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read journal %s: %w", path, err)
	}
	return lines, nil
}

// IsAlert reports whether line contains the alert keyword.
func IsAlert(line string) bool {
	return strings.Contains(strings.ToLower(line), AlertKeyword)
}

// Alerts returns the alert lines in log order.
func Alerts(lines []string) []string {
	var alerts []string
	for _, l := range lines {
		if IsAlert(l) {
			alerts = append(alerts, l)
		}
	}
	return alerts
}

// WriteAlerts writes lines to path, one per line, replacing any previous
// content.
func WriteAlerts(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create alerts file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			f.Close()
			return fmt.Errorf("write alerts file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write alerts file: %w", err)
	}
	return f.Close()
}

// ArchiveName returns the dated file name for src, e.g.
// journal_bord.txt -> journal_bord_2024-03-09.txt.
func ArchiveName(src string, day time.Time) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), day.Format(time.DateOnly), ext)
}

// Archive copies src into dir under its dated name and returns the
// destination path. dir is created when missing; an archive from the same
// day is overwritten.
func Archive(src, dir string, day time.Time) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", safeload.ErrNotFound, src)
		}
		return "", fmt.Errorf("open journal: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	dest := filepath.Join(dir, ArchiveName(src, day))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copy journal: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}
	return dest, nil
}
