// Package ingestor discovers hourly log files under a root directory,
// groups files sharing the same hour anchor into tiers, and streams their
// records to the collection pipeline in non-decreasing time order via a
// k-way merge per tier.
package ingestor

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// filenamePattern matches the fixed YYMMDDHH.log basename the original
// log writer produces.
var filenamePattern = regexp.MustCompile(`^\d{8}\.log$`)

type candidate struct {
	path   string
	anchor time.Time
}

// Ingest walks root, selects and tiers matching log files, and returns a
// channel of record handles in non-decreasing time order. from, if
// non-zero, drops files whose hour anchor predates it (truncated to the
// hour) and skips records whose time is earlier still. diagnostics
// receives one line per skipped file or record via fmt.Fprintf; a nil
// diagnostics writes to os.Stderr. The returned registry owns every opened
// file descriptor and must be closed once the channel is drained.
func Ingest(root string, from time.Time, diagnostics io.Writer) (<-chan *RecordHandle, *Registry, error) {
	if diagnostics == nil {
		diagnostics = os.Stderr
	}
	files, err := discover(root, from, diagnostics)
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", root, err)
	}

	registry := NewRegistry()
	out := make(chan *RecordHandle, 256)

	go func() {
		defer close(out)
		for _, tier := range groupTiers(files) {
			mergeTier(tier, from, registry, out, diagnostics)
		}
	}()

	return out, registry, nil
}

// discover recursive-walks root following symlinks, keeps files whose
// basename matches the YYMMDDHH.log pattern, drops those predating from,
// and returns them sorted ascending by anchor.
func discover(root string, from time.Time, diagnostics io.Writer) ([]candidate, error) {
	var out []candidate
	var fromHour time.Time
	if !from.IsZero() {
		fromHour = from.Truncate(time.Hour)
	}

	err := walkFollowingSymlinks(root, func(path string, d fs.DirEntry) {
		if d.IsDir() {
			return
		}
		name := d.Name()
		if !filenamePattern.MatchString(name) {
			return
		}
		anchor, err := parseAnchor(name)
		if err != nil {
			fmt.Fprintf(diagnostics, "skipping file: %v\n", &SkippedFile{Path: path, Reason: err})
			return
		}
		if !fromHour.IsZero() && anchor.Before(fromHour) {
			return
		}
		out = append(out, candidate{path: path, anchor: anchor})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].anchor.Before(out[j].anchor)
	})
	return out, nil
}

// parseAnchor decodes an 8-digit YYMMDDHH basename (2000-based year,
// 24-hour) into its hour-resolution anchor.
func parseAnchor(name string) (time.Time, error) {
	digits := name[:8]
	year, err := strconv.Atoi(digits[0:2])
	if err != nil {
		return time.Time{}, &MalformedFilename{Name: name, Reason: "invalid year digits"}
	}
	month, err := strconv.Atoi(digits[2:4])
	if err != nil {
		return time.Time{}, &MalformedFilename{Name: name, Reason: "invalid month digits"}
	}
	day, err := strconv.Atoi(digits[4:6])
	if err != nil {
		return time.Time{}, &MalformedFilename{Name: name, Reason: "invalid day digits"}
	}
	hour, err := strconv.Atoi(digits[6:8])
	if err != nil {
		return time.Time{}, &MalformedFilename{Name: name, Reason: "invalid hour digits"}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 {
		return time.Time{}, &MalformedFilename{Name: name, Reason: "out-of-range date component"}
	}
	return time.Date(2000+year, time.Month(month), day, hour, 0, 0, 0, time.Local), nil
}

// walkFollowingSymlinks mirrors filepath.WalkDir but resolves symlinked
// directories and files instead of skipping them, matching the original
// walker's follow_links(true) behavior.
func walkFollowingSymlinks(root string, visit func(path string, d fs.DirEntry)) error {
	info, err := os.Lstat(root)
	if err != nil {
		return err
	}
	return walkEntry(root, fs.FileInfoToDirEntry(info), visit, make(map[string]bool))
}

func walkEntry(path string, d fs.DirEntry, visit func(string, fs.DirEntry), seen map[string]bool) error {
	if d.Type()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if seen[resolved] {
			return nil
		}
		seen[resolved] = true
		info, err := os.Stat(resolved)
		if err != nil {
			return nil
		}
		return walkEntry(path, fs.FileInfoToDirEntry(info), visit, seen)
	}

	if !d.IsDir() {
		visit(path, d)
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := walkEntry(filepath.Join(path, entry.Name()), entry, visit, seen); err != nil {
			return err
		}
	}
	return nil
}

// groupTiers groups consecutive candidates (already anchor-sorted) sharing
// the same hour anchor: parallel shards of one hour written by different
// producers.
func groupTiers(files []candidate) [][]candidate {
	var tiers [][]candidate
	for _, f := range files {
		if len(tiers) == 0 || !tiers[len(tiers)-1][0].anchor.Equal(f.anchor) {
			tiers = append(tiers, []candidate{f})
		} else {
			tiers[len(tiers)-1] = append(tiers[len(tiers)-1], f)
		}
	}
	return tiers
}
