// Package report writes the tab separated statistics files produced by a run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ironsheep/page-overlay/internal/pagexml"
)

const countPrefix = "count_"

// RegionTypes returns the sorted union of region types over records.
func RegionTypes(records []pagexml.CountRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for t := range rec.CountsByType {
			seen[t] = true
		}
	}

	types := maps.Keys(seen)
	slices.Sort(types)
	return types
}

// WriteCounts writes one row per record with a count column per region type.
// Types a record lacks are written as 0.
func WriteCounts(path string, records []pagexml.CountRecord) error {
	types := RegionTypes(records)

	return writeAtomic(path, func(w io.Writer) error {
		header := []string{"filename", "total_regions"}
		for _, t := range types {
			header = append(header, countPrefix+t)
		}
		if err := writeRow(w, header); err != nil {
			return err
		}

		for _, rec := range records {
			row := []string{rec.Filename, strconv.Itoa(rec.TotalRegions)}
			for _, t := range types {
				row = append(row, strconv.Itoa(rec.CountsByType[t]))
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSequences writes one row per record with the reading order joined by
// commas.
func WriteSequences(path string, records []pagexml.SequenceRecord) error {
	return writeAtomic(path, func(w io.Writer) error {
		if err := writeRow(w, []string{"filename", "total_regions", "last_region", "region_sequence"}); err != nil {
			return err
		}
		for _, rec := range records {
			row := []string{
				rec.Filename,
				strconv.Itoa(rec.TotalRegions),
				rec.LastRegion,
				strings.Join(rec.Sequence, ","),
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// SortCounts orders records by filename.
func SortCounts(records []pagexml.CountRecord) {
	slices.SortStableFunc(records, func(a, b pagexml.CountRecord) int {
		return strings.Compare(a.Filename, b.Filename)
	})
}

// SortSequences orders records by filename.
func SortSequences(records []pagexml.SequenceRecord) {
	slices.SortStableFunc(records, func(a, b pagexml.SequenceRecord) int {
		return strings.Compare(a.Filename, b.Filename)
	})
}

func writeRow(w io.Writer, fields []string) error {
	_, err := io.WriteString(w, strings.Join(fields, "\t")+"\n")
	return err
}

// writeAtomic writes to a uniquely named temp file next to path and renames
// it into place, so readers never see a partial report.
func writeAtomic(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	bw := bufio.NewWriter(f)
	err = fill(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
