package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/page-overlay/internal/pagexml"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestWriteCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "region_counts.tsv")
	records := []pagexml.CountRecord{
		{Filename: "p1", TotalRegions: 3, CountsByType: map[string]int{"paragraph": 2, "header": 1}},
		{Filename: "p2", TotalRegions: 1, CountsByType: map[string]int{"unknown": 1}},
	}

	if err := WriteCounts(path, records); err != nil {
		t.Fatalf("WriteCounts failed: %v", err)
	}

	want := "filename\ttotal_regions\tcount_header\tcount_paragraph\tcount_unknown\n" +
		"p1\t3\t1\t2\t0\n" +
		"p2\t1\t0\t0\t1\n"
	if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCounts_NoRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region_counts.tsv")
	records := []pagexml.CountRecord{{Filename: "empty", CountsByType: map[string]int{}}}

	if err := WriteCounts(path, records); err != nil {
		t.Fatalf("WriteCounts failed: %v", err)
	}
	if got, want := readFile(t, path), "filename\ttotal_regions\nempty\t0\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region_sequences.tsv")
	records := []pagexml.SequenceRecord{
		{Filename: "p1", TotalRegions: 3, LastRegion: "paragraph", Sequence: []string{"header", "r9", "paragraph"}},
		{Filename: "p2", TotalRegions: 2},
	}

	if err := WriteSequences(path, records); err != nil {
		t.Fatalf("WriteSequences failed: %v", err)
	}

	want := "filename\ttotal_regions\tlast_region\tregion_sequence\n" +
		"p1\t3\tparagraph\theader,r9,paragraph\n" +
		"p2\t2\t\t\n"
	if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
		t.Errorf("sequences mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region_sequences.tsv")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteSequences(path, nil); err != nil {
		t.Fatalf("WriteSequences failed: %v", err)
	}
	if got := readFile(t, path); got != "filename\ttotal_regions\tlast_region\tregion_sequence\n" {
		t.Errorf("unexpected content %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the report in %s, found %d entries", dir, len(entries))
	}
}

func TestWrite_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteCounts(filepath.Join(blocker, "counts.tsv"), nil); err == nil {
		t.Error("WriteCounts should fail when the directory is a file")
	}
}

func TestSortRecords(t *testing.T) {
	counts := []pagexml.CountRecord{{Filename: "b"}, {Filename: "a"}, {Filename: "c"}}
	SortCounts(counts)
	seqs := []pagexml.SequenceRecord{{Filename: "p10"}, {Filename: "p01"}, {Filename: "p02"}}
	SortSequences(seqs)

	var gotCounts, gotSeqs []string
	for _, c := range counts {
		gotCounts = append(gotCounts, c.Filename)
	}
	for _, s := range seqs {
		gotSeqs = append(gotSeqs, s.Filename)
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, gotCounts); diff != "" {
		t.Errorf("counts order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"p01", "p02", "p10"}, gotSeqs); diff != "" {
		t.Errorf("sequences order (-want +got):\n%s", diff)
	}
}

func TestRegionTypes(t *testing.T) {
	got := RegionTypes([]pagexml.CountRecord{
		{CountsByType: map[string]int{"paragraph": 1, "catch-word": 1}},
		{CountsByType: map[string]int{"header": 1, "paragraph": 4}},
	})
	if diff := cmp.Diff([]string{"catch-word", "header", "paragraph"}, got); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}
