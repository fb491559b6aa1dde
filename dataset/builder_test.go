package dataset

import (
	"reflect"
	"testing"

	"github.com/tsawler/startlist/model"
)

func rec(bib int, name, club, start string) model.Record {
	return model.Record{Bib: bib, Name: name, Club: club, StartTime: start}
}

func checkDense(t *testing.T, ds model.Dataset) {
	t.Helper()
	for i, r := range ds.Records {
		if r.Rank != i+1 {
			t.Fatalf("%s dataset: record %d has rank %d, want %d", ds.Kind, i, r.Rank, i+1)
		}
	}
}

func TestBuilder_SortsAndRanks(t *testing.T) {
	b := NewBuilder("NTG")
	b.Add(rec(3, "C", "Lyn", "10:02:00"))
	b.Add(rec(1, "A", "NTG Geilo", "10:00:00"))
	b.Add(rec(2, "B", "Lyn", "10:01:00"))

	full, _ := b.Build()
	checkDense(t, full)

	var bibs []int
	for _, r := range full.Records {
		bibs = append(bibs, r.Bib)
	}
	if !reflect.DeepEqual(bibs, []int{1, 2, 3}) {
		t.Errorf("order = %v, want [1 2 3]", bibs)
	}
	if full.Kind != model.Full {
		t.Errorf("Kind = %v, want full", full.Kind)
	}
}

// Scenario D: equal start times keep their encounter order.
func TestBuilder_StableTies(t *testing.T) {
	b := NewBuilder("NTG")
	b.Add(rec(20, "Later Bib", "Lyn", "11:00:00"))
	b.Add(rec(10, "Earlier Bib", "Lyn", "11:00:00"))
	b.Add(rec(5, "First", "Lyn", "10:59:30"))

	full, _ := b.Build()
	if full.Records[1].Bib != 20 || full.Records[2].Bib != 10 {
		t.Errorf("tie order not preserved: %+v", full.Records)
	}
}

// Scenario E: 5 records, 2 with the marker.
func TestBuilder_Filtered(t *testing.T) {
	b := NewBuilder("NTG")
	b.Add(rec(1, "A", "Lyn", "10:00:00"))
	b.Add(rec(2, "B", "Nesodden IF / NTG-G", "10:00:30"))
	b.Add(rec(3, "C", "Byåsen", "10:01:00"))
	b.Add(rec(4, "D ntg Lillehammer", "", "10:01:30"))
	b.Add(rec(5, "E", "Tromsø", "10:02:00"))

	full, filtered := b.Build()
	if full.Len() != 5 || filtered.Len() != 2 {
		t.Fatalf("sizes = %d/%d, want 5/2", full.Len(), filtered.Len())
	}
	checkDense(t, full)
	checkDense(t, filtered)

	if filtered.Records[0].Bib != 2 || filtered.Records[1].Bib != 4 {
		t.Errorf("unexpected filtered records: %+v", filtered.Records)
	}

	// Re-ranking the filtered copy leaves the full dataset untouched.
	if full.Records[1].Rank != 2 || full.Records[3].Rank != 4 {
		t.Errorf("full ranks changed: %+v", full.Records)
	}
	if filtered.Kind != model.Filtered || filtered.Marker != "NTG" {
		t.Errorf("unexpected filtered metadata: %v %q", filtered.Kind, filtered.Marker)
	}
}

func TestBuilder_FilteredIsSubsequence(t *testing.T) {
	b := NewBuilder("ntg")
	clubs := []string{"NTG", "Lyn", "ntg-g", "Lyn", "NtG Geilo", "Åsen"}
	times := []string{"10:05:00", "10:01:00", "10:03:00", "10:00:00", "10:03:00", "10:02:00"}
	for i := range clubs {
		b.Add(rec(i+1, "X", clubs[i], times[i]))
	}

	full, filtered := b.Build()
	j := 0
	for _, r := range full.Records {
		if j < filtered.Len() && filtered.Records[j].Bib == r.Bib {
			j++
		}
	}
	if j != filtered.Len() {
		t.Errorf("filtered dataset is not a subsequence of the full dataset")
	}
	if filtered.Len() != 3 {
		t.Errorf("filtered size = %d, want 3", filtered.Len())
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	build := func() (model.Dataset, model.Dataset) {
		b := NewBuilder("NTG")
		b.Add(rec(7, "G", "NTG", "12:00:00"))
		b.Add(rec(8, "H", "Lyn", "12:00:00"))
		b.Add(rec(9, "I", "NTG", "11:00:00"))
		return b.Build()
	}

	full1, filtered1 := build()
	full2, filtered2 := build()
	if !reflect.DeepEqual(full1, full2) || !reflect.DeepEqual(filtered1, filtered2) {
		t.Error("builds of the same input differ")
	}
}

func TestBuilder_Empty(t *testing.T) {
	full, filtered := NewBuilder("NTG").Build()
	if !full.IsEmpty() || !filtered.IsEmpty() {
		t.Error("expected empty datasets")
	}
}

func TestBuilder_DoesNotMutateInput(t *testing.T) {
	b := NewBuilder("NTG")
	b.Add(rec(2, "B", "NTG", "10:01:00"))
	b.Add(rec(1, "A", "NTG", "10:00:00"))
	b.Build()

	if b.records[0].Bib != 2 || b.records[0].Rank != 0 {
		t.Errorf("builder records changed: %+v", b.records)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}
