package spread

import (
	"reflect"
	"testing"
)

func TestSpreadInterleavesByKey(t *testing.T) {
	items := []string{"a1", "a2", "a3", "b1", "c1", "c2"}
	keyFn := func(s string) byte { return s[0] }

	got := Spread(items, keyFn)
	want := []string{"a1", "b1", "c1", "a2", "c2", "a3"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Spread() = %v, want %v", got, want)
	}
}

func TestSpreadEmpty(t *testing.T) {
	got := Spread([]int{}, func(i int) int { return i })
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestChunkSplitsIntoFixedSizeBatches(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	got := Chunk(items, 3)
	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkExactMultiple(t *testing.T) {
	got := Chunk([]int{1, 2, 3, 4}, 2)
	want := [][]int{{1, 2}, {3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkPanicsOnNonPositiveSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive chunk size")
		}
	}()
	Chunk([]int{1, 2}, 0)
}
