package heap_test

import (
	"testing"

	"github.com/cwbudde/grib/internal/heap"
	"github.com/cwbudde/grib/internal/value"
)

func TestCollectFreesUnreachableSlots(t *testing.T) {
	h := heap.New(1)

	kept := h.AllocString("kept")
	dropped := h.AllocString("dropped")

	h.Collect([]value.Value{value.HeapValue(kept)}, nil, nil)

	if _, ok := h.HeapString(kept); !ok {
		t.Error("expected the rooted string slot to survive collection")
	}

	// The freed slot is reused by the next allocation rather than
	// growing the arena, which is the externally observable sign that
	// it returned to the free list.
	reused := h.AllocString("reused")
	if reused != dropped {
		t.Errorf("expected next allocation to reuse freed slot %d, got %d", dropped, reused)
	}
}

func TestCollectKeepsValuesReachableThroughAnArray(t *testing.T) {
	h := heap.New(1)

	inner := h.AllocString("inner")
	arr := h.AllocArray([]value.Value{value.HeapValue(inner)})

	h.Collect([]value.Value{value.HeapValue(arr)}, nil, nil)

	if _, ok := h.HeapString(inner); !ok {
		t.Error("expected a string reachable only through a rooted array to survive collection")
	}
}

func TestCollectKeepsCaptureCellRoots(t *testing.T) {
	h := heap.New(1)
	cell := h.AllocCell(value.NumberValue(42))

	h.Collect(nil, []int{cell}, nil)

	if got := h.Cell(cell); got.Kind != value.Number || got.Num != 42 {
		t.Errorf("cell value = %+v, want Number(42)", got)
	}
}
