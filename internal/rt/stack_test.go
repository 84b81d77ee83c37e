package rt_test

import (
	"testing"

	"github.com/cwbudde/grib/internal/rt"
	"github.com/cwbudde/grib/internal/value"
)

func TestPushPopNBalancesStackSize(t *testing.T) {
	s := rt.New(8)
	if err := s.Push(value.NumberValue(1)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := s.Push(value.NumberValue(2)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	before := s.Len()
	s.PopN(2)
	if s.Len() != before-2 {
		t.Errorf("Len() = %d, want %d", s.Len(), before-2)
	}
}

func TestPushBeyondCapacityOverflows(t *testing.T) {
	s := rt.New(1)
	if err := s.Push(value.NumberValue(1)); err != nil {
		t.Fatalf("first Push: %v", err)
	}
	err := s.Push(value.NumberValue(2))
	if err == nil {
		t.Fatal("expected StackOverflowError, got nil")
	}
	if _, ok := err.(*rt.StackOverflowError); !ok {
		t.Errorf("err = %T, want *rt.StackOverflowError", err)
	}
}

func TestFrameBaseIsRelativeToPushDepth(t *testing.T) {
	s := rt.New(8)
	_ = s.Push(value.NumberValue(1))
	_ = s.Push(value.NumberValue(2))
	if s.Base() != 0 {
		t.Fatalf("Base() before any frame = %d, want 0", s.Base())
	}

	s.PushFrame(value.NilValue(), -1)
	if got := s.Base(); got != 2 {
		t.Errorf("Base() after PushFrame at depth 2 = %d, want 2", got)
	}
	s.PopFrame()
	if s.Base() != 0 {
		t.Errorf("Base() after PopFrame = %d, want 0", s.Base())
	}
}

func TestRootsSeparatesCapturedCellsFromPlainValues(t *testing.T) {
	s := rt.New(8)
	_ = s.Push(value.NumberValue(1))
	_ = s.PushCell(7)

	values, cells := s.Roots()
	if len(values) != 1 || values[0].Num != 1 {
		t.Errorf("values = %+v, want one Number(1)", values)
	}
	if len(cells) != 1 || cells[0] != 7 {
		t.Errorf("cells = %+v, want [7]", cells)
	}
}
