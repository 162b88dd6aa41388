package time

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	ref := time.Date(2020, time.April, 18, 12, 0, 0, 0, time.UTC)
	c := NewFixed(ref)
	if !c.Now().Equal(ref) {
		t.Fatalf("Now = %v, want %v", c.Now(), ref)
	}
	c.Advance(48 * time.Hour)
	if got := c.Now().Day(); got != 20 {
		t.Fatalf("Advance day = %d, want 20", got)
	}
	c.Set(ref)
	if !c.Now().Equal(ref) {
		t.Fatalf("Set did not pin")
	}

	var _ Clock = System{}
	if (System{}).Now().IsZero() {
		t.Fatalf("system clock returned zero")
	}
}

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time should give nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr mismatch")
	}
}

func TestMonthStartAndUnixMilli(t *testing.T) {
	got := MonthStart(time.Date(2020, time.March, 31, 23, 59, 0, 0, time.UTC))
	if want := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("MonthStart = %v, want %v", got, want)
	}
	if got := UnixMilli(1586000000000); got.Location() != time.UTC || got.UnixMilli() != 1586000000000 {
		t.Fatalf("UnixMilli = %v", got)
	}
}
