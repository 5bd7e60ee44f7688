package scalespace_test

import (
	"math"
	"sync"
	"testing"

	"github.com/eventual-recluse/scalespace"
)

func TestAxisClamps(t *testing.T) {
	c := scalespace.NewControlPoint()
	if c.X.Value() != 0 || c.Y.Value() != 0 {
		t.Fatalf("control point should start at the origin")
	}
	cases := []struct{ in, expected float64 }{
		{0.5, 0.5},
		{2, 1},
		{-7, -1},
		{math.Inf(1), 1},
		{math.Inf(-1), -1},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := c.X.Set(tc.in); got != tc.expected || c.X.Value() != tc.expected {
			t.Errorf("Set(%v): got %v, expected %v", tc.in, c.X.Value(), tc.expected)
		}
	}
}

func TestAxisConcurrentAccess(t *testing.T) {
	c := scalespace.NewControlPoint()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.X.Set(float64(i%3) - 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if v := c.X.Value(); v < -1 || v > 1 {
				t.Errorf("read out of range value %v", v)
				return
			}
		}
	}()
	wg.Wait()
}

func TestAxisClampDoesNotStore(t *testing.T) {
	c := scalespace.NewControlPoint()
	c.Y.Set(0.5)
	if got := c.Y.Clamp(math.NaN()); got != c.Y.Default {
		t.Fatalf("Clamp(NaN): got %v, expected %v", got, c.Y.Default)
	}
	if got := c.Y.Clamp(-3); got != c.Y.Min {
		t.Fatalf("Clamp(-3): got %v, expected %v", got, c.Y.Min)
	}
	if got := c.Y.Value(); got != 0.5 {
		t.Fatalf("Clamp should not change the value, got %v", got)
	}
}
