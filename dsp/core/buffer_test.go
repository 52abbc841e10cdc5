package core

import "testing"

func TestFill(t *testing.T) {
	buf := []float64{1, 2, 3}
	Fill(buf, 0.5)

	for i, v := range buf {
		if v != 0.5 {
			t.Fatalf("buf[%d] = %v, want 0.5", i, v)
		}
	}
}
