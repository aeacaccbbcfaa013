package game

import "testing"

func TestRNGStreamsAreDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 10; i++ {
		if x, y := a.Stream("waves").Int63(), b.Stream("waves").Int63(); x != y {
			t.Fatalf("draw %d: got %d and %d from same seed", i, x, y)
		}
	}
}

func TestRNGStreamsAreIndependent(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)

	// 在 a 的另一个随机流上多消耗几次，不应影响 waves 流
	for i := 0; i < 100; i++ {
		a.Stream("map").Int63()
	}
	if x, y := a.Stream("waves").Int63(), b.Stream("waves").Int63(); x != y {
		t.Errorf("waves stream disturbed by map stream: %d != %d", x, y)
	}
	if a.Stream("waves") != a.Stream("waves") {
		t.Error("Stream should return the same instance for the same name")
	}
}
