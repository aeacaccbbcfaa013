package systems

import (
	"testing"

	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/event"
)

func TestDayNightSystem_StartAtNight(t *testing.T) {
	bus := event.NewBus()
	var dusks []int
	event.Subscribe(bus, func(e event.Dusk) { dusks = append(dusks, e.Night) })

	s := NewDayNightSystem(bus, config.DayNightConfig{DayLength: 10, NightLength: 20, StartAtNight: true})
	s.Start()
	if s.IsDay() || s.Night() != 1 {
		t.Fatalf("after start: day=%v night=%d, want night 1", s.IsDay(), s.Night())
	}
	if len(dusks) != 1 || dusks[0] != 1 {
		t.Errorf("dusk events: got %v, want [1]", dusks)
	}
}

func TestDayNightSystem_Cycle(t *testing.T) {
	bus := event.NewBus()
	var order []string
	event.Subscribe(bus, func(e event.Dusk) { order = append(order, "dusk") })
	event.Subscribe(bus, func(e event.Dawn) { order = append(order, "dawn") })

	s := NewDayNightSystem(bus, config.DayNightConfig{DayLength: 10, NightLength: 20})
	s.Update(5)
	if !s.IsDay() || s.Night() != 0 {
		t.Fatalf("t=5: day=%v night=%d, want day night 0", s.IsDay(), s.Night())
	}
	s.Update(5)
	if s.IsDay() || s.Night() != 1 {
		t.Fatalf("t=10: want night 1, got day=%v night=%d", s.IsDay(), s.Night())
	}
	// 一次跨越黑夜和下一个白天
	s.Update(30)
	if s.IsDay() || s.Night() != 2 {
		t.Fatalf("t=40: want night 2, got day=%v night=%d", s.IsDay(), s.Night())
	}
	want := []string{"dusk", "dawn", "dusk"}
	if len(order) != len(want) {
		t.Fatalf("events: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, order[i], want[i])
		}
	}
	if r := s.Remaining(); r != 20 {
		t.Errorf("Remaining: got %v, want 20", r)
	}
}
