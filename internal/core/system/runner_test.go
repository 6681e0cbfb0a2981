package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	phase Phase
	name  string
	order *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }

func (s *recordingSystem) Update(_ time.Duration) {
	*s.order = append(*s.order, s.name)
}

func TestRunnerExecutesInPhaseOrder(t *testing.T) {
	var order []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhasePersist, name: "persist", order: &order})
	r.Register(&recordingSystem{phase: PhaseInput, name: "input", order: &order})
	r.Register(&recordingSystem{phase: PhaseOutput, name: "broadcast", order: &order})
	r.Register(&recordingSystem{phase: PhaseOutput, name: "flush", order: &order})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "movement", order: &order})

	r.Tick(time.Millisecond)

	want := []string{"input", "movement", "broadcast", "flush", "persist"}
	if len(order) != len(want) {
		t.Fatalf("ran %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
}

func TestRunnerRepeatsEveryTick(t *testing.T) {
	var order []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "movement", order: &order})

	r.Tick(time.Millisecond)
	r.Tick(time.Millisecond)

	if len(order) != 2 {
		t.Fatalf("ran %d times", len(order))
	}
}
