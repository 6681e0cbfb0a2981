package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: drain session queues, dispatch messages
	PhaseUpdate               // 1: movement replay and warps
	PhaseOutput               // 2: state broadcasts, flush buffered frames
	PhasePersist              // 3: autosave dirty players
)

// System is one phase-ordered unit of per-tick work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
