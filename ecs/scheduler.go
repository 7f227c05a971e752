package ecs

type System interface {
	Update(w *World)
}

// Stage gates a group of systems on the current frame.
type Stage uint8

const (
	// StageAlways runs on every Update, including dt <= 0.
	StageAlways Stage = iota
	// StageActive runs only when time advances and the world is not frozen.
	StageActive
	// StageDecay runs whenever time advances, frozen or not.
	StageDecay
)

func (s Stage) runs(w *World) bool {
	switch s {
	case StageActive:
		return w.frame.DT > 0 && !w.frozen
	case StageDecay:
		return w.frame.DT > 0
	}
	return true
}

type scheduled struct {
	stage  Stage
	system System
}

// Scheduler runs systems in insertion order, skipping those whose stage is
// gated off for the current frame.
type Scheduler struct {
	systems []scheduled
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(stage Stage, system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, scheduled{stage: stage, system: system})
}

func (s *Scheduler) Update(w *World) {
	if s == nil || w == nil {
		return
	}
	for _, sc := range s.systems {
		if sc.stage.runs(w) {
			sc.system.Update(w)
		}
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	for _, sc := range s.systems {
		systems = append(systems, sc.system)
	}
	return systems
}
