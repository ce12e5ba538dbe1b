package game

import (
	"sync/atomic"

	"github.com/google/uuid"
)

type AgentSnapshot struct {
	Kind     string     `json:"kind"`
	Lane     int        `json:"lane"`
	Position [3]float32 `json:"position"`
	Yaw      float32    `json:"yaw"`
	Scale    float32    `json:"scale"`
	Speed    float32    `json:"speed"`
	Finished bool       `json:"finished"`
}

// Snapshot is an immutable copy of race state for other goroutines.
type Snapshot struct {
	RaceID     uuid.UUID       `json:"race_id"`
	State      string          `json:"state"`
	Status     string          `json:"status"`
	WinnerLane int             `json:"winner_lane"`
	Elapsed    float64         `json:"elapsed"`
	Agents     []AgentSnapshot `json:"agents"`
}

func snapAgent(a Agent) AgentSnapshot {
	return AgentSnapshot{
		Kind:     a.Kind.String(),
		Lane:     a.Lane,
		Position: [3]float32(a.Position),
		Yaw:      a.Yaw,
		Scale:    a.Scale,
		Speed:    a.Speed,
		Finished: a.Finished,
	}
}

func (s *Simulation) Snapshot() *Snapshot {
	snap := &Snapshot{
		RaceID:     s.raceID,
		State:      s.state.String(),
		Status:     s.status,
		WinnerLane: s.winnerLane,
		Elapsed:    s.elapsed,
		Agents:     make([]AgentSnapshot, 0, len(s.ai)+2),
	}
	snap.Agents = append(snap.Agents, snapAgent(s.player), snapAgent(s.second))
	for _, a := range s.ai {
		snap.Agents = append(snap.Agents, snapAgent(a))
	}
	return snap
}

// SnapshotBuffer hands the latest published snapshot to readers
// without locking the simulation goroutine.
type SnapshotBuffer struct {
	p atomic.Pointer[Snapshot]
}

func (b *SnapshotBuffer) Publish(s *Snapshot) { b.p.Store(s) }

// Load returns the latest snapshot, or nil before the first Publish.
func (b *SnapshotBuffer) Load() *Snapshot { return b.p.Load() }
