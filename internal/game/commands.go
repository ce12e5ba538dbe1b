package game

import "fmt"

// CommandKind enumerates the discrete inputs the simulation accepts.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdStroke
	CmdYaw
	CmdReset
	CmdSelectJoint
	CmdNudge
	CmdOrbitBegin
	CmdOrbitEnd
	CmdOrbitMove
	CmdZoom
	CmdRecenter
)

// Command is one input event. Fields beyond Kind are used per kind:
// Player for stroke and yaw, Dir for yaw and nudge, Joint for select,
// X and Y for orbit move and zoom.
type Command struct {
	Kind   CommandKind
	Player PlayerID
	Dir    int
	Joint  int
	X, Y   float64
}

// Apply executes a command. Only joint selection can fail.
func (s *Simulation) Apply(c Command) error {
	switch c.Kind {
	case CmdStart:
		s.RequestStart()
	case CmdStroke:
		s.Stroke(c.Player)
	case CmdYaw:
		s.AdjustYaw(c.Player, c.Dir)
	case CmdReset:
		s.ResetAfterFinish()
	case CmdSelectJoint:
		j, err := ParseJoint(c.Joint)
		if err != nil {
			return err
		}
		return s.SelectJoint(j)
	case CmdNudge:
		s.Nudge(c.Dir)
	case CmdOrbitBegin:
		s.camera.BeginDrag()
	case CmdOrbitEnd:
		s.camera.EndDrag()
	case CmdOrbitMove:
		s.camera.Move(c.X, c.Y)
	case CmdZoom:
		s.camera.Zoom(c.Y)
	case CmdRecenter:
		s.camera.Recenter()
	default:
		return fmt.Errorf("unknown command %d", int(c.Kind))
	}
	return nil
}

// ResetAfterFinish resets only once a winner is recorded.
func (s *Simulation) ResetAfterFinish() bool {
	if s.state != StateFinished {
		return false
	}
	s.Reset()
	return true
}

// Nudge strokes the second player while racing and otherwise turns the
// selected joint by one step in dir.
func (s *Simulation) Nudge(dir int) {
	if s.state == StateRacing {
		s.Stroke(SecondPlayer)
		return
	}
	s.AdjustJoint(float32(dir) * JointStep)
}
