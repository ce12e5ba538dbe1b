package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"swimrace/internal/game"
)

type binding struct {
	key glfw.Key
	cmd game.Command
}

// keyBindings fire once per press.
var keyBindings = []binding{
	{glfw.KeyD, game.Command{Kind: game.CmdStart}},
	{glfw.KeyA, game.Command{Kind: game.CmdStroke, Player: game.FirstPlayer}},
	{glfw.KeyW, game.Command{Kind: game.CmdYaw, Player: game.FirstPlayer, Dir: 1}},
	{glfw.KeyS, game.Command{Kind: game.CmdYaw, Player: game.FirstPlayer, Dir: -1}},
	{glfw.KeyUp, game.Command{Kind: game.CmdYaw, Player: game.SecondPlayer, Dir: 1}},
	{glfw.KeyDown, game.Command{Kind: game.CmdYaw, Player: game.SecondPlayer, Dir: -1}},
	{glfw.KeyLeft, game.Command{Kind: game.CmdNudge, Dir: -1}},
	{glfw.KeyRight, game.Command{Kind: game.CmdNudge, Dir: 1}},
	{glfw.KeyP, game.Command{Kind: game.CmdReset}},
	{glfw.KeySpace, game.Command{Kind: game.CmdRecenter}},
	{glfw.Key1, game.Command{Kind: game.CmdSelectJoint, Joint: 0}},
	{glfw.Key2, game.Command{Kind: game.CmdSelectJoint, Joint: 1}},
	{glfw.Key3, game.Command{Kind: game.CmdSelectJoint, Joint: 2}},
	{glfw.Key4, game.Command{Kind: game.CmdSelectJoint, Joint: 3}},
	{glfw.Key5, game.Command{Kind: game.CmdSelectJoint, Joint: 4}},
	{glfw.Key6, game.Command{Kind: game.CmdSelectJoint, Joint: 5}},
	{glfw.Key7, game.Command{Kind: game.CmdSelectJoint, Joint: 6}},
	{glfw.Key8, game.Command{Kind: game.CmdSelectJoint, Joint: 7}},
	{glfw.Key9, game.Command{Kind: game.CmdSelectJoint, Joint: 8}},
	{glfw.Key0, game.Command{Kind: game.CmdSelectJoint, Joint: 9}},
}

const helpText = `Swim Race controls
  D            start the race / stroke player 1
  A            stroke player 1
  W / S        turn player 1
  Up / Down    turn player 2
  Left / Right stroke player 2 while racing, otherwise turn the selected joint
  1..0         select a joint (1 torso ... 0 left lower leg)
  P            reset after a finish
  Space        recentre the camera
  Mouse drag   orbit the camera, scroll to zoom
  Esc          quit
`

// Input turns key edges and mouse callbacks into game commands.
type Input struct {
	prevKeys map[glfw.Key]bool
	pending  []game.Command
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Attach installs the mouse callbacks that queue orbit and zoom commands.
func (in *Input) Attach(window *glfw.Window) {
	window.SetMouseButtonCallback(func(_ *glfw.Window, btn glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if btn != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			in.pending = append(in.pending, game.Command{Kind: game.CmdOrbitBegin})
		case glfw.Release:
			in.pending = append(in.pending, game.Command{Kind: game.CmdOrbitEnd})
		}
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in.pending = append(in.pending, game.Command{Kind: game.CmdOrbitMove, X: x, Y: y})
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, dy float64) {
		in.pending = append(in.pending, game.Command{Kind: game.CmdZoom, Y: dy})
	})
}

// Poll returns the commands gathered since the last call, mouse first.
// Callbacks run inside glfw.PollEvents on the same goroutine.
func (in *Input) Poll(window *glfw.Window) []game.Command {
	cmds := in.pending
	in.pending = nil
	for _, b := range keyBindings {
		if in.JustPressed(window, b.key) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}
