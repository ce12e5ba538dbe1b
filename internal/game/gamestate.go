package game

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type RaceState int

const (
	StateIdle     RaceState = iota // waiting for a start request
	StateArmed                     // start requested, player not yet in the water
	StateRacing                    // swimmers integrate every tick
	StateFinished                  // winner recorded, waiting for reset
)

func (s RaceState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateRacing:
		return "racing"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status messages shown to the user.
const (
	StatusReady       = "Press D to start"
	StatusStarted     = "Race started"
	StatusWinPlayer   = "Winner: Player"
	StatusWinSecond   = "Winner: Player 2"
	statusWinLaneFmt  = "Winner: Lane %d"
	noWinner          = -1
	aiSpeedSeedFactor = 1009
	aiSpeedSeedBias   = 17
	aiPhaseSeedFactor = 97
	aiPhaseSeedBias   = 13
	twoPi             = 2 * math.Pi
	finishTolerance   = 1e-3
)

// RaceParams are the tunables of a race.
type RaceParams struct {
	PlayerLane       int
	SecondPlayerLane int
	FacingYaw        float32
	YawStep          float32
	ScaleBonus       float32
	StrokeBoost      float32
	SpeedDecay       float32
	MaxSpeed         float32
	AIMinSpeed       float32
	AIMaxSpeed       float32
	Gravity          float32
	// Seed salts every hash-derived attribute; 0 reproduces the stock venue.
	Seed uint32
}

func DefaultRace() RaceParams {
	return RaceParams{
		PlayerLane:       PlayerLane,
		SecondPlayerLane: SecondPlayerLane,
		FacingYaw:        FacingYaw,
		YawStep:          YawStep,
		ScaleBonus:       ScaleBonus,
		StrokeBoost:      StrokeBoost,
		SpeedDecay:       SpeedDecay,
		MaxSpeed:         MaxSpeed,
		AIMinSpeed:       AIMinSpeed,
		AIMaxSpeed:       AIMinSpeed + AISpeedRange,
		Gravity:          Gravity,
	}
}

func (r RaceParams) Validate(pool PoolGeometry) error {
	switch {
	case !pool.ValidLane(r.PlayerLane):
		return fmt.Errorf("player lane %d: %w", r.PlayerLane, ErrInvalidLane)
	case !pool.ValidLane(r.SecondPlayerLane):
		return fmt.Errorf("second player lane %d: %w", r.SecondPlayerLane, ErrInvalidLane)
	case r.PlayerLane == r.SecondPlayerLane:
		return fmt.Errorf("players share lane %d: %w", r.PlayerLane, ErrInvalidLane)
	case r.AIMinSpeed > r.AIMaxSpeed:
		return fmt.Errorf("ai speed range [%.1f, %.1f] is empty", r.AIMinSpeed, r.AIMaxSpeed)
	case r.MaxSpeed <= 0 || r.StrokeBoost <= 0:
		return fmt.Errorf("max speed %.1f and stroke boost %.1f must be positive", r.MaxSpeed, r.StrokeBoost)
	}
	return nil
}

// AgentKind distinguishes the kinds of rig in the scene.
type AgentKind int

const (
	KindPlayer AgentKind = iota
	KindSecondPlayer
	KindAISwimmer
	KindSpectator
)

func (k AgentKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindSecondPlayer:
		return "second_player"
	case KindAISwimmer:
		return "ai"
	case KindSpectator:
		return "spectator"
	}
	return "unknown"
}

// Agent is one swimmer. Spectators are never stored; see CrowdLayout.
type Agent struct {
	Kind     AgentKind
	Lane     int
	Position mgl32.Vec3
	Yaw      float32
	Scale    float32
	Tint     mgl32.Vec3
	Speed    float32
	Finished bool
	Phase    float64 // swim animation offset

	velocityY float32
	yawAccum  float32
}

// PlayerID selects which human swimmer a command addresses.
type PlayerID int

const (
	FirstPlayer PlayerID = iota
	SecondPlayer
)

// Simulation owns all race state. It is single-threaded: commands, Tick
// and frame assembly must run on the same goroutine. Use Snapshot to
// hand state to other goroutines.
type Simulation struct {
	pool   PoolGeometry
	race   RaceParams
	skel   *Skeleton
	light  mgl32.Vec3
	bus    *EventBus
	camera OrbitCamera

	state          RaceState
	startRequested bool
	winnerLane     int
	status         string
	raceID         uuid.UUID
	elapsed        float64

	player Agent
	second Agent
	ai     []Agent

	pose     Pose
	selected Joint
}

type Option func(*Simulation)

func WithPool(p PoolGeometry) Option  { return func(s *Simulation) { s.pool = p } }
func WithRace(r RaceParams) Option    { return func(s *Simulation) { s.race = r } }
func WithSkeleton(k *Skeleton) Option { return func(s *Simulation) { s.skel = k } }
func WithLight(l mgl32.Vec3) Option   { return func(s *Simulation) { s.light = l } }
func WithEventBus(b *EventBus) Option { return func(s *Simulation) { s.bus = b } }
func WithCamera(c OrbitCamera) Option { return func(s *Simulation) { s.camera = c } }

// NewSimulation validates the configuration and resets to Idle, which
// emits the initial status to any bus already subscribed.
func NewSimulation(opts ...Option) (*Simulation, error) {
	s := &Simulation{
		pool:   DefaultPool(),
		race:   DefaultRace(),
		light:  LightPosition,
		camera: NewOrbitCamera(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.skel == nil {
		s.skel = DefaultSkeleton()
	}
	if s.bus == nil {
		s.bus = NewEventBus()
	}
	if err := s.pool.Validate(); err != nil {
		return nil, err
	}
	if err := s.race.Validate(s.pool); err != nil {
		return nil, err
	}
	s.Reset()
	return s, nil
}

func (s *Simulation) State() RaceState     { return s.state }
func (s *Simulation) Status() string       { return s.status }
func (s *Simulation) WinnerLane() int      { return s.winnerLane }
func (s *Simulation) RaceID() uuid.UUID    { return s.raceID }
func (s *Simulation) Elapsed() float64     { return s.elapsed }
func (s *Simulation) Pool() PoolGeometry   { return s.pool }
func (s *Simulation) Race() RaceParams     { return s.race }
func (s *Simulation) Skeleton() *Skeleton  { return s.skel }
func (s *Simulation) Light() mgl32.Vec3    { return s.light }
func (s *Simulation) Camera() *OrbitCamera { return &s.camera }
func (s *Simulation) Bus() *EventBus       { return s.bus }
func (s *Simulation) Player() Agent        { return s.player }
func (s *Simulation) SecondPlayer() Agent  { return s.second }
func (s *Simulation) Pose() Pose           { return s.pose }
func (s *Simulation) SelectedJoint() Joint { return s.selected }
func (s *Simulation) StartRequested() bool { return s.startRequested }

// AISwimmers returns a copy of the AI agents in lane order.
func (s *Simulation) AISwimmers() []Agent {
	out := make([]Agent, len(s.ai))
	copy(out, s.ai)
	return out
}

// StandY is the height at which a rig's soles touch the ground.
func (s *Simulation) StandY() float32 {
	return s.pool.GroundTopY() + s.skel.Dimensions().LegLength()
}

func (s *Simulation) agent(p PlayerID) *Agent {
	if p == SecondPlayer {
		return &s.second
	}
	return &s.player
}

// RequestStart arms the race and gives the player an opening stroke.
// While racing it acts as a stroke.
func (s *Simulation) RequestStart() {
	switch s.state {
	case StateIdle, StateArmed:
		s.startRequested = true
		s.state = StateArmed
		s.player.Speed = s.race.StrokeBoost
	case StateRacing:
		s.Stroke(FirstPlayer)
	}
}

// Stroke boosts a player's speed. Ignored unless racing.
func (s *Simulation) Stroke(p PlayerID) {
	if s.state != StateRacing {
		return
	}
	a := s.agent(p)
	a.Speed = minF(a.Speed+s.race.StrokeBoost, s.race.MaxSpeed)
	s.emit(Event{Type: EventStroke, Lane: a.Lane})
}

// AdjustYaw turns a player by one step in dir (+1 or -1). Every full
// turn accumulated in either direction grows the player by ScaleBonus.
func (s *Simulation) AdjustYaw(p PlayerID, dir int) {
	if dir == 0 {
		return
	}
	a := s.agent(p)
	step := s.race.YawStep
	if dir < 0 {
		step = -step
	}
	a.Yaw = wrapDegrees(a.Yaw + step)
	a.yawAccum += s.race.YawStep
	if a.yawAccum >= 360 {
		a.yawAccum -= 360
		a.Scale *= s.race.ScaleBonus
	}
	if p == FirstPlayer {
		s.pose[Torso] = a.Yaw
	}
}

// SelectJoint chooses the joint AdjustJoint acts on.
func (s *Simulation) SelectJoint(j Joint) error {
	if !j.Valid() {
		return fmt.Errorf("select joint %d: %w", int(j), ErrInvalidJoint)
	}
	s.selected = j
	return nil
}

// AdjustJoint rotates the selected joint of the player's pose.
func (s *Simulation) AdjustJoint(delta float32) {
	s.pose.Adjust(s.selected, delta)
	if s.selected == Torso {
		s.player.Yaw = s.pose[Torso]
	}
}

// Reset returns every agent to the start line and the race to Idle.
func (s *Simulation) Reset() {
	s.state = StateIdle
	s.startRequested = false
	s.winnerLane = noWinner
	s.elapsed = 0
	s.raceID = uuid.Nil

	standY := s.StandY()
	startX := s.pool.StartX()
	s.player = Agent{
		Kind:     KindPlayer,
		Lane:     s.race.PlayerLane,
		Position: mgl32.Vec3{startX, standY, s.pool.laneZ(s.race.PlayerLane)},
		Yaw:      s.race.FacingYaw,
		Scale:    1,
		Tint:     mgl32.Vec3{1, 1, 1},
		Phase:    PlayerSwimPhase,
	}
	s.second = Agent{
		Kind:     KindSecondPlayer,
		Lane:     s.race.SecondPlayerLane,
		Position: mgl32.Vec3{startX, standY, s.pool.laneZ(s.race.SecondPlayerLane)},
		Yaw:      s.race.FacingYaw,
		Scale:    1,
		Tint:     SecondPlayerTint,
		Phase:    SecondSwimPhase,
	}
	s.pose[Torso] = s.player.Yaw
	s.resetAI()

	s.announce(StatusReady)
	s.emit(Event{Type: EventRaceReset})
}

// resetAI fills every lane not held by a player with a seeded swimmer.
func (s *Simulation) resetAI() {
	s.ai = s.ai[:0]
	standY := s.StandY()
	startX := s.pool.StartX()
	for lane := 0; lane < s.pool.LaneCount; lane++ {
		if lane == s.race.PlayerLane || lane == s.race.SecondPlayerLane {
			continue
		}
		seed := uint32(lane*aiSpeedSeedFactor+aiSpeedSeedBias) + s.race.Seed
		s.ai = append(s.ai, Agent{
			Kind:     KindAISwimmer,
			Lane:     lane,
			Position: mgl32.Vec3{startX, standY, s.pool.laneZ(lane)},
			Yaw:      s.race.FacingYaw,
			Scale:    1,
			Tint:     hashTint(seed, 3, 7, 11),
			Speed:    s.race.AIMinSpeed + Hash01(seed)*(s.race.AIMaxSpeed-s.race.AIMinSpeed),
			Phase:    float64(Hash01(uint32(lane*aiPhaseSeedFactor+aiPhaseSeedBias)+s.race.Seed)) * twoPi,
		})
	}
}

// Tick advances the simulation by dt seconds. Order: decay and advance
// swimmers, clamp, lane snap, vertical, then start and finish checks.
func (s *Simulation) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	d := float32(dt)

	if s.state == StateRacing {
		s.swim(&s.player, d)
		s.swim(&s.second, d)
		for i := range s.ai {
			a := &s.ai[i]
			if !a.Finished {
				a.Position[0] += a.Speed * d
			}
		}
		s.elapsed += dt
	} else {
		if s.state != StateArmed {
			s.player.Speed = 0
		}
		s.second.Speed = 0
	}

	minX, finishX := s.pool.MinX(), s.pool.FinishX()
	for _, a := range []*Agent{&s.player, &s.second} {
		a.Position[0] = clampF(a.Position[0], minX, finishX)
		a.Position[2] = s.pool.laneZ(a.Lane)
	}
	for i := range s.ai {
		a := &s.ai[i]
		a.Position[0] = minF(a.Position[0], finishX)
		a.Position[2] = s.pool.laneZ(a.Lane)
	}

	standY := s.StandY()
	s.player.velocityY -= s.race.Gravity * d
	s.player.Position[1] += s.player.velocityY * d
	if s.player.Position[1] <= standY {
		s.player.Position[1] = standY
		s.player.velocityY = 0
	}
	s.second.Position[1] = standY

	s.updateRace()
}

// swim decays speed, then advances by the speed held before decay.
func (s *Simulation) swim(a *Agent, d float32) {
	v := a.Speed
	a.Speed = maxF(0, v-s.race.SpeedDecay*d)
	a.Position[0] += v * a.Scale * d
}

func (s *Simulation) updateRace() {
	switch s.state {
	case StateIdle, StateArmed:
		if s.startRequested && s.pool.IsInPool(s.player.Position) {
			s.startRace()
		}
		return
	case StateFinished:
		return
	}

	finishX := s.pool.FinishX()
	// Stepwise float32 integration can land a hair short of the line.
	reached := func(a *Agent) bool { return a.Position.X() >= finishX-finishTolerance }
	if !s.player.Finished && reached(&s.player) {
		s.player.Position[0] = finishX
		s.player.Finished = true
		s.declareWinner(s.player.Lane, StatusWinPlayer)
	}
	if !s.second.Finished && reached(&s.second) {
		s.second.Position[0] = finishX
		s.second.Finished = true
		s.declareWinner(s.second.Lane, StatusWinSecond)
	}
	for i := range s.ai {
		a := &s.ai[i]
		if !a.Finished && reached(a) {
			a.Position[0] = finishX
			a.Finished = true
			s.declareWinner(a.Lane, fmt.Sprintf(statusWinLaneFmt, a.Lane+1))
		}
	}
}

func (s *Simulation) startRace() {
	s.state = StateRacing
	s.startRequested = false
	s.winnerLane = noWinner
	s.elapsed = 0
	s.raceID = uuid.New()

	s.player.Speed = clampF(s.player.Speed, 0, s.race.MaxSpeed)
	s.player.Finished = false
	s.second.Speed = 0
	s.second.Finished = false
	s.resetAI()

	s.announce(StatusStarted)
	s.emit(Event{Type: EventRaceStarted})
}

// declareWinner records only the first finisher of a race; later
// crossers in the same or following ticks are ignored.
func (s *Simulation) declareWinner(lane int, label string) {
	if s.state == StateFinished {
		return
	}
	s.finishRace(lane, label)
}

func (s *Simulation) finishRace(lane int, label string) {
	if s.winnerLane != noWinner {
		panic(fmt.Sprintf("race %s: winner lane %d already recorded, got lane %d", s.raceID, s.winnerLane, lane))
	}
	s.winnerLane = lane
	s.state = StateFinished
	s.announce(label)
	s.emit(Event{Type: EventRaceFinished, Lane: lane, Message: label})
}

func (s *Simulation) announce(msg string) {
	s.status = msg
	s.emit(Event{Type: EventStatus, Message: msg})
}

func (s *Simulation) emit(e Event) {
	e.RaceID = s.raceID
	e.Elapsed = s.elapsed
	s.bus.Emit(e)
}
