package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"swimrace/internal/game"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	defaultVolume = 0.58
	// maxVoices caps overlapping cues so a burst of strokes cannot clip.
	maxVoices = 4
)

// Cue identifies a race sound.
type Cue int

const (
	CueWhistle Cue = iota
	CueFanfare
	CueClick
	CueSplash
	CueCheer
)

func (c Cue) String() string {
	switch c {
	case CueWhistle:
		return "whistle"
	case CueFanfare:
		return "fanfare"
	case CueClick:
		return "click"
	case CueSplash:
		return "splash"
	case CueCheer:
		return "cheer"
	}
	return "unknown"
}

// System plays procedurally generated cues. A nil *System is silent,
// so callers never need to check whether audio came up.
type System struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	voices int32
	cache  [CueCheer + 1][]byte
}

// New opens the output device. The context becomes usable once the
// device signals ready; cues requested before then are dropped.
func New(volume float64) (*System, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	if volume <= 0 || volume > 1 {
		volume = defaultVolume
	}
	s := &System{ctx: ctx, ready: ready, volume: volume}
	for c := range s.cache {
		s.cache[c] = Generate(Cue(c))
	}
	return s, nil
}

// Play starts a cue on its own player and returns immediately.
func (s *System) Play(c Cue) {
	if s == nil || c < 0 || int(c) >= len(s.cache) {
		return
	}
	select {
	case <-s.ready:
	default:
		return
	}
	if atomic.AddInt32(&s.voices, 1) > maxVoices {
		atomic.AddInt32(&s.voices, -1)
		return
	}
	samples := s.cache[c]
	go func() {
		defer atomic.AddInt32(&s.voices, -1)
		player := s.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(s.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		_ = player.Close()
	}()
}

// Attach maps race events to cues.
func (s *System) Attach(bus *game.EventBus) {
	if s == nil {
		return
	}
	bus.Subscribe(game.EventRaceStarted, func(game.Event) { s.Play(CueWhistle) })
	bus.Subscribe(game.EventRaceFinished, func(game.Event) {
		s.Play(CueFanfare)
		s.Play(CueCheer)
	})
	bus.Subscribe(game.EventRaceReset, func(game.Event) { s.Play(CueClick) })
	bus.Subscribe(game.EventStroke, func(game.Event) { s.Play(CueSplash) })
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Generate renders a cue as interleaved stereo float32 LE.
func Generate(c Cue) []byte {
	switch c {
	case CueWhistle:
		return genWhistle()
	case CueFanfare:
		return genFanfare()
	case CueClick:
		return genClick()
	case CueSplash:
		return genSplash()
	case CueCheer:
		return genCheer()
	}
	return nil
}

// bytesPerFrame is two float32 channels.
const bytesPerFrame = 8

// putStereoF32 stores sample in both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	bits := math.Float32bits(float32(sample))
	off := i * bytesPerFrame
	binary.LittleEndian.PutUint32(buf[off:], bits)
	binary.LittleEndian.PutUint32(buf[off+4:], bits)
}

// softSat keeps crowd peaks inside [-1,1] with a cubic knee.
func softSat(x float64) float64 {
	switch {
	case x > 1:
		return 1 - 0.5/x
	case x < -1:
		return -1 - 0.5/x
	}
	return x - x*x*x/3
}

// adsr shapes a cue over progress in [0,1]. Stage lengths are fractions
// of the cue, sustain is a level.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1 - (progress-attack)/decay*(1-sustain)
	case progress < 1-release:
		return sustain
	default:
		return sustain * (1 - (progress-(1-release))/release)
	}
}

// fm is a single-operator phase-modulated sine.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg steps seed and maps the high bits to [-1,1]. Splash and cheer noise.
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func stereoFrames(n int) []byte { return make([]byte, n*bytesPerFrame) }

// genWhistle: two short pea-whistle blasts with a fast trill.
func genWhistle() []byte {
	blast := int(0.22 * SampleRate)
	gap := int(0.06 * SampleRate)
	n := 2*blast + gap
	buf := stereoFrames(n)
	for i := 0; i < n; i++ {
		j := i
		if i >= blast+gap {
			j = i - blast - gap
		} else if i >= blast {
			continue
		}
		t := float64(i) / SampleRate
		p := float64(j) / float64(blast)
		env := adsr(p, 0.05, 0.2, 0.8, 0.2)
		trill := 1 + 0.03*math.Sin(2*math.Pi*32*t)
		s := fm(t, 2900*trill, 0.5, 0.4) * env * 0.34
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genFanfare: ascending FM bell staircase, each note ringing over the next.
func genFanfare() []byte {
	notes := []float64{523.25, 659.25, 783.99, 1046.5, 1318.51}
	noteStep := int(0.11 * SampleRate)
	total := len(notes)*noteStep + int(0.35*SampleRate)
	mix := make([]float64, total)

	for fi, freq := range notes {
		start := fi * noteStep
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.003, 0.65, 0.04, 0.28)
			s := fm(t, freq, 3.5, 5.5*env) * env * 0.28
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.07
			mix[start+j] += s
		}
	}
	buf := stereoFrames(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genClick: crisp click and a brief falling tone.
func genClick() []byte {
	n := SampleRate * 65 / 1000
	buf := stereoFrames(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		freq := 1400 - 700*p
		s := fm(t, freq, 1.0, 0.6) * env * 0.38
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genSplash: low-passed noise burst with a short body thump.
func genSplash() []byte {
	n := int(0.18 * SampleRate)
	buf := stereoFrames(n)
	seed := uint64(0x5eed)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		raw := lcg(&seed)
		lp = lp*0.7 + raw*0.3
		env := adsr(p, 0.02, 0.4, 0.2, 0.4)
		thump := math.Sin(2*math.Pi*(140-80*p)*t) * (1 - p) * 0.25
		s := (lp*0.6+raw*0.1)*env*0.45 + thump
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genCheer: a swelling crowd roar of band-limited noise.
func genCheer() []byte {
	n := int(1.2 * SampleRate)
	buf := stereoFrames(n)
	seed := uint64(0xc4ee)
	lp1, lp2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		raw := lcg(&seed)
		lp1 = lp1*0.82 + raw*0.18
		lp2 = lp2*0.96 + lp1*0.04
		band := lp1 - lp2
		env := adsr(p, 0.25, 0.3, 0.7, 0.35)
		flutter := 0.8 + 0.2*math.Sin(2*math.Pi*5.5*t)
		putStereoF32(buf, i, softSat(band*env*flutter*1.6))
	}
	return buf
}
