package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Effect timings.
const (
	scoreNoteDuration = 70 * time.Millisecond
	scoreAttack       = 5 * time.Millisecond
	scoreRelease      = 50 * time.Millisecond

	crashDuration = 450 * time.Millisecond
	crashAttack   = 2 * time.Millisecond
	crashRelease  = 380 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSquare WaveType = iota
	WaveNoise
)

// oscillator generates a raw wave for a fixed number of samples.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSquare:
			val = -1
			if o.phase < 0.5 {
				val = 1
			}
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream.
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

// NewEnvelope shapes s with an attack ramp and a release fade ending at duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	rel := rate.N(release)
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		releaseStart: max(total-rel, 0),
		release:      rel,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = math.Min(vol, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; 0 or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateScoreSound is a short rising two-note sine chime.
func CreateScoreSound(rate beep.SampleRate, volume float64) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		tone, err := generators.SineTone(rate, freq)
		if err != nil {
			return beep.Silence(rate.N(scoreNoteDuration))
		}
		return NewEnvelope(beep.Take(rate.N(scoreNoteDuration), tone), scoreNoteDuration, scoreAttack, scoreRelease, rate)
	}
	return newVolume(beep.Seq(note(987.77), note(1318.51)), 0.25*volume)
}

// CreateCrashSound is a noise burst over a low square buzz.
func CreateCrashSound(rate beep.SampleRate, volume float64) beep.Streamer {
	noise := NewEnvelope(NewOscillator(0, crashDuration, WaveNoise, rate), crashDuration, crashAttack, crashRelease, rate)
	rumble := NewEnvelope(NewOscillator(70, crashDuration, WaveSquare, rate), crashDuration, crashAttack, crashRelease, rate)
	mixed := beep.Mix(newVolume(noise, 0.4), newVolume(rumble, 0.6))
	return newVolume(beep.Take(rate.N(crashDuration), mixed), 0.5*volume)
}
