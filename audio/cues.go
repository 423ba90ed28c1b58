// Package audio plays short tones for domain splits and merges
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/parameter"
)

const (
	sampleRate = beep.SampleRate(48000)

	// cueVolume is the linear gain applied to every cue
	cueVolume = 0.25
)

// CuePlayer implements domain.Observer, one tone per split or merge repair
// Every method is a no-op until Initialize succeeds, so the viewer runs without a device
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewCuePlayer creates an uninitialized player
func NewCuePlayer() *CuePlayer {
	return &CuePlayer{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer
func (p *CuePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup drops queued tones, the speaker itself stays open
func (p *CuePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// SetMuted toggles output without closing the device
func (p *CuePlayer) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Muted reports the mute state
func (p *CuePlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *CuePlayer) DomainsBuilt(domain.BuildStats) {}

func (p *CuePlayer) Repaired(s domain.RepairStats) {
	switch {
	case len(s.Created) > len(s.Removed):
		p.play(parameter.CueSplitHz)
	case len(s.Created) < len(s.Removed):
		p.play(parameter.CueMergeHz)
	}
}

func (p *CuePlayer) play(freq float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	tone := NewTone(freq, time.Duration(parameter.CueDurationMs)*time.Millisecond, sampleRate)
	speaker.Lock()
	p.mixer.Add(withVolume(tone, cueVolume))
	speaker.Unlock()
}

// tone is a sine oscillator with a linear fade out
type tone struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewTone creates a finite sine streamer
func NewTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}
		env := 1 - float64(t.position)/float64(t.duration)
		val := math.Sin(2*math.Pi*t.phase) * env

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume applies a linear gain through the base-2 volume effect
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

var _ domain.Observer = (*CuePlayer)(nil)
