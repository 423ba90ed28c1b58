package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/celldomain/domain"
)

func TestCuePlayerWithoutDevice(t *testing.T) {
	p := NewCuePlayer()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Cue operations panicked without initialization: %v", r)
		}
	}()

	p.Repaired(domain.RepairStats{Created: []domain.DomainID{2}})
	p.Repaired(domain.RepairStats{Removed: []domain.DomainID{2}})
	p.DomainsBuilt(domain.BuildStats{})
	p.Cleanup()

	if p.mixer.Len() != 0 {
		t.Errorf("Expected no queued tones without a device, got %d", p.mixer.Len())
	}
}

func TestCuePlayerInitialization(t *testing.T) {
	p := NewCuePlayer()

	// Speaker initialization may fail in environments without audio devices
	if err := p.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	p.SetMuted(true)
	p.Repaired(domain.RepairStats{Created: []domain.DomainID{2}})
	p.Cleanup()
}

func TestToneLengthAndEnvelope(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := NewTone(100, 50*time.Millisecond, rate)

	buf := make([][2]float64, 128)
	n, ok := s.Stream(buf)
	if !ok || n != 50 {
		t.Fatalf("Expected 50 samples, got %d (ok=%v)", n, ok)
	}
	for i := 0; i < n; i++ {
		if math.Abs(buf[i][0]) > 1 {
			t.Errorf("Sample %d out of range: %f", i, buf[i][0])
		}
		if buf[i][0] != buf[i][1] {
			t.Errorf("Sample %d: expected identical channels", i)
		}
	}

	n, ok = s.Stream(buf)
	if ok || n != 0 {
		t.Errorf("Expected drained tone, got n=%d ok=%v", n, ok)
	}
}
