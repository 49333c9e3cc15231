// Package sound implements the sample slots and the playback timing of the
// sound subsystem over a mixer backend.
package sound

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/log"
)

// Sound defaults.
const (
	MaxSlots         = 60
	DefaultFrequency = 8000
	Loop             = -1 // repeat count that plays until stopped
	StopAll          = -1 // slot that stops any playback
)

var (
	// ErrInvalidSlot is returned for slots out of range or without sample.
	ErrInvalidSlot = errors.New("invalid sound slot")
	// ErrEmptySample is returned for resources without sample data.
	ErrEmptySample = errors.New("empty sound sample")
)

// Mixer is the audio output backend.
type Mixer interface {
	Play(data []byte, frequency int) error
	Stop()
	PlayTrack(name string) error
	PlayMusic(data []byte) error
}

// NullMixer discards all audio.
type NullMixer struct{}

func (NullMixer) Play([]byte, int) error { return nil }
func (NullMixer) Stop()                  {}
func (NullMixer) PlayTrack(string) error { return nil }
func (NullMixer) PlayMusic([]byte) error { return nil }

// Player implements the sound subsystem. One sample plays at a time.
type Player struct {
	logger *log.Logger
	mixer  Mixer
	slots  [MaxSlots][]byte

	current   int
	repeat    int
	duration  int // milliseconds of one playback
	remaining int
	track     string
	music     int
}

// New returns a player without samples.
func New(logger *log.Logger, mixer Mixer) *Player {
	return &Player{
		logger:  logger,
		mixer:   mixer,
		current: -1,
		music:   -1,
	}
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= MaxSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// Load stores a sample resource in a slot.
func (p *Player) Load(slot int, res script.Resource) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if len(res.Data) == 0 {
		return fmt.Errorf("%w: resource %d", ErrEmptySample, res.ID)
	}
	if p.current == slot {
		p.stop()
	}
	p.slots[slot] = res.Data
	return nil
}

// Free releases a slot, stopping its playback.
func (p *Player) Free(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if p.current == slot {
		p.stop()
	}
	p.slots[slot] = nil
	return nil
}

// Play starts a sample, replacing the current playback. A repeat count of
// 0 or 1 plays once, Loop repeats until stopped.
func (p *Player) Play(slot, repeat, frequency int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	data := p.slots[slot]
	if data == nil {
		return fmt.Errorf("%w: %d has no sample", ErrInvalidSlot, slot)
	}
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	p.stop()
	if err := p.mixer.Play(data, frequency); err != nil {
		return fmt.Errorf("playing slot %d: %w", slot, err)
	}
	p.current = slot
	p.repeat = max(repeat, 1)
	if repeat == Loop {
		p.repeat = Loop
	}
	p.duration = max(len(data)*1000/frequency, 1)
	p.remaining = p.duration
	p.logger.Debug("Playing sound", log.Int("slot", slot), log.Int("repeat", repeat), log.Int("frequency", frequency))
	return nil
}

// Stop ends the playback of a slot, StopAll ends any playback.
func (p *Player) Stop(slot int) error {
	if slot == StopAll || slot == p.current {
		p.stop()
		return nil
	}
	return checkSlot(slot)
}

func (p *Player) stop() {
	if p.current < 0 {
		return
	}
	p.mixer.Stop()
	p.current = -1
	p.remaining = 0
}

// Update advances the playback by the elapsed milliseconds.
func (p *Player) Update(elapsed uint32) {
	if p.current < 0 {
		return
	}
	p.remaining -= int(elapsed)
	for p.remaining <= 0 {
		switch {
		case p.repeat == Loop:
		case p.repeat > 1:
			p.repeat--
		default:
			p.stop()
			return
		}
		p.remaining += p.duration
	}
}

// Playing returns whether a sample is playing.
func (p *Player) Playing() bool {
	return p.current >= 0
}

// Current returns the playing slot or -1.
func (p *Player) Current() int {
	return p.current
}

// PlayCDTrack starts a CD audio track.
func (p *Player) PlayCDTrack(name string) error {
	if err := p.mixer.PlayTrack(name); err != nil {
		return fmt.Errorf("playing CD track '%s': %w", name, err)
	}
	p.track = name
	p.logger.Debug("Playing CD track", log.String("track", name))
	return nil
}

// PlayMusic starts an AdLib music resource.
func (p *Player) PlayMusic(res script.Resource) error {
	if len(res.Data) == 0 {
		return fmt.Errorf("%w: music resource %d", ErrEmptySample, res.ID)
	}
	if err := p.mixer.PlayMusic(res.Data); err != nil {
		return fmt.Errorf("playing music %d: %w", res.ID, err)
	}
	p.music = res.ID
	p.logger.Debug("Playing music", log.Int("resource", res.ID))
	return nil
}

// Music returns the last started music resource or -1.
func (p *Player) Music() int {
	return p.music
}

// Track returns the last started CD track.
func (p *Player) Track() string {
	return p.track
}
