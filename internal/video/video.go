// Package video plays video resources frame by frame over a decoder backend.
package video

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// LastFrame plays a video up to its final frame.
const LastFrame = -1

// ErrInvalidRange is returned for frame ranges outside of the video.
var ErrInvalidRange = errors.New("invalid video frame range")

// Decoder is the backend that opens and decodes videos.
type Decoder interface {
	Open(name string) (frames int, err error)
	Decode(frame int) error
	Close()
}

// NullDecoder opens every video with a fixed frame count without decoding.
type NullDecoder struct {
	Frames int
}

func (d NullDecoder) Open(name string) (int, error) {
	if name == "" {
		return 0, errors.New("empty video name")
	}
	return d.Frames, nil
}

func (NullDecoder) Decode(int) error { return nil }
func (NullDecoder) Close()           {}

// Player implements the video subsystem.
type Player struct {
	logger  *log.Logger
	decoder Decoder
	name    string
	frame   int
	last    int
	playing bool
}

// New returns an idle player.
func New(logger *log.Logger, decoder Decoder) *Player {
	return &Player{
		logger:  logger,
		decoder: decoder,
	}
}

// Play opens a video and starts playing frames start to last, a last frame
// of LastFrame plays to the end.
func (p *Player) Play(name string, start, last int) error {
	p.Stop()

	frames, err := p.decoder.Open(name)
	if err != nil {
		return fmt.Errorf("opening video '%s': %w", name, err)
	}
	if last == LastFrame {
		last = frames - 1
	}
	if start < 0 || start > last || last >= frames {
		p.decoder.Close()
		return fmt.Errorf("%w: %d-%d of %d frames in '%s'", ErrInvalidRange, start, last, frames, name)
	}

	p.name = name
	p.frame = start
	p.last = last
	p.playing = true
	p.logger.Debug("Playing video", log.String("name", name), log.Int("start", start), log.Int("last", last))
	return nil
}

// Update decodes the current frame and advances to the next one. The video
// is done after its last frame was decoded.
func (p *Player) Update() error {
	if !p.playing {
		return nil
	}
	if err := p.decoder.Decode(p.frame); err != nil {
		p.Stop()
		return fmt.Errorf("decoding frame %d of '%s': %w", p.frame, p.name, err)
	}
	if p.frame >= p.last {
		p.Stop()
		return nil
	}
	p.frame++
	return nil
}

// Stop ends the playback.
func (p *Player) Stop() {
	if !p.playing {
		return
	}
	p.decoder.Close()
	p.playing = false
}

// Done returns whether no video is playing.
func (p *Player) Done() bool {
	return !p.playing
}

// Frame returns the current frame number.
func (p *Player) Frame() int {
	return p.frame
}

// Name returns the name of the last played video.
func (p *Player) Name() string {
	return p.name
}
