package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"time"

	"github.com/braheezy/qoa"
	"github.com/ebitengine/oto/v3"
	"github.com/pgrlab/asteroids/game"
	"github.com/pgrlab/asteroids/settings"
)

// Audio plays the music loop and the sound effects. A nil *Audio is silent.
type Audio struct {
	ctx    *oto.Context
	sounds map[game.Event]*sound
	music  *sound
	done   chan struct{}
	// effects still playing; players must stay referenced until they finish
	active []*oto.Player
}

// sound is a decoded QOA file kept in memory as interleaved 16 bit stereo.
type sound struct {
	pcm []byte
}

// NewAudio opens the default audio device and decodes all sound files. A
// missing file only disables that sound.
func NewAudio(cfg settings.Audio) (*Audio, error) {
	effects := map[game.Event]string{
		game.EventExplosion:    cfg.ExplosionSound,
		game.EventGameOver:     cfg.ExplosionSound,
		game.EventMissileFired: cfg.FireSound,
	}

	a := &Audio{sounds: make(map[game.Event]*sound), done: make(chan struct{})}
	var sampleRate int
	for ev, path := range effects {
		s, rate, err := loadSound(path)
		if err != nil {
			log.Printf("audio: %v", err)
			continue
		}
		a.sounds[ev] = s
		sampleRate = rate
	}
	if m, rate, err := loadSound(cfg.Music); err != nil {
		log.Printf("audio: %v", err)
	} else {
		a.music = m
		sampleRate = rate
	}
	if sampleRate == 0 {
		return nil, fmt.Errorf("no playable sounds")
	}

	// QOA is always 16 bit; oto only mixes one sample rate per context.
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto.NewContext failed: %w", err)
	}
	<-ready
	a.ctx = ctx
	return a, nil
}

func loadSound(path string) (*sound, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	header, samples, err := qoa.Decode(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	pcm, err := io.ReadAll(qoa.NewReader(samples, int(header.Channels)))
	if err != nil {
		return nil, 0, err
	}
	return &sound{pcm: stereo(pcm, int(header.Channels))}, int(header.SampleRate), nil
}

// stereo duplicates mono frames so every sound matches the context layout.
func stereo(pcm []byte, channels int) []byte {
	if channels != 1 {
		return pcm
	}
	out := make([]byte, 0, 2*len(pcm))
	for i := 0; i+1 < len(pcm); i += 2 {
		out = append(out, pcm[i], pcm[i+1], pcm[i], pcm[i+1])
	}
	return out
}

// PlayLoop starts the music and rewinds it whenever it ends.
func (a *Audio) PlayLoop() {
	if a == nil || a.music == nil {
		return
	}
	reader := bytes.NewReader(a.music.pcm)
	player := a.ctx.NewPlayer(reader)

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		player.Play()
		for {
			select {
			case <-a.done:
				player.Pause()
				return
			case <-ticker.C:
				if !player.IsPlaying() {
					// Rewind the song to the beginning
					if _, err := player.Seek(0, io.SeekStart); err != nil {
						log.Printf("audio: %v", err)
						return
					}
					player.Play()
				}
			}
		}
	}()
}

// Handle plays the effect bound to each event.
func (a *Audio) Handle(events []game.Event) {
	if a == nil {
		return
	}
	a.active = slices.DeleteFunc(a.active, func(p *oto.Player) bool {
		return !p.IsPlaying()
	})
	for _, ev := range events {
		if s, ok := a.sounds[ev]; ok {
			p := a.ctx.NewPlayer(bytes.NewReader(s.pcm))
			p.Play()
			a.active = append(a.active, p)
		}
	}
}

func (a *Audio) Close() {
	if a == nil {
		return
	}
	close(a.done)
}
