package narration

import (
	"context"
	"strings"
	"time"

	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"foodvision-server-go/internal/platform/config"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

const defaultVoice = "en-NG-EzinneNeural"

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// edgeSynthesizer produces MP3 audio through the Edge TTS service.
type edgeSynthesizer struct{}

func (edgeSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	communicate, err := edge_tts.NewCommunicate(
		text,
		edge_tts.SetVoice(voice),
	)
	if err != nil {
		return nil, err
	}
	return communicate.Stream()
}

// Narrator converts info-stage answers into synthesized speech.
type Narrator struct {
	synth  Synthesizer
	voice  string
	logger *logging.Logger
}

// NewNarrator constructs a narrator backed by Edge TTS.
func NewNarrator(cfg config.TTSConfig, logger *logging.Logger) *Narrator {
	return NewNarratorWithSynthesizer(edgeSynthesizer{}, cfg, logger)
}

// NewNarratorWithSynthesizer allows injecting the synthesis backend.
func NewNarratorWithSynthesizer(synth Synthesizer, cfg config.TTSConfig, logger *logging.Logger) *Narrator {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}
	return &Narrator{
		synth:  synth,
		voice:  voice,
		logger: logger,
	}
}

// Speak synthesizes the text and returns MP3 audio bytes.
func (n *Narrator) Speak(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.KindNarration, "narration.speak", "text is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.KindNarration, "narration.speak", "request cancelled", err)
	}

	start := time.Now()
	audio, err := n.synth.Synthesize(ctx, text, n.voice)
	if err != nil {
		return nil, errors.Wrap(errors.KindNarration, "narration.speak", "speech synthesis failed", err)
	}
	if len(audio) == 0 {
		return nil, errors.New(errors.KindNarration, "narration.speak", "synthesis produced no audio")
	}

	n.logger.DebugTag("Narration", "synthesized %d bytes in %v", len(audio), time.Since(start))
	return audio, nil
}
