package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/micrecorder/pkg/audio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/sample"
)

const (
	beepSampleRate = 44100
	beepAmplitude  = 0.3
)

func (a *app) newBeepCommand() *cobra.Command {
	var (
		frequency float64
		duration  time.Duration
	)
	cmd := &cobra.Command{
		Use:         "beep",
		Short:       "Play a tone to check the output device",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return beep(cmd.Context(), frequency, duration)
		},
	}
	cmd.Flags().Float64Var(&frequency, "frequency", 440, "tone frequency in Hz")
	cmd.Flags().DurationVar(&duration, "duration", time.Second, "tone duration")
	return cmd
}

func toneS16(frequency float64, duration time.Duration) []byte {
	frames := int(duration.Seconds() * beepSampleRate)
	values := make([]float64, frames)
	for i := range values {
		values[i] = beepAmplitude * math.Sin(2*math.Pi*frequency*float64(i)/beepSampleRate)
	}
	return sample.Encode(audio.SampleFormatSignedInt16, nil, values...)
}

func beep(ctx context.Context, frequency float64, duration time.Duration) error {
	p := audio.NewPlayerAuto(ctx)
	defer p.Close()
	logger.Infof(ctx, "using backend %T", p.PlayerPCM)

	stream, err := p.PlayPCM(
		ctx,
		audio.StreamConfig{Channels: 1, SampleRate: beepSampleRate},
		audio.BufferSize,
		bytes.NewReader(toneS16(frequency, duration)),
	)
	if err != nil {
		return fmt.Errorf("unable to play the tone: %w", err)
	}
	defer stream.Close()
	return stream.Drain()
}
