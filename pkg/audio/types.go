package audio

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type Channel = types.Channel
type SampleRate = types.SampleRate
type SampleFormat = types.SampleFormat
type StreamConfig = types.StreamConfig
type InputConfig = types.InputConfig

type Host = types.Host
type InputDevice = types.InputDevice
type Stream = types.Stream
type InputStream = types.InputStream
type PlayStream = types.PlayStream
type PlayerPCM = types.PlayerPCM

const (
	SampleFormatUndefined     = types.SampleFormatUndefined
	SampleFormatFloat32       = types.SampleFormatFloat32
	SampleFormatSignedInt16   = types.SampleFormatSignedInt16
	SampleFormatUnsignedInt16 = types.SampleFormatUnsignedInt16
)

var (
	ErrNoInputDevice           = types.ErrNoInputDevice
	ErrUnsupportedSampleFormat = types.ErrUnsupportedSampleFormat
)
