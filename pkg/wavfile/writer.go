// Package wavfile implements an incrementally written WAV container of
// signed 16-bit integer PCM that can be safely finalized from a goroutine
// other than the one appending to it.
package wavfile

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hashicorp/go-multierror"
)

const (
	BitsPerSample = 16

	// audioFormatPCM is the WAVE_FORMAT_PCM tag (integer samples).
	audioFormatPCM = 1
)

type Spec struct {
	Channels   int
	SampleRate int
}

func (spec Spec) Validate() error {
	if spec.Channels <= 0 {
		return fmt.Errorf("the amount of channels must be positive, but it is %d", spec.Channels)
	}
	if spec.SampleRate <= 0 {
		return fmt.Errorf("the sample rate must be positive, but it is %d", spec.SampleRate)
	}
	return nil
}

type state uint

const (
	stateOpen = state(iota)
	stateFinalized
)

type Writer struct {
	path string
	spec Spec

	locker  sync.Mutex
	state   state
	file    *os.File
	encoder *wav.Encoder
	buffer  *audio.IntBuffer
	pending []int16
	frames  uint64
}

// Create creates (or truncates) the file at path and commits a header
// with an empty data chunk, so the file is a valid WAV right away.
func Create(path string, spec Spec) (_ *Writer, _err error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec %#+v: %w", spec, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create file '%s': %w", path, err)
	}
	defer func() {
		if _err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	w := &Writer{
		path:    path,
		spec:    spec,
		file:    f,
		encoder: wav.NewEncoder(f, spec.SampleRate, BitsPerSample, spec.Channels, audioFormatPCM),
		buffer: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: spec.Channels,
				SampleRate:  spec.SampleRate,
			},
			SourceBitDepth: BitsPerSample,
		},
	}

	// an empty buffer makes the encoder write the format header and open the data chunk
	if err := w.encoder.Write(w.buffer); err != nil {
		return nil, fmt.Errorf("unable to write the header to '%s': %w", path, err)
	}

	return w, nil
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Spec() Spec {
	return w.spec
}

// Append writes interleaved samples. Samples of an incomplete frame are
// kept until the frame is completed. After Finalize it does nothing.
func (w *Writer) Append(samples ...int16) error {
	w.locker.Lock()
	defer w.locker.Unlock()
	if w.state != stateOpen {
		return nil
	}

	channels := w.spec.Channels
	data := w.buffer.Data[:0]
	for _, s := range w.pending {
		data = append(data, int(s))
	}
	for _, s := range samples {
		data = append(data, int(s))
	}
	complete := len(data) - len(data)%channels

	w.pending = w.pending[:0]
	for _, s := range data[complete:] {
		w.pending = append(w.pending, int16(s))
	}
	w.buffer.Data = data[:complete]
	if complete == 0 {
		return nil
	}

	if err := w.encoder.Write(w.buffer); err != nil {
		return fmt.Errorf("unable to write %d samples to '%s': %w", complete, w.path, err)
	}
	w.frames += uint64(complete / channels)
	return nil
}

// FramesWritten returns the amount of complete frames in the data chunk.
func (w *Writer) FramesWritten() uint64 {
	w.locker.Lock()
	defer w.locker.Unlock()
	return w.frames
}

// Finalize patches the header sizes, syncs and closes the file. Only the
// first call does anything.
func (w *Writer) Finalize() error {
	w.locker.Lock()
	defer w.locker.Unlock()
	if w.state != stateOpen {
		return nil
	}
	w.state = stateFinalized

	var mErr *multierror.Error
	if len(w.pending) != 0 {
		mErr = multierror.Append(mErr, fmt.Errorf("dropped %d samples of an incomplete frame", len(w.pending)))
		w.pending = nil
	}
	if err := w.encoder.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to finalize the header of '%s': %w", w.path, err))
	}
	if err := w.file.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to close '%s': %w", w.path, err))
	}
	return mErr.ErrorOrNil()
}

// Abort closes the file and removes it.
func (w *Writer) Abort() error {
	w.locker.Lock()
	defer w.locker.Unlock()
	if w.state != stateOpen {
		return nil
	}
	w.state = stateFinalized

	var mErr *multierror.Error
	if err := w.file.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to close '%s': %w", w.path, err))
	}
	if err := os.Remove(w.path); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to remove '%s': %w", w.path, err))
	}
	return mErr.ErrorOrNil()
}
