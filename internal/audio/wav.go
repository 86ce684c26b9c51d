package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"scribe/pkg/audioconv"
)

// AudioFile is interleaved float32 audio as persisted by the capture stage.
type AudioFile struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

func (a AudioFile) Frames() int {
	if a.Channels <= 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

func (a AudioFile) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(a.Frames()) * time.Second / time.Duration(a.SampleRate)
}

// WriteWAV stores a as 32-bit IEEE float WAV. Sample bits go to disk
// unchanged.
func WriteWAV(path string, a AudioFile) error {
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return fmt.Errorf("write %s: invalid format %d Hz x %d", path, a.SampleRate, a.Channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	data := make([]int, len(a.Samples))
	for i, s := range a.Samples {
		data[i] = int(int32(math.Float32bits(s)))
	}

	enc := wav.NewEncoder(f, a.SampleRate, 32, a.Channels, audioconv.FormatFloat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: a.Channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: 32,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}

// SaveRecording writes a to path unless it holds no samples. It reports
// whether a file was written.
func SaveRecording(path string, a AudioFile) (bool, error) {
	if len(a.Samples) == 0 {
		return false, nil
	}
	if err := WriteWAV(path, a); err != nil {
		return false, err
	}
	return true, nil
}

// ReadWAV loads a WAV file at its native rate and channel count.
func ReadWAV(path string) (AudioFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioFile{}, err
	}
	defer f.Close()

	pcm, err := audioconv.DecodeWAV(f)
	if err != nil {
		return AudioFile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return AudioFile{SampleRate: pcm.SampleRate, Channels: pcm.Channels, Samples: pcm.Samples}, nil
}
