package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

// WhisperRate is the sample rate whisper models expect.
const WhisperRate = 16000

// WAV format tags.
const (
	FormatPCM   = 1
	FormatFloat = 3
)

// PCM is interleaved float32 audio at its native rate.
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames is the number of sample frames (samples per channel).
func (p PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Mono16k downmixes and resamples to what whisper consumes.
func (p PCM) Mono16k() []float32 {
	x := downmixInterleaved(p.Samples, p.Channels)
	return resampleLinear(x, p.SampleRate, WhisperRate)
}

// DecodeFile decodes a wav, mp3, ogg/vorbis or ogg/opus file. Unknown
// extensions are sniffed by their magic bytes.
func DecodeFile(path string) (PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return PCM{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return DecodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".opus":
		return decodeOggOpus(f)
	case ".ogg", ".oga":
		return decodeOgg(f)
	}

	br := bufio.NewReader(f)
	magic, _ := br.Peek(4)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return PCM{}, err
	}
	switch string(magic) {
	case "RIFF":
		return DecodeWAV(f)
	case "OggS":
		return decodeOgg(f)
	default:
		return PCM{}, fmt.Errorf("unsupported format: %s (supported: wav/mp3/ogg/opus)", filepath.Ext(path))
	}
}

// DecodeWAV reads integer PCM and 32-bit IEEE float WAV files. Float
// samples are reinterpreted bit for bit, integers are scaled to [-1, 1].
func DecodeWAV(r io.ReadSeeker) (PCM, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return PCM{}, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, err
	}
	if pb == nil || pb.Data == nil {
		return PCM{}, errors.New("empty wav")
	}

	out := PCM{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			out.Channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			out.SampleRate = pb.Format.SampleRate
		}
	}
	if out.Channels <= 0 {
		out.Channels = 1
	}

	bd := int(dec.BitDepth)
	switch {
	case dec.WavAudioFormat == FormatFloat && bd == 32:
		out.Samples = bitsToFloat32(pb.Data)
	case dec.WavAudioFormat == FormatFloat:
		return PCM{}, fmt.Errorf("unsupported float wav bit depth %d", bd)
	default:
		if bd == 0 {
			bd = 16
		}
		out.Samples = intSliceToFloat32(pb.Data, bd)
	}
	return out, nil
}

func decodeMP3(r io.Reader) (PCM, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return PCM{}, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return PCM{}, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return PCM{}, err
	}

	sr := dec.SampleRate()
	if sr <= 0 {
		sr = 44100
	}
	// go-mp3 always yields interleaved stereo
	return PCM{Samples: int16SliceToFloat32(ints), SampleRate: sr, Channels: 2}, nil
}

// decodeOgg tries vorbis first and falls back to opus.
func decodeOgg(r io.ReadSeeker) (PCM, error) {
	pcm, verr := decodeOggVorbis(r)
	if verr == nil {
		return pcm, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return PCM{}, err
	}
	pcm, oerr := decodeOggOpus(r)
	if oerr != nil {
		return PCM{}, fmt.Errorf("cannot decode ogg as vorbis (%v) or opus (%w)", verr, oerr)
	}
	return pcm, nil
}

func decodeOggVorbis(r io.Reader) (PCM, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return PCM{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return PCM{}, errors.New("invalid ogg/vorbis stream")
	}
	return PCM{Samples: data, SampleRate: format.SampleRate, Channels: format.Channels}, nil
}

// opus always decodes at 48 kHz.
func decodeOggOpus(r io.ReadSeeker) (PCM, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return PCM{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var (
		out []float32
		buf = make([]int16, 48_000*ch/2)
	)
	for {
		n, err := dec.Read(buf) // n = samples per channel
		if n > 0 {
			out = append(out, int16SliceToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return PCM{}, err
		}
	}
	return PCM{Samples: out, SampleRate: 48000, Channels: ch}, nil
}

// helpers

func bitsToFloat32(data []int) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = math.Float32frombits(uint32(int32(v)))
	}
	return out
}

func intSliceToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1.0, 1.0))
	}
	return out
}

func int16SliceToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	const scale = 1.0 / 32768.0
	for i, v := range data {
		out[i] = float32(float64(v) * scale)
	}
	return out
}

func downmixInterleaved(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	nFrames := len(in) / channels
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		sum := 0.0
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, inSR, outSR int) []float32 {
	if inSR == outSR || inSR <= 0 || len(in) == 0 {
		return in
	}
	ratio := float64(outSR) / float64(inSR)
	outN := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, outN)
	for i := 0; i < outN; i++ {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		i1 := i0 + 1
		if i0 >= len(in) {
			out[i] = in[len(in)-1]
			continue
		}
		if i1 >= len(in) {
			out[i] = in[i0]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i1]*a
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
