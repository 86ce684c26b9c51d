package audio

import (
	"context"
	"fmt"
	log "log/slog"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// Options fixes the stream format for the lifetime of one recording.
type Options struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	Capacity        int // queued blocks before dropping
}

// Stats describes what happened on the callback side of a recording.
type Stats struct {
	Blocks      uint64
	Dropped     uint64
	StatusFlags uint64 // callbacks that reported over/underflow
}

type Recorder struct {
	infos []*portaudio.DeviceInfo
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Devices lists every device the host exposes, in host order.
func (r *Recorder) Devices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	r.infos = infos

	devices := make([]Device, len(infos))
	for i, info := range infos {
		d := Device{
			Index:             info.Index,
			Name:              info.Name,
			InputChannels:     info.MaxInputChannels,
			OutputChannels:    info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		}
		if info.HostApi != nil {
			d.HostAPI = info.HostApi.Name
		}
		devices[i] = d
	}
	return devices, nil
}

// Record streams dev until ctx is done, then stops the stream and hands
// back everything the callback queued, in arrival order.
func (r *Recorder) Record(ctx context.Context, dev Device, opt Options) (AudioFile, Stats, error) {
	info := r.lookup(dev)
	if info == nil {
		return AudioFile{}, Stats{}, fmt.Errorf("%w: %q is not in the device list", ErrDeviceNotFound, dev.Name)
	}

	buf := NewBuffer(opt.Capacity)
	var flagged atomic.Uint64

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: opt.Channels,
			Latency:  info.DefaultHighInputLatency,
		},
		SampleRate:      float64(opt.SampleRate),
		FramesPerBuffer: opt.FramesPerBuffer,
	}

	// Runs on the driver thread: no I/O, no logging, no blocking.
	callback := func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		if flags != 0 {
			flagged.Add(1)
		}
		buf.Push(in)
	}

	stream, err := portaudio.OpenStream(params, callback)
	if err != nil {
		return AudioFile{}, Stats{}, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return AudioFile{}, Stats{}, fmt.Errorf("start stream: %w", err)
	}

	log.Info("Recording started", "device", info.Name, "rate", opt.SampleRate, "channels", opt.Channels)

	<-ctx.Done()

	out, stats := finish(stream.Stop, buf, &flagged, opt)
	return out, stats, nil
}

// finish stops the stream and collects what was queued. A failed stop is
// logged and the queued audio is still returned.
func finish(stop func() error, buf *Buffer, flagged *atomic.Uint64, opt Options) (AudioFile, Stats) {
	if err := stop(); err != nil {
		log.Warn("Failed to stop stream cleanly, keeping captured audio", "err", err)
	}

	stats := Stats{
		Blocks:      buf.Pushed(),
		Dropped:     buf.Dropped(),
		StatusFlags: flagged.Load(),
	}
	out := AudioFile{
		SampleRate: opt.SampleRate,
		Channels:   opt.Channels,
		Samples:    buf.Drain(),
	}
	return out, stats
}

func (r *Recorder) lookup(dev Device) *portaudio.DeviceInfo {
	for _, info := range r.infos {
		if info.Index == dev.Index && info.Name == dev.Name {
			return info
		}
	}
	return nil
}
