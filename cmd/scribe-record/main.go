package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"scribe/internal/audio"
	"scribe/internal/bus"
	"scribe/internal/config"
	"scribe/internal/ipc"
	"scribe/internal/logging"
	"scribe/internal/notify"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "YAML config file")
	output := cli.StringP("output", "o", "", "Recording output path")
	device := cli.StringP("device", "d", "", "Substring of the input device name")
	maxDur := cli.DurationP("max-duration", "m", 0, "Stop on its own after this long (0 = until interrupted)")
	cue := cli.String("cue", "", "mp3 played when recording starts and stops")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	logging.Setup(*logLevel)
	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if !cli.CommandLine.Changed("log") && cfg.Logging.Level != "" {
		logging.Setup(cfg.Logging.Level)
	}
	if *output != "" {
		cfg.Capture.Output = *output
	}
	if *device != "" {
		cfg.Capture.DeviceQuery = *device
	}
	if *maxDur > 0 {
		cfg.Capture.MaxDuration = *maxDur
	}
	if *cue != "" {
		cfg.Capture.Cue = *cue
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "err", err)
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	c := cfg.Capture

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		return 1
	}
	defer rec.Close()

	devices, err := rec.Devices()
	if err != nil {
		log.Error("Failed to list devices", "err", err)
		return 1
	}
	printDevices(devices)

	idx, err := audio.LocateDevice(devices, c.DeviceQuery)
	if err != nil {
		log.Error("Could not find input device", "query", c.DeviceQuery, "err", err)
		log.Error("Check the device is installed, or pass --device / SCRIBE_DEVICE with part of a name listed above")
		return 1
	}
	dev := devices[idx]
	log.Info("Found input device", "name", dev.Name, "index", dev.Index, "default_rate", dev.DefaultSampleRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctl, err := ipc.StartServer(c.Socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case ipc.CmdStop:
			log.Info("Stop requested over control socket")
			stop()
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	switch {
	case errors.Is(err, ipc.ErrInUse):
		log.Error("Another recorder is already running", "socket", c.Socket)
		return 1
	case err != nil:
		log.Warn("Control socket unavailable, use Ctrl+C to stop", "socket", c.Socket, "err", err)
	default:
		defer ctl.Close()
	}

	if c.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.MaxDuration)
		defer cancel()
	}

	cueSound(c.Cue)
	log.Info("Press Ctrl+C to stop recording")

	opts := audio.Options{
		SampleRate:      c.SampleRate,
		Channels:        c.Channels,
		FramesPerBuffer: c.FramesPerBuffer,
		Capacity:        audio.BlocksFor(c.BufferDuration, c.SampleRate, c.FramesPerBuffer),
	}
	recording, stats, err := rec.Record(ctx, dev, opts)
	if err != nil {
		log.Error("Recording failed", "err", err)
		return 1
	}

	log.Info("Recording stopped", "blocks", stats.Blocks, "duration", recording.Duration())
	if stats.StatusFlags > 0 {
		log.Warn("Driver reported overflow/underflow", "callbacks", stats.StatusFlags)
	}
	if stats.Dropped > 0 {
		log.Warn("Buffer full, blocks dropped", "dropped", stats.Dropped)
	}
	cueSound(c.Cue)

	if code := save(c.Output, recording); code != 0 || len(recording.Samples) == 0 {
		return code
	}
	announce(cfg.Bus.URL, c.Output)
	return 0
}

// save writes the recording and returns the exit status for the outcome.
// An empty recording is not an error.
func save(path string, recording audio.AudioFile) int {
	written, err := audio.SaveRecording(path, recording)
	if err != nil {
		log.Error("Failed to save recording", "path", path, "err", err)
		return 1
	}
	if !written {
		log.Info("No audio data was recorded")
		return 0
	}
	log.Info("Audio saved successfully", "path", path)
	return 0
}

func printDevices(devices []audio.Device) {
	fmt.Println("Available devices:")
	for _, d := range devices {
		fmt.Println("  ", d)
	}
}

func cueSound(path string) {
	if path == "" {
		return
	}
	if err := notify.Beep(path); err != nil {
		log.Warn("Failed to play cue", "err", err)
	}
}

func announce(url, path string) {
	pub, err := bus.Dial(url, "scribe-record")
	if err != nil {
		log.Warn("Failed to reach bus", "err", err)
		return
	}
	defer pub.Close()
	if err := pub.Publish(bus.KindRecording, path); err != nil {
		log.Warn("Failed to publish", "err", err)
	}
}
