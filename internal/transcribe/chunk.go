package transcribe

import (
	"fmt"
	"strconv"
	"time"
)

// Window is one contiguous slice of the input. The last window may ask for
// more audio than remains; extraction truncates it.
type Window struct {
	Start  time.Duration
	Length time.Duration
}

func (w Window) String() string {
	return fmt.Sprintf("[%s+%s]", seconds(w.Start), seconds(w.Length))
}

// Name is the chunk file name for this window, e.g. chunk_30.wav.
func (w Window) Name(ext string) string {
	return "chunk_" + seconds(w.Start) + ext
}

// ChunkBounds splits duration into windows starting at 0, length,
// 2*length, ... while the start lies inside the audio. Trailing partial
// audio always gets its own window.
func ChunkBounds(duration, length time.Duration) []Window {
	if duration <= 0 || length <= 0 {
		return nil
	}
	n := int((duration + length - 1) / length)
	windows := make([]Window, 0, n)
	for start := time.Duration(0); start < duration; start += length {
		windows = append(windows, Window{Start: start, Length: length})
	}
	return windows
}

// seconds renders d for ffmpeg and file names: 30s -> "30", 1.5s -> "1.5".
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
