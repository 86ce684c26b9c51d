package audio

import (
	"sync/atomic"
	"time"
)

// Buffer queues audio blocks from the driver callback until the stream
// stops. Push never blocks: once the queue is full further blocks are
// dropped and counted. Drain must only run after the producer is gone.
type Buffer struct {
	blocks  chan []float32
	pushed  atomic.Uint64
	dropped atomic.Uint64
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{blocks: make(chan []float32, capacity)}
}

// BlocksFor is the queue capacity holding d of audio.
func BlocksFor(d time.Duration, sampleRate, framesPerBuffer int) int {
	if framesPerBuffer <= 0 || sampleRate <= 0 || d <= 0 {
		return 1
	}
	frames := int64(d.Seconds() * float64(sampleRate))
	return int((frames + int64(framesPerBuffer) - 1) / int64(framesPerBuffer))
}

// Push copies in and enqueues it. It reports false when the block was dropped.
func (b *Buffer) Push(in []float32) bool {
	if len(b.blocks) == cap(b.blocks) {
		b.dropped.Add(1)
		return false
	}
	block := make([]float32, len(in))
	copy(block, in)
	select {
	case b.blocks <- block:
		b.pushed.Add(1)
		return true
	default:
		b.dropped.Add(1)
		return false
	}
}

func (b *Buffer) Pushed() uint64  { return b.pushed.Load() }
func (b *Buffer) Dropped() uint64 { return b.dropped.Load() }

// Drain empties the queue and concatenates the blocks in arrival order.
func (b *Buffer) Drain() []float32 {
	var (
		blocks [][]float32
		total  int
	)
loop:
	for {
		select {
		case block := <-b.blocks:
			blocks = append(blocks, block)
			total += len(block)
		default:
			break loop
		}
	}

	if total == 0 {
		return nil
	}
	out := make([]float32, 0, total)
	for _, block := range blocks {
		out = append(out, block...)
	}
	return out
}
