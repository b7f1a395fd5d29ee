// Copyright (c) 2024 Neomantra Corp
//
// BufferPool rents, resets (never reallocates below its prior capacity),
// and reclaims the scratch buffers ValueBuilder uses for each
// container's payload phase. No buffer escapes the builder: every
// rented buffer is copied out into the final output and returned.

package variant

import "github.com/dustin/go-humanize"

// DefaultScratchBufferSize seeds a freshly rented scratch buffer large
// enough for most leaf-heavy containers without a reallocation.
const DefaultScratchBufferSize = 512

// BufferPool is a free-list of growable byte buffers, not safe for
// concurrent use; a ValueBuilder owns exactly one.
type BufferPool struct {
	free     [][]byte
	rented   int
	highWater int
}

func newBufferPool() *BufferPool {
	return &BufferPool{}
}

// Get returns a reset (zero-length) scratch buffer, reusing the most
// recently returned free buffer when there is one rather than
// allocating.
func (p *BufferPool) Get() []byte {
	p.rented++
	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free = p.free[:n-1]
		return buf[:0]
	}
	return make([]byte, 0, DefaultScratchBufferSize)
}

// Put returns buf to the pool once its contents have been copied out.
// Its capacity is preserved so later containers can reuse it without
// growing again.
func (p *BufferPool) Put(buf []byte) {
	p.rented--
	if cap(buf) > p.highWater {
		p.highWater = cap(buf)
	}
	p.free = append(p.free, buf)
}

// Stats reports the pool's current free-list size and its largest
// buffer capacity seen so far, in human-readable form, e.g. for a
// builder's debug logging.
func (p *BufferPool) Stats() string {
	return humanize.Bytes(uint64(p.highWater)) + " high water, " +
		humanize.Comma(int64(len(p.free))) + " idle buffers"
}
