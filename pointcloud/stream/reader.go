// Package stream specifies the capability contract and bounded, keyed
// buffer for an async/streamed point-cloud reader, per spec.md Design Note
// 9. File-based, in-memory, and async-streaming variants are interface
// implementations chosen at construction, replacing the original's dynamic
// dispatch over a renderer-specific reader trait.
package stream

import "github.com/ngchisern/vvtk-go/pointcloud"

// Reader is the capability surface a frame source exposes to a renderer:
// start, random access by frame (optionally at a specific LOD), length, and
// emptiness. Concrete readers (file-based, in-memory, async-streaming) are
// chosen at construction; none of them is a renderer-global singleton.
type Reader interface {
	// Start returns the first frame, or nil if the source is empty.
	Start() *pointcloud.Cloud
	// GetAt returns the frame at index, or nil if out of range.
	GetAt(index int) *pointcloud.Cloud
	// GetAtWithLOD returns the frame at index decoded to at most lod
	// additional resolution levels, or nil if out of range.
	GetAtWithLOD(index, lod int) *pointcloud.Cloud
	// Len returns the number of frames.
	Len() int
	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool
	// SetLen truncates or extends the reader's reported length.
	SetLen(n int)
}
