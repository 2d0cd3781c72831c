// Package pipeline implements the external message contract the LOD stage
// exposes to the rest of a streaming pipeline: indexed point clouds in and
// out, and a per-frame metadata message, per spec.md §6.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/ngchisern/vvtk-go/pointcloud"
)

// Kind discriminates the Message sum type.
type Kind int

const (
	// KindIndexedPointCloud carries a raw cloud tagged with its frame
	// index, typically the LOD stage's input.
	KindIndexedPointCloud Kind = iota
	// KindIndexedPointCloudWithName carries a cloud, its frame index, and
	// a name: "base" for the base cloud, "<segment_index>" for each
	// additional-resolution segment.
	KindIndexedPointCloudWithName
	// KindMetaData carries one frame's LOD metadata.
	KindMetaData
	// KindEnd marks the end of the stream; stages forward it unchanged.
	KindEnd
)

// Message is one unit of the pipeline's dispatch contract. Only the fields
// relevant to Kind are populated.
type Message struct {
	Kind Kind

	Cloud      *pointcloud.Cloud
	FrameIndex int
	Name       string
	Metadata   *FrameMetadata
	SessionID  uuid.UUID
}

// FrameMetadata is the payload of a KindMetaData message: one frame's
// bounds, base per-segment counts, and per-resolution additional counts,
// mirroring spec.md §6's MetaData message.
type FrameMetadata struct {
	Bounds              pointcloud.Bounds
	BaseCounts          []int
	NumAdditionalLevels int
	Partitions          [3]int
	AdditionalCounts    [][]int
}

// IndexedPointCloud builds a KindIndexedPointCloud message.
func IndexedPointCloud(cloud *pointcloud.Cloud, frameIndex int) Message {
	return Message{Kind: KindIndexedPointCloud, Cloud: cloud, FrameIndex: frameIndex}
}

// IndexedPointCloudWithName builds a KindIndexedPointCloudWithName message.
func IndexedPointCloudWithName(cloud *pointcloud.Cloud, frameIndex int, name string) Message {
	return Message{Kind: KindIndexedPointCloudWithName, Cloud: cloud, FrameIndex: frameIndex, Name: name}
}

// MetaDataMessage builds a KindMetaData message.
func MetaDataMessage(meta FrameMetadata) Message {
	return Message{Kind: KindMetaData, Metadata: &meta}
}

// End builds a KindEnd message.
func End() Message {
	return Message{Kind: KindEnd}
}
