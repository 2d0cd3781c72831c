// Package metaio serializes pointcloud.MetadataSet to and from a
// self-describing, human-readable text format (YAML), per spec §6.
package metaio

import (
	"io"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/ngchisern/vvtk-go/pointcloud"
)

// document mirrors the recognized fields of spec §6's metadata document:
// bounds, base_point_num, additional_point_nums, num_of_additional_file,
// partitions. Bounds serialize as six floats in the fixed order
// (min_x, min_y, min_z, max_x, max_y, max_z).
type document struct {
	Bounds              []boundsDoc `yaml:"bounds"`
	BasePointNum        [][]int     `yaml:"base_point_num"`
	AdditionalPointNums [][][]int   `yaml:"additional_point_nums"`
	NumOfAdditionalFile int         `yaml:"num_of_additional_file"`
	Partitions          [3]int      `yaml:"partitions"`
}

type boundsDoc struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
	MaxZ float64 `yaml:"max_z"`
}

// Encode writes set to w in the canonical self-describing text format.
func Encode(w io.Writer, set *pointcloud.MetadataSet) error {
	doc := document{
		BasePointNum:        set.BasePointNum,
		AdditionalPointNums: set.AdditionalPointNums,
		NumOfAdditionalFile: set.NumAdditionalLevels,
		Partitions:          set.Partitions,
	}
	doc.Bounds = make([]boundsDoc, len(set.Bounds))
	for i, b := range set.Bounds {
		doc.Bounds[i] = boundsDoc{
			MinX: b.Min.X, MinY: b.Min.Y, MinZ: b.Min.Z,
			MaxX: b.Max.X, MaxY: b.Max.Y, MaxZ: b.Max.Z,
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal metadata")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write metadata")
	}
	return nil
}

// Decode reads a MetadataSet previously written by Encode.
func Decode(r io.Reader) (*pointcloud.MetadataSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read metadata")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal metadata")
	}

	set := pointcloud.NewMetadataSet(doc.Partitions)
	set.BasePointNum = doc.BasePointNum
	set.AdditionalPointNums = doc.AdditionalPointNums
	set.NumAdditionalLevels = doc.NumOfAdditionalFile
	set.Bounds = make([]pointcloud.Bounds, len(doc.Bounds))
	for i, b := range doc.Bounds {
		set.Bounds[i] = pointcloud.Bounds{
			Min: r3.Vector{X: b.MinX, Y: b.MinY, Z: b.MinZ},
			Max: r3.Vector{X: b.MaxX, Y: b.MaxY, Z: b.MaxZ},
		}
	}
	return set, nil
}
