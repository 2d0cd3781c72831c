// Package pointcloud implements the core of a point-cloud streaming and
// adaptive-rendering toolkit: a multi-resolution spatial decomposition for
// level-of-detail streaming, a view-dependent resolution controller, and a
// temporal point-cloud interpolation engine.
package pointcloud
