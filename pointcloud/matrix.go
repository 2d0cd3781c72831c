package pointcloud

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// CloudMatrix packs cloud's point positions into an Nx3 dense matrix, row i
// holding point i's (x, y, z), for downstream numeric tooling (external
// analytics, PCA-style bounds sanity checks). Returns nil for an empty
// cloud, matching the teacher's CloudMatrix boundary behavior.
func CloudMatrix(cloud *Cloud) *mat.Dense {
	if cloud.IsEmpty() {
		return nil
	}
	m := mat.NewDense(cloud.Len(), 3, nil)
	for i, p := range cloud.Points {
		m.SetRow(i, []float64{p.Position.X, p.Position.Y, p.Position.Z})
	}
	return m
}

// CloudFromMatrix is the inverse of CloudMatrix: it builds a Cloud whose
// points take their positions from m's rows (3 columns required) and
// default color/attributes, stamping a dense Index in row order.
func CloudFromMatrix(m *mat.Dense) *Cloud {
	if m == nil {
		return &Cloud{}
	}
	rows, cols := m.Dims()
	if cols != 3 {
		return &Cloud{}
	}
	points := make([]Point, rows)
	for i := 0; i < rows; i++ {
		pos := r3.Vector{X: m.At(i, 0), Y: m.At(i, 1), Z: m.At(i, 2)}
		points[i] = NewPoint(pos, 0, 0, 0, 255, i)
	}
	return &Cloud{Points: points}
}
