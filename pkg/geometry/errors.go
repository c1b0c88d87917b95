package geometry

import "errors"

var (
	ErrInvalidPrimitive   = errors.New("geometry: invalid primitive")
	ErrDegenerateTriangle = errors.New("geometry: degenerate triangle")
	ErrInvalidMesh        = errors.New("geometry: invalid triangle mesh")
	ErrInvalidCamera      = errors.New("geometry: invalid camera configuration")
)
