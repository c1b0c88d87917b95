package renderer

import "errors"

var (
	// ErrSceneNotPreprocessed is returned when rendering a scene whose BVH was never built
	ErrSceneNotPreprocessed = errors.New("scene is not preprocessed")
	// ErrInvalidDimensions is returned for non-positive image or tile sizes
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)
