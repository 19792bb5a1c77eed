package utils

const (
	NODETOL = 1.e-12
	// Two centroids closer than this are treated as the same point
	CENTROIDTOL = 1.e-8
)
