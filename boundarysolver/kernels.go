package boundarysolver

/*
ComputeGradient evaluates the least squares gradient at a boundary face.
stencilWeights holds dim weights per stencil point, weight [i*dim+d] relates
the difference between stencil value i and the face value to direction d.
*/
func ComputeGradient(dim int, centerValue float64, stencilSize int, stencilValues, stencilWeights, grad []float64) {
	for d := 0; d < dim; d++ {
		grad[d] = 0
	}
	for i := 0; i < stencilSize; i++ {
		delta := stencilValues[i] - centerValue
		for d := 0; d < dim; d++ {
			grad[d] += stencilWeights[i*dim+d] * delta
		}
	}
}

// ComputeGradientAlongNormal returns the derivative along the face normal
func ComputeGradientAlongNormal(dim int, fg *BoundaryFVFaceGeom, centerValue float64, stencilSize int,
	stencilValues, stencilWeights []float64) (dPhiDNorm float64) {
	for i := 0; i < stencilSize; i++ {
		var wn float64
		for d := 0; d < dim; d++ {
			wn += stencilWeights[i*dim+d] * fg.Normal[d]
		}
		dPhiDNorm += wn * (stencilValues[i] - centerValue)
	}
	return
}
