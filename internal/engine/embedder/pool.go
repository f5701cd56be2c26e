package embedder

import "math"

// meanPool computes the attention-mask-weighted mean of per-token hidden
// states for sample b of a flat [batch * seqLen * dim] tensor.
func meanPool(hidden []float32, mask []int64, b, seqLen, dim int64) []float32 {
	out := make([]float32, dim)
	maskOff := b * seqLen
	hiddenOff := b * seqLen * dim

	var count float32
	for s := int64(0); s < seqLen; s++ {
		if mask[maskOff+s] != 1 {
			continue
		}
		count++
		tokOff := hiddenOff + s*dim
		for d := int64(0); d < dim; d++ {
			out[d] += hidden[tokOff+d]
		}
	}
	if count == 0 {
		return out
	}
	inv := 1.0 / count
	for d := range out {
		out[d] *= inv
	}
	return out
}

// l2Normalize scales vec to unit length in place. Zero vectors are left as-is.
func l2Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}
