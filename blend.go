package scalespace

import "github.com/viterin/vek"

// Weights returns the bilinear weights of the four corner tunings for a
// control point (x, y), where size is the width of the control range (max -
// min). Corner 1 is at (min, max), 2 at (max, max), 3 at (min, min) and 4 at
// (max, min). For any point inside the range the weights sum to 1.
func Weights(x, y, size float64) [4]float64 {
	left, right := 0.5-x/size, 0.5+x/size
	top, bottom := 0.5+y/size, 0.5-y/size
	return [4]float64{
		left * top,
		right * top,
		left * bottom,
		right * bottom,
	}
}

// Blend computes the weighted sum of four frequency tables into dst. tmp is
// scratch space, so that blending never allocates.
func Blend(dst *FrequencyTable, tables [4]*[NumNotes]float64, w [4]float64, tmp *FrequencyTable) {
	vek.MulNumber_Into(dst[:], tables[0][:], w[0])
	for i := 1; i < len(tables); i++ {
		vek.MulNumber_Into(tmp[:], tables[i][:], w[i])
		vek.Add_Inplace(dst[:], tmp[:])
	}
}
