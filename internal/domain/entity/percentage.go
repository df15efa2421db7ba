package entity

import "math"

// SpeedRange is an inclusive range of discrete speed levels. Off is not part
// of the range.
type SpeedRange struct {
	Low  int
	High int
}

// States returns the number of levels in the range.
func (r SpeedRange) States() int {
	return r.High - r.Low + 1
}

// ToRangedValue maps a percentage onto the range. The result is fractional;
// callers pick the rounding.
func (r SpeedRange) ToRangedValue(percentage int) float64 {
	offset := r.Low - 1
	return float64(offset) + float64(r.States()*percentage)/100
}

// ToPercentage maps a level back to a percentage.
func (r SpeedRange) ToPercentage(value int) int {
	offset := r.Low - 1
	return (value - offset) * 100 / r.States()
}

// Level returns the discrete level a non-zero percentage selects.
func (r SpeedRange) Level(percentage int) int {
	return int(math.Ceil(r.ToRangedValue(percentage)))
}
