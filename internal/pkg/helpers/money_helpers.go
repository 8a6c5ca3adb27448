package helpers

import "math"

// ToMinorUnits converts a price in major currency units to minor units
// (e.g. 20.00 => 2000). Rounds to the nearest minor unit to absorb
// floating point noise.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
