package wide

// Mask64 holds one boolean per lane of a F32x64, lane i in bit i.
type Mask64 uint64

// MaskAll has every lane set.
const MaskAll = Mask64(^uint64(0))

// And returns the lanes set in both m and other.
func (m Mask64) And(other Mask64) Mask64 { return m & other }

// AndNot returns the lanes set in m and clear in other.
func (m Mask64) AndNot(other Mask64) Mask64 { return m &^ other }

// Any reports whether at least one lane is set.
func (m Mask64) Any() bool { return m != 0 }
