package aica

// Pan encodes a pan position, from -15 (full right) to 15 (full left), in
// the 5-bit sign-magnitude form used by the pan fields. Values beyond the
// range are clamped.
func Pan(v int) uint32 {
	switch {
	case v > 15:
		v = 15
	case v < -15:
		v = -15
	}
	if v < 0 {
		return 0x10 | uint32(-v)
	}
	return uint32(v)
}

// PanValue decodes a 5-bit sign-magnitude pan field. Both 0x00 and 0x10 are
// centered.
func PanValue(raw uint32) int {
	mag := int(raw & 0x0f)
	if raw&0x10 != 0 {
		return -mag
	}
	return mag
}
