package hwio

// ReplaceBits clears mask in *v then sets the bits of val that fall in mask.
func ReplaceBits(v *uint32, mask, val uint32) {
	*v = *v&^mask | val&mask
}
