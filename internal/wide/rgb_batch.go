package wide

// Side is the edge length, in pixels, of the square a 64-lane batch covers.
const Side = 8

// RGBBatch holds 64 opaque RGB pixels for batch processing.
// Uses Structure-of-Arrays (SoA) layout for SIMD-friendly access.
//
// Lane k covers pixel (k%Side, k/Side) of an 8x8 square, so the batch maps
// one-to-one onto the sub-samples of a fractal block.
//
//	R: [R0, R1, R2, ..., R63]
//	G: [G0, G1, G2, ..., G63]
//	B: [B0, B1, B2, ..., B63]
type RGBBatch struct {
	R, G, B [Width]uint8
}

// Set stores one pixel color into lane k.
func (b *RGBBatch) Set(k int, r, g, bl uint8) {
	b.R[k] = r
	b.G[k] = g
	b.B[k] = bl
}

// StoreSquare scatters the batch into an RGBA byte buffer as an 8x8 square.
// dst starts at the square's top-left pixel and stride is the byte length
// of one buffer row. Alpha is written as 255.
// dst must hold at least 7*stride + 32 bytes.
func (b *RGBBatch) StoreSquare(dst []byte, stride int) {
	for row := 0; row < Side; row++ {
		line := dst[row*stride : row*stride+Side*4]
		for col := 0; col < Side; col++ {
			k := row*Side + col
			offset := col * 4
			line[offset+0] = b.R[k]
			line[offset+1] = b.G[k]
			line[offset+2] = b.B[k]
			line[offset+3] = 255
		}
	}
}
