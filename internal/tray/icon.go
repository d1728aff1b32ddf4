package tray

import "encoding/binary"

var (
	idleIcon      = dotIcon(0x80, 0x80, 0x80)
	listeningIcon = dotIcon(0xD0, 0x20, 0x20)
)

// dotIcon builds a 16x16 32-bit ICO with a filled circle of the given color
func dotIcon(r, g, b byte) []byte {
	const (
		size       = 16
		headerLen  = 6 + 16
		dibLen     = 40
		pixelLen   = size * size * 4
		maskLen    = size * 4 // 1bpp rows padded to 32 bits
		imageBytes = dibLen + pixelLen + maskLen
	)

	icon := make([]byte, headerLen+imageBytes)
	le := binary.LittleEndian

	// ICONDIR
	le.PutUint16(icon[2:], 1) // type: icon
	le.PutUint16(icon[4:], 1) // one image

	// ICONDIRENTRY
	icon[6] = size
	icon[7] = size
	le.PutUint16(icon[10:], 1)  // planes
	le.PutUint16(icon[12:], 32) // bpp
	le.PutUint32(icon[14:], imageBytes)
	le.PutUint32(icon[18:], headerLen)

	// BITMAPINFOHEADER, height doubled for the AND mask
	dib := icon[headerLen:]
	le.PutUint32(dib[0:], dibLen)
	le.PutUint32(dib[4:], size)
	le.PutUint32(dib[8:], size*2)
	le.PutUint16(dib[12:], 1)
	le.PutUint16(dib[14:], 32)
	le.PutUint32(dib[20:], pixelLen+maskLen)

	// BGRA pixels, bottom-up
	pixels := dib[dibLen:]
	const c, r2 = 7.5, 6.5 * 6.5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy > r2 {
				continue
			}
			p := pixels[(y*size+x)*4:]
			p[0], p[1], p[2], p[3] = b, g, r, 0xFF
		}
	}
	return icon
}
