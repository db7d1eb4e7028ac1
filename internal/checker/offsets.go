package checker

import "unicode/utf8"

// offsetMap converts byte offsets into offsets in the requested encoding.
// For UTF-8 it is the identity; for UTF-16 it counts code units.
type offsetMap struct {
	encoding Encoding
	// byteToUnit[i] is the UTF-16 code unit offset of byte i. Continuation
	// bytes map to the offset of the rune they belong to.
	byteToUnit []int
}

func newOffsetMap(text string, encoding Encoding) *offsetMap {
	m := &offsetMap{encoding: encoding}
	if encoding != EncodingUTF16 {
		return m
	}

	m.byteToUnit = make([]int, len(text)+1)
	units := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		for j := 0; j < size; j++ {
			m.byteToUnit[i+j] = units
		}
		if r >= 0x10000 {
			units += 2 // surrogate pair
		} else {
			units++
		}
		i += size
	}
	m.byteToUnit[len(text)] = units
	return m
}

// convert maps a byte offset to the target encoding offset.
func (m *offsetMap) convert(byteOff int) int {
	if m.encoding != EncodingUTF16 {
		return byteOff
	}
	if byteOff < 0 {
		return 0
	}
	if byteOff >= len(m.byteToUnit) {
		return m.byteToUnit[len(m.byteToUnit)-1]
	}
	return m.byteToUnit[byteOff]
}
