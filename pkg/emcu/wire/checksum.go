package wire

import (
	"encoding/binary"
	"hash/crc32"
)

// ChecksumSize is the size of the trailing checksum.
const ChecksumSize = 4

// Default exclusion window: link header and length field.
const (
	DefaultExcludeStart = 0
	DefaultExcludeEnd   = 4
)

// Checksum calculates the CRC-32 (IEEE, reflected) of data. Bytes at
// indices in [excludeStart, excludeEnd) are not fed into the CRC at all.
// The window is clamped to data, an empty or inverted window excludes nothing.
func Checksum(data []byte, excludeStart, excludeEnd int) uint32 {
	s, e := clampWindow(len(data), excludeStart, excludeEnd)
	crc := crc32.Update(0, crc32.IEEETable, data[:s])
	return crc32.Update(crc, crc32.IEEETable, data[e:])
}

// AppendChecksum returns a copy of data with the big-endian checksum appended.
func AppendChecksum(data []byte, excludeStart, excludeEnd int) []byte {
	out := make([]byte, len(data), len(data)+ChecksumSize)
	copy(out, data)
	return binary.BigEndian.AppendUint32(out, Checksum(data, excludeStart, excludeEnd))
}

// AppendDefaultChecksum is AppendChecksum with the default exclusion window.
func AppendDefaultChecksum(data []byte) []byte {
	return AppendChecksum(data, DefaultExcludeStart, DefaultExcludeEnd)
}

func clampWindow(size, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > size {
		start = size
	}
	if end > size {
		end = size
	}
	if end < start {
		end = start
	}
	return start, end
}
