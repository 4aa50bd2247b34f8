// Package wire provides the EMCU frame format.
package wire

// Frames are sent from the host driver to the EMCU over a byte oriented
// link (usually the USB CDC serial port of the board). Each frame carries
// exactly one command for one module of the EMCU:
//
//	HEADER(2) LENGTH(2) MODULE(1) PAYLOAD(LENGTH) CRC(4)
//
// All multi-byte integers are big-endian. LENGTH counts payload bytes only.
// CRC is the reflected CRC-32 (IEEE) of the frame body, accumulated with an
// exclusion window at the front so the constant link header is never part
// of the integrity check.
//
// There's no framing on the way back: the EMCU replies with raw bytes
// terminated by a newline.
//
// Producer: host driver
// Consumer: EMCU firmware
