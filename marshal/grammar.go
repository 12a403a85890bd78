// Copyright (C) 2024 BlueSkeye
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package marshal

// Packed wire grammar. Every byte of a valid stream is non-zero, so a
// zero byte stays available to transport layers as a record
// separator.
//
// Record headers look like:
//
//	01xiiiii  element start
//	10xiiiii  element end
//	11xiiiii  attribute start
//
// where iiiii is the id itself when it fits in 5 bits. Otherwise x is
// set, iiiii holds the id's high 5 bits and one follow-on byte
// 1iiiiiii supplies its low 7 bits (12 bits total).
//
// An attribute header is followed by a type byte ttttllll: a 4-bit
// type code and a 4-bit length code counting the follow-on payload
// bytes. Payload bytes carry 7 bits each, most significant first,
// with the high bit always set. A length code of 0 encodes the
// integer 0 with no payload. For strings the encoded integer is the
// byte length of the string, whose raw UTF-8 bytes follow.
const (
	headerMask   = 0xc0 // bits selecting the record kind
	elementStart = 0x40
	elementEnd   = 0x80
	attribute    = 0xc0

	headerExtendMask = 0x20 // id continues into the next byte
	headerIDMask     = 0x1f // id bits held in the header byte

	rawDataMask        = 0x7f // payload bits in a follow-on byte
	rawDataBitsPerByte = 7
	rawDataMarker      = 0x80 // the always-set bit in follow-on bytes

	typeCodeShift  = 4
	lengthCodeMask = 0xf

	typeCodeBool         = 1
	typeCodeSignedPos    = 2 // unsigned magnitude
	typeCodeSignedNeg    = 3 // negated magnitude
	typeCodeUnsigned     = 4
	typeCodeAddressSpace = 5 // index into the address space table
	typeCodeSpecialSpace = 6 // length code selects the space
	typeCodeString       = 7

	specialSpaceStack     = 0
	specialSpaceJoin      = 1
	specialSpaceFspec     = 2
	specialSpaceIop       = 3
	specialSpaceSpacebase = 4

	// A 64-bit value needs at most ten 7-bit groups. Larger length
	// codes are a format error.
	maxIntegerLen = 10
)
