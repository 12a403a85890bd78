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

import (
	"bytes"
	"io"
)

// slabSize is the allocation unit for ingested packed input.
const slabSize = 1024

// byteStream holds ingested packed input as a list of byte slabs.
// Slabs are never empty and never relocated, so a position stays
// valid for the life of the stream.
type byteStream struct {
	slabs [][]byte
}

// position is a cursor into a byteStream. A live position always
// points at a real byte; advancing to one past the final byte is the
// "unexpected end of stream" error.
type position struct {
	slab int
	off  int
}

// ingest consumes r until EOF or the first zero byte, whichever comes
// first. At least one byte must be ingested. A single guard byte (an
// element-end header) is appended after the data so structural peeks
// at the end of the document land on a non-start record instead of
// running off the stream.
func (s *byteStream) ingest(r io.Reader) error {
	total := 0
	for {
		buf := make([]byte, slabSize)
		n, err := io.ReadFull(r, buf)
		stop := false
		if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
			n = i
			stop = true
		}
		if n > 0 {
			s.slabs = append(s.slabs, buf[:n])
			total += n
		}
		if stop || err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if total == 0 {
		return &DecoderError{Msg: "empty stream"}
	}
	s.slabs = append(s.slabs, []byte{elementEnd})
	return nil
}

// get returns the byte at p.
func (s *byteStream) get(p position) byte {
	return s.slabs[p.slab][p.off]
}

// getPlus1 returns the byte following p without moving.
func (s *byteStream) getPlus1(p position) (byte, error) {
	p.off++
	if p.off == len(s.slabs[p.slab]) {
		p.slab++
		if p.slab == len(s.slabs) {
			return 0, errUnexpectedEnd
		}
		p.off = 0
	}
	return s.slabs[p.slab][p.off], nil
}

// next returns the byte at p and advances p to the following byte,
// which must exist.
func (s *byteStream) next(p *position) (byte, error) {
	res := s.slabs[p.slab][p.off]
	p.off++
	if p.off == len(s.slabs[p.slab]) {
		p.slab++
		if p.slab == len(s.slabs) {
			return 0, errUnexpectedEnd
		}
		p.off = 0
	}
	return res, nil
}

// advance moves p forward by n bytes. The resulting position must
// point at a real byte.
func (s *byteStream) advance(p *position, n uint64) error {
	for uint64(len(s.slabs[p.slab])-p.off) <= n {
		n -= uint64(len(s.slabs[p.slab]) - p.off)
		p.slab++
		if p.slab == len(s.slabs) {
			return errUnexpectedEnd
		}
		p.off = 0
	}
	p.off += int(n)
	return nil
}

// remaining counts the bytes from p to the end of the stream,
// inclusive of the byte at p.
func (s *byteStream) remaining(p position) uint64 {
	n := uint64(len(s.slabs[p.slab]) - p.off)
	for i := p.slab + 1; i < len(s.slabs); i++ {
		n += uint64(len(s.slabs[i]))
	}
	return n
}

// bytesAt copies n bytes starting at p, advancing p past them.
func (s *byteStream) bytesAt(p *position, n uint64) ([]byte, error) {
	if n >= s.remaining(*p) {
		// The guard byte is not data, so >= rather than >.
		return nil, errUnexpectedEnd
	}
	out := make([]byte, 0, n)
	for n > 0 {
		slab := s.slabs[p.slab][p.off:]
		if uint64(len(slab)) > n {
			slab = slab[:n]
		}
		out = append(out, slab...)
		n -= uint64(len(slab))
		if err := s.advance(p, uint64(len(slab))); err != nil {
			return nil, err
		}
	}
	return out, nil
}
