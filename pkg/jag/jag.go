// Package jag reads the resource archives the game client ships its data in.
//
// An archive starts with a six byte header: the body size once decompressed
// and the body size as stored, both 24-bit big-endian. When they differ the
// body is a bzip2 stream with its four byte "BZh1" signature stripped. The
// body is an entry count (16-bit), an index of ten byte entries (32-bit name
// fingerprint, 24-bit size, 24-bit stored size) and then the entry payloads in
// index order, each compressed the same way as the body when its two sizes
// differ.
//
// Entries are found by the fingerprint of their name, never by the name
// itself, which the archive doesn't record.
package jag

import (
	"bytes"
	"compress/bzip2"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nosborn/idcodec/pkg/fingerprint"
)

var (
	ErrCorrupt  = errors.New("corrupt archive")
	ErrNotFound = errors.New("entry not found")
)

const (
	headerSize = 6
	entrySize  = 10
)

// bzip2Magic is what the archive writer strips from every stream.
var bzip2Magic = []byte("BZh1")

type Entry struct {
	Hash       int32
	Size       int
	StoredSize int
	Offset     int // of the stored payload, from the start of the body
}

func (e Entry) Compressed() bool {
	return e.Size != e.StoredSize
}

type Archive struct {
	body    []byte
	entries []Entry
	byHash  map[int32]int
}

// Open parses an archive held in memory. The whole body is decompressed up
// front if it was stored compressed; entry payloads are left as stored until
// read.
func Open(data []byte) (*Archive, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrCorrupt, len(data))
	}
	size := u24(data[0:])
	storedSize := u24(data[3:])
	data = data[headerSize:]

	if len(data) != storedSize {
		return nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrCorrupt, len(data), storedSize)
	}

	body := data
	if size != storedSize {
		var err error
		body, err = unpack(data, size)
		if err != nil {
			return nil, fmt.Errorf("archive body: %w", err)
		}
	}

	return parse(body)
}

func parse(body []byte) (*Archive, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: no entry count", ErrCorrupt)
	}
	count := int(binary.BigEndian.Uint16(body))
	offset := 2 + count*entrySize
	if len(body) < offset {
		return nil, fmt.Errorf("%w: index of %d entries truncated", ErrCorrupt, count)
	}

	a := &Archive{
		body:    body,
		entries: make([]Entry, 0, count),
		byHash:  make(map[int32]int, count),
	}
	for i := 0; i < count; i++ {
		p := body[2+i*entrySize:]
		e := Entry{
			Hash:       int32(binary.BigEndian.Uint32(p)),
			Size:       u24(p[4:]),
			StoredSize: u24(p[7:]),
			Offset:     offset,
		}
		if offset+e.StoredSize > len(body) {
			return nil, fmt.Errorf("%w: entry %d runs past end of archive", ErrCorrupt, i)
		}
		offset += e.StoredSize

		// First one wins on a fingerprint collision.
		if _, ok := a.byHash[e.Hash]; !ok {
			a.byHash[e.Hash] = len(a.entries)
		}
		a.entries = append(a.entries, e)
	}
	return a, nil
}

func (a *Archive) Len() int {
	return len(a.entries)
}

// Entries returns the index in archive order.
func (a *Archive) Entries() []Entry {
	return append([]Entry(nil), a.entries...)
}

// Lookup finds the entry for name, ignoring case.
func (a *Archive) Lookup(name string) (Entry, bool) {
	i, ok := a.byHash[fingerprint.Resource(name)]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Read returns the decompressed payload of the entry for name.
func (a *Archive) Read(name string) ([]byte, error) {
	e, ok := a.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	stored := a.body[e.Offset : e.Offset+e.StoredSize]
	if !e.Compressed() {
		return bytes.Clone(stored), nil
	}
	data, err := unpack(stored, e.Size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// unpack decompresses a headerless bzip2 stream that must yield exactly size
// bytes.
func unpack(stored []byte, size int) ([]byte, error) {
	r := bzip2.NewReader(io.MultiReader(bytes.NewReader(bzip2Magic), bytes.NewReader(stored)))

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if n, _ := r.Read(make([]byte, 1)); n != 0 {
		return nil, fmt.Errorf("%w: more than %d bytes decompressed", ErrCorrupt, size)
	}
	return data, nil
}

func u24(b []byte) int {
	return int(b[0])<<16 | int(b[1])<<8 | int(b[2])
}
