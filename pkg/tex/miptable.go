package tex

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// MipEntrySize is the binary size of a MipEntry.
	MipEntrySize = 16 // 8 + 4 + 4 bytes
	// CompressionInfoSize is the binary size of a CompressionInfo.
	CompressionInfoSize = 8 // 4 + 4 bytes
)

// MipEntry describes the logical layout of one mip level.
type MipEntry struct {
	Offset           uint64 // informational, not used to locate data
	ScanlineLength   uint32
	UncompressedSize uint32 // bytes per depth slice
}

// EncodeTo writes the entry to the given buffer.
// The buffer must be at least MipEntrySize bytes.
func (e *MipEntry) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], e.Offset)
	binary.LittleEndian.PutUint32(buf[8:12], e.ScanlineLength)
	binary.LittleEndian.PutUint32(buf[12:16], e.UncompressedSize)
}

// DecodeFrom reads the entry from the given buffer.
func (e *MipEntry) DecodeFrom(buf []byte) {
	e.Offset = binary.LittleEndian.Uint64(buf[0:8])
	e.ScanlineLength = binary.LittleEndian.Uint32(buf[8:12])
	e.UncompressedSize = binary.LittleEndian.Uint32(buf[12:16])
}

// CompressionInfo locates a mip's bytes inside the data blob.
type CompressionInfo struct {
	CompressedSize   uint32
	CompressedOffset uint32 // relative to the start of the blob
}

// EncodeTo writes the record to the given buffer.
// The buffer must be at least CompressionInfoSize bytes.
func (c *CompressionInfo) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], c.CompressedSize)
	binary.LittleEndian.PutUint32(buf[4:8], c.CompressedOffset)
}

// DecodeFrom reads the record from the given buffer.
func (c *CompressionInfo) DecodeFrom(buf []byte) {
	c.CompressedSize = binary.LittleEndian.Uint32(buf[0:4])
	c.CompressedOffset = binary.LittleEndian.Uint32(buf[4:8])
}

// End returns the blob offset one past the last byte of the record's range.
func (c *CompressionInfo) End() uint64 {
	return uint64(c.CompressedOffset) + uint64(c.CompressedSize)
}

// MipTableSize returns the size of n entries followed by n compression infos.
func MipTableSize(n int) int {
	return n * (MipEntrySize + CompressionInfoSize)
}

// ReadMipTable decodes n MipEntry records followed by n CompressionInfo
// records from the start of data.
func ReadMipTable(data []byte, n int) ([]MipEntry, []CompressionInfo, error) {
	if len(data) < MipTableSize(n) {
		return nil, nil, fmt.Errorf("read mip table: %d records need %d bytes, got %d: %w",
			n, MipTableSize(n), len(data), io.ErrUnexpectedEOF)
	}

	entries := make([]MipEntry, n)
	for i := range entries {
		entries[i].DecodeFrom(data[i*MipEntrySize:])
	}

	infoStart := n * MipEntrySize
	infos := make([]CompressionInfo, n)
	for i := range infos {
		infos[i].DecodeFrom(data[infoStart+i*CompressionInfoSize:])
	}

	return entries, infos, nil
}

// AppendMipTable appends the entry table followed by the compression info
// table to buf.
func AppendMipTable(buf []byte, entries []MipEntry, infos []CompressionInfo) ([]byte, error) {
	if len(entries) != len(infos) {
		return nil, fmt.Errorf("%w: %d mip entries but %d compression infos", ErrInternal, len(entries), len(infos))
	}

	start := len(buf)
	buf = append(buf, make([]byte, MipTableSize(len(entries)))...)
	table := buf[start:]

	for i := range entries {
		entries[i].EncodeTo(table[i*MipEntrySize:])
	}
	infoStart := len(entries) * MipEntrySize
	for i := range infos {
		infos[i].EncodeTo(table[infoStart+i*CompressionInfoSize:])
	}

	return buf, nil
}
