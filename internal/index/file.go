package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// On-disk format, little-endian:
//
//	4 bytes  magic "TMFI"
//	uint32   version (1)
//	uint32   dimension
//	uint32   count
//	count*dimension float32 vector data, row-major
const (
	fileMagic   = "TMFI"
	fileVersion = 1
)

// WriteFile serializes the index to path, replacing any existing file.
func (ix *FlatIndex) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := ix.write(f); err != nil {
		return fmt.Errorf("write index file %s: %w", path, err)
	}
	return f.Close()
}

func (ix *FlatIndex) write(w io.Writer) error {
	if _, err := w.Write([]byte(fileMagic)); err != nil {
		return err
	}
	header := []uint32{fileVersion, uint32(ix.dim), uint32(len(ix.vectors))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	buf := make([]byte, 4)
	for _, vec := range ix.vectors {
		for _, x := range vec {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile loads an index previously written by WriteFile.
func ReadFile(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ix, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("read index file %s: %w", path, err)
	}
	return ix, nil
}

func read(r io.Reader) (*FlatIndex, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != fileMagic {
		return nil, fmt.Errorf("bad magic %q", magic)
	}
	var version, dim, count uint32
	for _, dst := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, err
		}
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported version %d", version)
	}
	ix := &FlatIndex{dim: int(dim)}
	buf := make([]byte, 4)
	for i := uint32(0); i < count; i++ {
		vec := make([]float32, dim)
		for j := range vec {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("vector %d: %w", i, err)
			}
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf))
		}
		ix.vectors = append(ix.vectors, vec)
	}
	return ix, nil
}
