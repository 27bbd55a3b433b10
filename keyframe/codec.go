package keyframe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/pierrec/lz4/v4"
)

// Magic opens every clip file. The rest of the file is an lz4 frame.
const Magic = "KFRM"

const (
	formatVersion = 2
	maxVertices   = 1 << 16
	maxFrames     = 4096
	maxFaces      = 3 << 18
)

var ErrBadMagic = errors.New("keyframe: not a clip file")

type header struct {
	Version       uint16
	_             uint16
	VertexCount   uint32
	FrameCount    uint32
	FaceCount     uint32
	FrameDuration uint64 // nanoseconds
	Color         [3]float32
}

// Encode writes c to w. The clip is validated first.
func Encode(w io.Writer, c *Clip) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}

	zw := lz4.NewWriter(w)
	h := header{
		Version:       formatVersion,
		VertexCount:   uint32(c.VertexCount),
		FrameCount:    uint32(len(c.Frames)),
		FaceCount:     uint32(len(c.Faces)),
		FrameDuration: uint64(c.FrameDuration),
		Color:         c.Color,
	}
	if err := binary.Write(zw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, f := range c.Frames {
		if err := binary.Write(zw, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	if err := binary.Write(zw, binary.LittleEndian, c.Faces); err != nil {
		return fmt.Errorf("write faces: %w", err)
	}
	return zw.Close()
}

// Decode reads a clip written by Encode.
func Decode(r io.Reader) (*Clip, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if !bytes.Equal(magic, []byte(Magic)) {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, magic)
	}

	zr := lz4.NewReader(r)
	var h header
	if err := binary.Read(zr, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("keyframe: unsupported version %d", h.Version)
	}
	if h.VertexCount > maxVertices || h.FrameCount > maxFrames {
		return nil, fmt.Errorf("%w: %d vertices x %d frames", ErrInvalidClip, h.VertexCount, h.FrameCount)
	}
	if h.FaceCount > maxFaces {
		return nil, fmt.Errorf("%w: %d face indices", ErrInvalidClip, h.FaceCount)
	}
	if h.FrameDuration > math.MaxInt64 {
		return nil, fmt.Errorf("%w: frame duration %dns", ErrInvalidClip, h.FrameDuration)
	}

	c := &Clip{
		VertexCount:   int(h.VertexCount),
		Frames:        make([][]float32, h.FrameCount),
		Faces:         make([]uint16, h.FaceCount),
		Color:         h.Color,
		FrameDuration: time.Duration(h.FrameDuration),
	}
	for i := range c.Frames {
		c.Frames[i] = make([]float32, 3*c.VertexCount)
		if err := binary.Read(zr, binary.LittleEndian, c.Frames[i]); err != nil {
			return nil, fmt.Errorf("read frame %d: %w", i, err)
		}
	}
	if err := binary.Read(zr, binary.LittleEndian, c.Faces); err != nil {
		return nil, fmt.Errorf("read faces: %w", err)
	}
	return c, c.Validate()
}
