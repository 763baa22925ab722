package detour

import (
	"encoding/binary"
	"io"
)

// TileRef is a reference to a tile of the navigation mesh.
type TileRef uint32

type navMeshTileHeader struct {
	TileRef  TileRef
	DataSize int32
}

// WriteTo writes h's binary representation to w.
func (h *navMeshTileHeader) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return 0, err
	}
	return int64(h.Size()), nil
}

// Size returns the number of bytes h occupies once serialized.
func (h *navMeshTileHeader) Size() int32 {
	return int32(binary.Size(*h))
}
