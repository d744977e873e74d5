package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Digest returns a hex SHA-256 over the terrain, every entity's kind,
// position, direction and claimed instruction, and the outcome. Two worlds with
// the same digest render and evolve identically.
func (w *World) Digest() string {
	h := sha256.New()
	var buf [8]byte
	putInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	putInt(int64(w.terrain.W))
	putInt(int64(w.terrain.H))
	h.Write(w.terrain.Cells())
	w.eachEntity(func(e *Entity) {
		putInt(int64(e.Kind))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e.X))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e.Y))
		h.Write(buf[:])
		putInt(int64(e.Dir))
		if e.Inst != nil {
			h.Write([]byte(e.Inst.String()))
		}
		h.Write([]byte{0})
	})
	putInt(int64(w.outcome))
	return hex.EncodeToString(h.Sum(nil))
}
