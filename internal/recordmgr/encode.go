package recordmgr

import "math"

func bitsToFloat32(bits uint32) float32 { return math.Float32frombits(bits) }
func float32ToBits(f float32) uint32    { return math.Float32bits(f) }
