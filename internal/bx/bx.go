// Package bx holds small fixed-width byte encode/decode helpers used by the
// record manager's page and record encoding.
package bx

import "encoding/binary"

var LE = binary.LittleEndian

func U32(b []byte) uint32       { return LE.Uint32(b) }
func I32(b []byte) int32        { return int32(LE.Uint32(b)) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutI32(b []byte, v int32)  { LE.PutUint32(b, uint32(v)) }
