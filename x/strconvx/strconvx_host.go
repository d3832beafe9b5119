//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// Signature parity with strconv; delegate straight through.

func Atoi(s string) (int, error)                            { return strconv.Atoi(s) }
func ParseInt(s string, base, bitSize int) (int64, error)   { return strconv.ParseInt(s, base, bitSize) }
func ParseUint(s string, base, bitSize int) (uint64, error) { return strconv.ParseUint(s, base, bitSize) }
