package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joshuapare/nvkit/internal/format"
	"github.com/joshuapare/nvkit/item"
)

// codec converts between manifest text and an item's raw bytes.
type codec struct {
	size   int
	encode func(dst []byte, s string) error
	decode func(b []byte) string
}

func intCodec(size int, signed bool) codec {
	bits := size * 8
	return codec{
		size: size,
		encode: func(dst []byte, s string) error {
			var u uint64
			if signed {
				n, err := strconv.ParseInt(strings.TrimSpace(s), 0, bits)
				if err != nil {
					return fmt.Errorf("%w: %v", format.ErrBadValue, err)
				}
				u = uint64(n)
			} else {
				n, err := strconv.ParseUint(strings.TrimSpace(s), 0, bits)
				if err != nil {
					return fmt.Errorf("%w: %v", format.ErrBadValue, err)
				}
				u = n
			}
			putUint(dst, u)
			return nil
		},
		decode: func(b []byte) string {
			u := getUint(b)
			if signed {
				shift := 64 - bits
				return strconv.FormatInt(int64(u<<shift)>>shift, 10)
			}
			return strconv.FormatUint(u, 10)
		},
	}
}

func floatCodec(size int) codec {
	bits := size * 8
	return codec{
		size: size,
		encode: func(dst []byte, s string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
			if err != nil {
				return fmt.Errorf("%w: %v", format.ErrBadValue, err)
			}
			if bits == 32 {
				binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(f)))
			} else {
				binary.LittleEndian.PutUint64(dst, math.Float64bits(f))
			}
			return nil
		},
		decode: func(b []byte) string {
			if bits == 32 {
				return strconv.FormatFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), 'g', -1, 32)
			}
			return strconv.FormatFloat(math.Float64frombits(binary.LittleEndian.Uint64(b)), 'g', -1, 64)
		},
	}
}

var boolCodec = codec{
	size: 1,
	encode: func(dst []byte, s string) error {
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%w: %v", format.ErrBadValue, err)
		}
		dst[0] = 0
		if v {
			dst[0] = 1
		}
		return nil
	},
	decode: func(b []byte) string { return strconv.FormatBool(b[0] != 0) },
}

func textCodec(capacity int) codec {
	return codec{
		size: capacity,
		encode: func(dst []byte, s string) error {
			copy(dst, item.EncodeText(s, len(dst)))
			return nil
		},
		decode: item.DecodeText,
	}
}

func bytesCodec(capacity int) codec {
	return codec{
		size: capacity,
		encode: func(dst []byte, s string) error {
			raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
			if err != nil {
				return fmt.Errorf("%w: %v", format.ErrBadValue, err)
			}
			if len(raw) > len(dst) {
				return fmt.Errorf("%w: %d bytes exceed capacity %d", format.ErrBadValue, len(raw), len(dst))
			}
			clear(dst)
			copy(dst, raw)
			return nil
		},
		decode: hex.EncodeToString,
	}
}

// codecFor returns the codec for spec's type.
func codecFor(spec ItemSpec) (codec, error) {
	switch strings.ToLower(spec.Type) {
	case "u8", "uint8", "byte":
		return intCodec(1, false), nil
	case "u16", "uint16", "word":
		return intCodec(2, false), nil
	case "u32", "uint32":
		return intCodec(4, false), nil
	case "u64", "uint64":
		return intCodec(8, false), nil
	case "i8", "int8":
		return intCodec(1, true), nil
	case "i16", "int16":
		return intCodec(2, true), nil
	case "i32", "int32":
		return intCodec(4, true), nil
	case "i64", "int64":
		return intCodec(8, true), nil
	case "f32", "float32":
		return floatCodec(4), nil
	case "f64", "float64":
		return floatCodec(8), nil
	case "bool":
		return boolCodec, nil
	case "text", "string":
		if spec.Capacity <= 0 {
			return codec{}, fmt.Errorf("%w: text needs a positive capacity", format.ErrBadValue)
		}
		return textCodec(spec.Capacity), nil
	case "bytes":
		if spec.Capacity <= 0 {
			return codec{}, fmt.Errorf("%w: bytes needs a positive capacity", format.ErrBadValue)
		}
		return bytesCodec(spec.Capacity), nil
	default:
		return codec{}, fmt.Errorf("%w: %q", format.ErrUnknownType, spec.Type)
	}
}

func putUint(dst []byte, u uint64) {
	for i := range dst {
		dst[i] = byte(u >> (8 * i))
	}
}

func getUint(b []byte) uint64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return u
}
