package sample

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

// Encode appends values in the range [-1.0, 1.0] to dst as raw
// little-endian samples of the given format.
func Encode(format types.SampleFormat, dst []byte, values ...float64) []byte {
	for _, v := range values {
		switch format {
		case types.SampleFormatFloat32:
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
		case types.SampleFormatSignedInt16:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(int16(math.Round(v*math.MaxInt16))))
		case types.SampleFormatUnsignedInt16:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(math.Round(v*math.MaxInt16)+unsignedInt16Midpoint))
		default:
			panic(fmt.Errorf("do not know how to encode samples of format %s", format))
		}
	}
	return dst
}
