package audio

import (
	"encoding/binary"
	"math"
)

// ResampleLinear converts in from inSR to outSR using linear
// interpolation. Good enough for speech at the transport boundary.
func ResampleLinear(in []float32, inSR, outSR int) []float32 {
	if inSR == outSR || len(in) == 0 {
		return in
	}
	ratio := float64(outSR) / float64(inSR)
	outN := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, outN)
	for i := 0; i < outN; i++ {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		i1 := i0 + 1
		if i0 >= len(in) {
			out[i] = in[len(in)-1]
			continue
		}
		if i1 >= len(in) {
			out[i] = in[i0]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i1]*a
	}
	return out
}

// BytesToInt16 decodes PCM16LE bytes. A trailing odd byte is dropped.
func BytesToInt16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return out
}

// Int16ToBytes encodes samples as PCM16LE.
func Int16ToBytes(s []int16) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(v))
	}
	return out
}

// Int16ToFloat32 scales 16-bit PCM into [-1, 1].
func Int16ToFloat32(s []int16) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = float32(v) / (1 << 15)
	}
	return out
}

// Float32ToInt16 clamps and scales normalized samples to 16-bit PCM.
func Float32ToInt16(f []float32) []int16 {
	out := make([]int16, len(f))
	for i, v := range f {
		x := float64(v) * (1 << 15)
		if x > math.MaxInt16 {
			x = math.MaxInt16
		}
		if x < math.MinInt16 {
			x = math.MinInt16
		}
		out[i] = int16(x)
	}
	return out
}

// Float32ToBytes encodes normalized samples as little-endian IEEE 754,
// the wire format for browser-originated audio.
func Float32ToBytes(f []float32) []byte {
	out := make([]byte, len(f)*4)
	for i, v := range f {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(v))
	}
	return out
}

// BytesToFloat32 decodes little-endian IEEE 754 samples.
func BytesToFloat32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	return out
}
