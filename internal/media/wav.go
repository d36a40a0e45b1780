package media

import (
	"bytes"
	"encoding/binary"
)

// WAV container parameters for synthesized counselor speech. The TTS service
// returns raw little-endian PCM at these settings.
const (
	WAVChannels   = 1
	WAVSampleRate = 24000
	WAVBitDepth   = 16

	wavHeaderSize = 44
)

// EncodeWAV wraps raw PCM samples in a WAV container using the fixed
// mono/24kHz/16-bit parameters. The result is exactly 44 bytes of header
// followed by the PCM data unchanged.
func EncodeWAV(pcm []byte) []byte {
	return EncodeWAVParams(pcm, WAVChannels, WAVSampleRate, WAVBitDepth)
}

// EncodeWAVParams wraps raw PCM samples in a WAV container with the given
// channel count, sample rate, and bit depth.
func EncodeWAVParams(pcm []byte, channels, sampleRate, bitDepth int) []byte {
	blockAlign := channels * bitDepth / 8
	byteRate := sampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitDepth))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
