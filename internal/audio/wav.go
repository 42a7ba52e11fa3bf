package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// wavHeader holds metadata extracted from a WAV file's fmt chunk.
type wavHeader struct {
	SampleRate    int
	NumChannels   int
	BitsPerSample int
}

// chunkWalker steps through a RIFF file's chunks one at a time, mirroring
// the block-at-a-time shape the rest of this package's Source/Sink
// streaming uses rather than parsing the whole chunk list in one pass.
type chunkWalker struct {
	data []byte
	pos  int
}

func newChunkWalker(data []byte) *chunkWalker {
	return &chunkWalker{data: data, pos: 12}
}

// next returns the next chunk's ID and body, advancing past it (including
// its word-alignment pad byte), or ok=false once the data is exhausted.
func (w *chunkWalker) next() (id string, body []byte, ok bool) {
	if w.pos+8 > len(w.data) {
		return "", nil, false
	}
	id = string(w.data[w.pos : w.pos+4])
	size := int(binary.LittleEndian.Uint32(w.data[w.pos+4 : w.pos+8]))
	start := w.pos + 8
	end := start + size
	if end > len(w.data) {
		end = len(w.data)
	}
	body = w.data[start:end]

	w.pos = start + size
	if size%2 != 0 {
		w.pos++
	}
	return id, body, true
}

func parseFmtChunk(body []byte) (*wavHeader, error) {
	if len(body) < 16 {
		return nil, errors.New("wav: fmt chunk too small")
	}
	audioFormat := binary.LittleEndian.Uint16(body[0:2])
	if audioFormat != 1 {
		return nil, fmt.Errorf("wav: unsupported audio format %d (only PCM/1 supported)", audioFormat)
	}
	h := &wavHeader{
		NumChannels:   int(binary.LittleEndian.Uint16(body[2:4])),
		SampleRate:    int(binary.LittleEndian.Uint32(body[4:8])),
		BitsPerSample: int(binary.LittleEndian.Uint16(body[14:16])),
	}
	if h.BitsPerSample != 16 {
		return nil, fmt.Errorf("wav: unsupported bits per sample %d (only 16 supported)", h.BitsPerSample)
	}
	if h.NumChannels != 1 && h.NumChannels != 2 {
		return nil, fmt.Errorf("wav: unsupported channel count %d (only mono or stereo supported)", h.NumChannels)
	}
	return h, nil
}

// decodeBlockFrames bounds how many PCM frames are decoded and appended to
// the track at a time, so a large file never needs its samples doubled up
// in a scratch array the way a whole-buffer decode would.
const decodeBlockFrames = 4096

// ReadWAVTrack parses a 16-bit PCM WAV file from raw bytes into a Track,
// decoding in fixed-size blocks through Track.Append (its Sink side)
// rather than building one big sample array and downmixing it in a
// second pass. Stereo input is averaged down to mono per frame as it's
// decoded, matching spec §1's mono-track assumption.
func ReadWAVTrack(data []byte) (*Track, error) {
	if len(data) < 12 {
		return nil, errors.New("wav: file too short")
	}
	if string(data[0:4]) != "RIFF" {
		return nil, errors.New("wav: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return nil, errors.New("wav: missing WAVE identifier")
	}

	var header *wavHeader
	var pcm []byte

	walker := newChunkWalker(data)
	for {
		id, body, ok := walker.next()
		if !ok {
			break
		}
		switch id {
		case "fmt ":
			h, err := parseFmtChunk(body)
			if err != nil {
				return nil, err
			}
			header = h
		case "data":
			pcm = body
		}
	}

	if header == nil {
		return nil, errors.New("wav: no fmt chunk found")
	}
	if pcm == nil {
		return nil, errors.New("wav: no data chunk found")
	}

	return decodePCM(header, pcm), nil
}

func decodePCM(h *wavHeader, pcm []byte) *Track {
	bytesPerFrame := 2 * h.NumChannels
	totalFrames := len(pcm) / bytesPerFrame

	track := NewTrack(h.SampleRate, nil)
	block := make([]float64, 0, decodeBlockFrames)

	for i := 0; i < totalFrames; i++ {
		off := i * bytesPerFrame
		var mono float64
		if h.NumChannels == 2 {
			l := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
			r := int16(binary.LittleEndian.Uint16(pcm[off+2 : off+4]))
			mono = (float64(l) + float64(r)) / 2 / 32768.0
		} else {
			s := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
			mono = float64(s) / 32768.0
		}

		block = append(block, mono)
		if len(block) == cap(block) {
			track.Append(block, len(block))
			block = block[:0]
		}
	}
	if len(block) > 0 {
		track.Append(block, len(block))
	}
	return track
}

// WriteWAV encodes t as a 16-bit PCM mono WAV file. The header and sample
// data are written directly into one pre-sized buffer by byte offset
// rather than through a sequence of individual binary.Write calls, so
// encoding a track never allocates per sample.
func WriteWAV(t *Track) []byte {
	samples := t.Samples()
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(t.SampleRate()))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(t.SampleRate()*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		off := 44 + i*2
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(encodeSample(s)))
	}

	return buf
}

func encodeSample(s float64) int16 {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	if s >= 0 {
		return int16(math.Round(s * 32767))
	}
	return int16(math.Round(s * 32768))
}
