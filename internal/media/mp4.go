package media

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
)

// MP4Prober reads the movie header of ISO base media files (mp4, m4v, mov).
type MP4Prober struct{}

func (MP4Prober) Probe(ctx context.Context, r io.ReadSeeker) (float64, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	moov, moovEnd, err := findBox(r, 0, end, "moov")
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	mvhd, _, err := findBox(r, moov, moovEnd, "mvhd")
	if err != nil {
		return 0, err
	}
	return readMvhd(r, mvhd)
}

// findBox scans sibling boxes in [start, end) and returns the payload bounds
// of the first box of the given type.
func findBox(r io.ReadSeeker, start, end int64, want string) (int64, int64, error) {
	var hdr [8]byte
	pos := start
	for pos+8 <= end {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return 0, 0, err
		}
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, 0, fmt.Errorf("mp4: read box header: %w", err)
		}
		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		typ := string(hdr[4:8])
		headerLen := int64(8)
		switch size {
		case 0:
			size = end - pos
		case 1:
			var large [8]byte
			if _, err := io.ReadFull(r, large[:]); err != nil {
				return 0, 0, fmt.Errorf("mp4: read large size: %w", err)
			}
			size = int64(binary.BigEndian.Uint64(large[:]))
			headerLen = 16
		}
		if size < headerLen || pos+size > end {
			return 0, 0, fmt.Errorf("mp4: corrupt %q box at %d", typ, pos)
		}
		if typ == want {
			return pos + headerLen, pos + size, nil
		}
		pos += size
	}
	return 0, 0, fmt.Errorf("%w: no %s box", ErrNoDuration, want)
}

func readMvhd(r io.ReadSeeker, payload int64) (float64, error) {
	if _, err := r.Seek(payload, io.SeekStart); err != nil {
		return 0, err
	}
	var vf [4]byte
	if _, err := io.ReadFull(r, vf[:]); err != nil {
		return 0, fmt.Errorf("mp4: read mvhd version: %w", err)
	}
	var timescale uint32
	var duration uint64
	if vf[0] == 1 {
		var b [28]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, fmt.Errorf("mp4: read mvhd: %w", err)
		}
		timescale = binary.BigEndian.Uint32(b[16:20])
		duration = binary.BigEndian.Uint64(b[20:28])
	} else {
		var b [16]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, fmt.Errorf("mp4: read mvhd: %w", err)
		}
		timescale = binary.BigEndian.Uint32(b[8:12])
		duration = uint64(binary.BigEndian.Uint32(b[12:16]))
	}
	if timescale == 0 {
		return 0, fmt.Errorf("%w: zero timescale", ErrNoDuration)
	}
	return float64(duration) / float64(timescale), nil
}
