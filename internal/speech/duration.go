package speech

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

var errUnknownLength = errors.New("mp3 length unavailable")

// ClipDuration probes a local .wav or .mp3 file.
func ClipDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		d := wav.NewDecoder(f)
		if !d.IsValidFile() {
			return 0, fmt.Errorf("not a wav file: %s", path)
		}
		return d.Duration()
	case ".mp3":
		return MP3Duration(f)
	default:
		return 0, fmt.Errorf("unsupported audio extension %q", filepath.Ext(path))
	}
}

// MP3Duration decodes the stream header and returns the play time.
// The reader is left at an undefined position.
func MP3Duration(r io.ReadSeeker) (time.Duration, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, err
	}
	if d.Length() <= 0 || d.SampleRate() == 0 {
		return 0, errUnknownLength
	}

	// decoded output is 16-bit stereo: 4 bytes per sample frame
	frames := d.Length() / 4
	return time.Duration(frames) * time.Second / time.Duration(d.SampleRate()), nil
}
