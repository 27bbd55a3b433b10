// Command bakeclip writes the procedural bird clip to a file the keyframe
// viewer can load with --clip.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pgrlab/asteroids/keyframe"
	flag "github.com/spf13/pflag"
)

const clipExt = ".kfrm.lz4"

func main() {
	out := flag.StringP("out", "o", "bird"+clipExt, "output file")
	frames := flag.IntP("frames", "n", 11, "number of poses")
	frameDuration := flag.Duration("frame-duration", keyframe.FlockFrameDuration, "time each pose is held")
	flag.Parse()

	if err := run(*out, *frames, *frameDuration); err != nil {
		log.Fatal(err)
	}
}

func run(out string, frames int, frameDuration time.Duration) error {
	if !strings.HasSuffix(out, clipExt) {
		out += clipExt
	}

	clip := keyframe.Flock(frames)
	clip.FrameDuration = frameDuration

	if err := writeClip(out, clip); err != nil {
		return err
	}

	info, err := os.Stat(out)
	if err != nil {
		return err
	}
	log.Printf("wrote %s: %d frames of %d vertices, %d bytes", out, len(clip.Frames), clip.VertexCount, info.Size())
	return nil
}

// writeClip encodes clip into a temporary file next to out and renames it
// into place, so a failed run never leaves a partial clip behind.
func writeClip(out string, clip *keyframe.Clip) (err error) {
	f, err := os.CreateTemp(filepath.Dir(out), filepath.Base(out)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriter(f)
	if err := keyframe.Encode(w, clip); err != nil {
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), out)
}
