package timing

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/routesim/routesim/sim"
)

// Mode selects how several recordings of the same segment are combined.
type Mode int

const (
	// Average rounds the mean of every recording of a segment.
	Average Mode = iota
	// Best keeps the fastest recording of a segment.
	Best
)

func (m Mode) String() string {
	if m == Best {
		return "best"
	}
	return "average"
}

// ReadRecording parses a recorded session: a sequence of "name=microseconds;"
// entries. Whitespace around names and values is ignored, and a trailing
// entry without ';' is an error.
func ReadRecording(r io.Reader) (map[string]sim.Frame, error) {
	out := make(map[string]sim.Frame)
	sc := bufio.NewScanner(r)
	sc.Split(splitEntries)
	for sc.Scan() {
		entry := strings.TrimSpace(sc.Text())
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("recording entry %q: missing '='", entry)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("recording entry %q: empty name", entry)
		}
		us, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("recording entry %q: %w", entry, err)
		}
		if us < 0 {
			return nil, fmt.Errorf("recording entry %q: negative duration", entry)
		}
		out[key] = sim.MicrosecondsToFrames(us)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	return out, nil
}

// splitEntries is a bufio.SplitFunc yielding ';'-terminated entries.
func splitEntries(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, ';'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		if len(bytes.TrimSpace(data)) > 0 {
			return 0, nil, fmt.Errorf("unterminated recording entry %q", data)
		}
		return len(data), nil, nil
	}
	return 0, nil, nil
}

// ReadRecordingFile parses one recording file.
func ReadRecordingFile(path string) (map[string]sim.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()
	rec, err := ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Aggregate combines every regular file of dir into one set of durations.
// With Average each key is averaged over the files that recorded it.
func Aggregate(dir string, mode Mode) (map[string]sim.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading recordings directory: %w", err)
	}
	var recs []map[string]sim.Frame
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		rec, err := ReadRecordingFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no recordings in %s", dir)
	}
	logrus.Debugf("aggregating %d recordings from %s (%s)", len(recs), dir, mode)
	return Combine(recs, mode), nil
}

// Combine merges recordings key by key.
func Combine(recs []map[string]sim.Frame, mode Mode) map[string]sim.Frame {
	out := make(map[string]sim.Frame)
	if mode == Best {
		for _, rec := range recs {
			for k, v := range rec {
				if cur, ok := out[k]; !ok || v < cur {
					out[k] = v
				}
			}
		}
		return out
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range recs {
		for k, v := range rec {
			sums[k] += float64(v)
			counts[k]++
		}
	}
	for k, sum := range sums {
		out[k] = sim.Frame(math.Round(sum / float64(counts[k])))
	}
	return out
}

// SortedKeys returns the keys of a recording in lexical order.
func SortedKeys(rec map[string]sim.Frame) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
