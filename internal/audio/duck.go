package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type streamInfo struct {
	ID      int
	Volume  int
	AppName string
}

// SoftVolume lowers every playback stream except our own while the
// device listens or speaks, and restores the originals afterwards. The
// control loop calls Restore unconditionally at the end of each cycle,
// so a crashed cycle never leaves the desktop muted.
type SoftVolume struct {
	mu          sync.Mutex
	active      bool
	selfNames   []string    // application.name values left untouched
	originalVol map[int]int // sink-input id -> original % volume
	minVolume   int
}

func NewSoftVolume(selfNames []string, minVolume int) *SoftVolume {
	if minVolume < 0 {
		minVolume = 0
	}
	if minVolume > 100 {
		minVolume = 100
	}
	return &SoftVolume{
		selfNames:   append([]string(nil), selfNames...),
		originalVol: make(map[int]int),
		minVolume:   minVolume,
	}
}

// Duck scales every foreign stream down to current*factor, floored at
// minVolume. Idempotent while active.
func (sv *SoftVolume) Duck(ctx context.Context, factor float64) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if sv.active {
		return nil
	}

	streams, err := listStreams(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	sv.originalVol = make(map[int]int)
	for _, s := range streams {
		if sv.isSelf(s) {
			continue
		}
		target := int(math.Round(float64(s.Volume) * factor))
		if target < sv.minVolume {
			target = sv.minVolume
		}
		sv.originalVol[s.ID] = s.Volume
		if err := setSinkInputVolume(ctx, s.ID, target); err != nil {
			return fmt.Errorf("duck id=%d: %w", s.ID, err)
		}
	}

	sv.active = true
	return nil
}

// Restore puts every ducked stream back to its original volume. Safe to
// call when nothing was ducked.
func (sv *SoftVolume) Restore(ctx context.Context) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if !sv.active {
		return nil
	}

	var firstErr error
	for id, orig := range sv.originalVol {
		if err := setSinkInputVolume(ctx, id, orig); err != nil && firstErr == nil {
			// stream may have gone away since duck; keep restoring the rest
			firstErr = fmt.Errorf("restore id=%d: %w", id, err)
		}
	}

	sv.originalVol = make(map[int]int)
	sv.active = false
	return firstErr
}

func (sv *SoftVolume) isSelf(s streamInfo) bool {
	for _, name := range sv.selfNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

// --- pactl helpers ---

func listStreams(ctx context.Context) ([]streamInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pactl", "list", "sink-inputs")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	parts := strings.Split(string(out), "Sink Input #")
	var res []streamInfo
	for i := 1; i < len(parts); i++ {
		block := parts[i]

		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := streamInfo{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if idx := strings.Index(line, `"`); idx >= 0 {
					rest := line[idx+1:]
					if idx2 := strings.Index(rest, `"`); idx2 >= 0 {
						s.AppName = rest[:idx2]
					}
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res, nil
}

func setSinkInputVolume(ctx context.Context, id, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	cmd := exec.CommandContext(ctx, "pactl",
		"set-sink-input-volume", strconv.Itoa(id), fmt.Sprintf("%d%%", percent))
	return cmd.Run()
}
