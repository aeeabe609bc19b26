package lights

import (
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// BCM line numbers on the reference hat.
const (
	speakingLine  = 27
	listeningLine = 22
)

const gpioRoot = "/sys/class/gpio"

// GPIO drives the listening and speaking lines through the sysfs
// interface. Construction fails on devices without the lines exported;
// callers fall back to NoPins.
type GPIO struct {
	speaking  string
	listening string
}

func NewGPIO() (*GPIO, error) {
	g := &GPIO{
		speaking:  filepath.Join(gpioRoot, fmt.Sprintf("gpio%d", speakingLine)),
		listening: filepath.Join(gpioRoot, fmt.Sprintf("gpio%d", listeningLine)),
	}
	for _, line := range []int{speakingLine, listeningLine} {
		if err := exportLine(line); err != nil {
			return nil, err
		}
	}
	g.Reset()
	return g, nil
}

func exportLine(line int) error {
	dir := filepath.Join(gpioRoot, fmt.Sprintf("gpio%d", line))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.WriteFile(filepath.Join(gpioRoot, "export"),
			[]byte(strconv.Itoa(line)), 0o200); err != nil {
			return fmt.Errorf("export gpio %d: %w", line, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("out"), 0o200); err != nil {
		return fmt.Errorf("configure gpio %d: %w", line, err)
	}
	return nil
}

func (g *GPIO) SetListening(on bool) { write(g.listening, on) }
func (g *GPIO) SetSpeaking(on bool)  { write(g.speaking, on) }

func (g *GPIO) Reset() {
	write(g.listening, false)
	write(g.speaking, false)
}

func write(dir string, on bool) {
	v := "0"
	if on {
		v = "1"
	}
	if err := os.WriteFile(filepath.Join(dir, "value"), []byte(v), 0o200); err != nil {
		log.Warn("Failed to drive gpio line", "line", dir, "err", err)
	}
}
