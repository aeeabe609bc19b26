package player

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net"
	"os/exec"
	"sync"
	"time"
)

const mpvSocket = "/tmp/susi-mpv.sock"

// mpv drives a single media engine process over its JSON IPC socket.
// The process is spawned lazily on the first playMedia and reused for
// every subsequent transport command.
type mpv struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	conn net.Conn
}

func newMPV() *mpv { return &mpv{} }

func (m *mpv) playMedia(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		cmd := exec.Command("mpv", "--no-video", "--idle=yes",
			"--input-ipc-server="+mpvSocket)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start mpv: %w", err)
		}
		m.cmd = cmd
		if err := m.dial(); err != nil {
			return err
		}
	}

	return m.command("loadfile", url, "replace")
}

// dial waits for the engine to create its socket.
func (m *mpv) dial() error {
	var err error
	for i := 0; i < 20; i++ {
		var conn net.Conn
		conn, err = net.Dial("unix", mpvSocket)
		if err == nil {
			m.conn = conn
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("dial mpv socket: %w", err)
}

func (m *mpv) setPause(paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command("set_property", "pause", paused)
}

func (m *mpv) seekStart() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command("seek", 0, "absolute")
}

func (m *mpv) playlistNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command("playlist-next")
}

func (m *mpv) playlistPrev() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command("playlist-prev")
}

func (m *mpv) playlistShuffle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command("playlist-shuffle")
}

func (m *mpv) stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd == nil {
		return nil
	}
	err := m.command("stop")
	if err != nil {
		// socket is gone, take the process down with it
		log.Warn("mpv stop over ipc failed, killing process", "err", err)
		_ = m.cmd.Process.Kill()
		_, _ = m.cmd.Process.Wait()
		if m.conn != nil {
			m.conn.Close()
			m.conn = nil
		}
		m.cmd = nil
	}
	return nil
}

// command writes one IPC command. Callers hold the lock.
func (m *mpv) command(args ...any) error {
	if m.conn == nil {
		if m.cmd == nil {
			// nothing playing, transport commands are no-ops
			return nil
		}
		if err := m.dial(); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	if _, err := m.conn.Write(payload); err != nil {
		return fmt.Errorf("mpv ipc write: %w", err)
	}
	return nil
}
