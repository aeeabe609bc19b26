package netcheck

import (
	log "log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/MuhammadWasif/susi-linux/pkg/susi"
)

// Online reports whether the network is reachable right now. Used by
// the offline-capable STT provider to decide between its cloud upgrade
// and true offline recognition.
func Online() bool {
	conn, err := net.DialTimeout("tcp", "8.8.8.8:53", 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WatchServer polls the local dialogue server until it answers, then
// pins it as the API endpoint. Runs on its own goroutine for the whole
// process life; it only ever touches the client through UseAPIEndpoint.
func WatchServer(client *susi.Client, httpClient *http.Client, serverURL string) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	probe := serverURL + "/susi/chat.json?" + url.Values{"q": {"Hello"}}.Encode()
	for {
		log.Debug("checking for local server", "url", serverURL)
		resp, err := httpClient.Get(probe)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				client.UseAPIEndpoint(serverURL)
				return
			}
		}
		time.Sleep(10 * time.Second)
	}
}
