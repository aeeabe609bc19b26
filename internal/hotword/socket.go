package hotword

// SocketDetector adapts the control socket into a wake-trigger source:
// an external hotword engine (or susi-ctl) connects and sends "wake".
// The socket server itself is owned by the daemon; this type only
// receives the decoded wake commands.
type SocketDetector struct {
	Gate
}

func NewSocketDetector() *SocketDetector {
	return &SocketDetector{}
}

// Wake is called by the daemon's control-socket handler.
func (d *SocketDetector) Wake() {
	d.Fire()
}
