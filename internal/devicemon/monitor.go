// Package devicemon watches udev netlink events for the configured camera so
// the reader can reopen it after it is unplugged and plugged back in.
package devicemon

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"pagevision/internal/logging"
)

// Action is the kind of device change.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Event reports that the watched camera appeared or disappeared.
type Event struct {
	Action Action
	Device string
}

// Monitor listens for video4linux add/remove uevents for one device node.
// A nil Monitor is inert.
type Monitor struct {
	device string
	logger *slog.Logger
	events chan Event

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// New returns a monitor for device (for example /dev/video0), or nil when
// device is empty.
func New(device string, logger *slog.Logger) *Monitor {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil
	}
	return &Monitor{
		device: device,
		logger: logging.NewComponentLogger(logger, "devicemon"),
		events: make(chan Event, 4),
	}
}

// Device returns the watched device node.
func (m *Monitor) Device() string {
	if m == nil {
		return ""
	}
	return m.device
}

// Events delivers matched events. The channel is never closed; a nil
// Monitor returns a nil channel, which blocks forever in a select.
func (m *Monitor) Events() <-chan Event {
	if m == nil {
		return nil
	}
	return m.events
}

// Start connects to the kernel uevent socket. Failure to connect is logged
// and swallowed: the reader falls back to polling the camera.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("udev netlink unavailable; camera hotplug will not be detected",
			logging.Error(err),
			logging.String(logging.FieldEventType, "devicemon_connect_failed"),
			logging.String(logging.FieldErrorHint, "check that the process may open NETLINK_KOBJECT_UEVENT sockets"),
			logging.String(logging.FieldImpact, "reconnect relies on periodic retries"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	go m.loop(ctx, conn, m.quit)

	m.logger.Debug("device monitor started",
		logging.String(logging.FieldEventType, "devicemon_started"),
		logging.String(logging.FieldDevice, m.device),
	)
	return nil
}

// Stop closes the socket and ends the read loop.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.quit)
	m.quit = nil
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
}

// Running reports whether the monitor holds an open socket.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, Matcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handle(uevent)
		case err := <-errs:
			m.logger.Warn("device monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "devicemon_error"),
				logging.String(logging.FieldImpact, "camera hotplug events may be missed"),
			)
		}
	}
}

// Matcher selects video4linux add and remove events.
func Matcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func (m *Monitor) handle(uevent netlink.UEvent) {
	ev, ok := m.translate(uevent)
	if !ok {
		return
	}
	m.logger.Info("camera "+string(ev.Action)+" event",
		logging.String(logging.FieldEventType, "camera_"+string(ev.Action)),
		logging.String(logging.FieldDevice, ev.Device),
	)
	select {
	case m.events <- ev:
	default:
		// Reader is behind; it only needs the latest state change, and a
		// full buffer already holds one.
	}
}

func (m *Monitor) translate(uevent netlink.UEvent) (Event, bool) {
	devname := deviceName(uevent)
	if devname == "" || devname != m.device {
		return Event{}, false
	}
	switch Action(uevent.Action) {
	case ActionAdd, ActionRemove:
		return Event{Action: Action(uevent.Action), Device: devname}, true
	default:
		return Event{}, false
	}
}

// deviceName resolves the /dev node for a uevent from DEVNAME, falling back
// to the last DEVPATH element.
func deviceName(uevent netlink.UEvent) string {
	if devname := strings.TrimSpace(uevent.Env["DEVNAME"]); devname != "" {
		if !strings.HasPrefix(devname, "/") {
			devname = "/dev/" + devname
		}
		return devname
	}
	devpath := strings.TrimSpace(uevent.Env["DEVPATH"])
	if devpath == "" {
		return ""
	}
	return "/dev/" + path.Base(devpath)
}
