package reader

import (
	"context"
	"fmt"
	"time"

	"pagevision/internal/devicemon"
	"pagevision/internal/logging"
)

// reconnect closes the failed capture and waits for the camera to come back,
// retrying on every hotplug add event and on a fixed poll. Key commands are
// still served while waiting; quit reports true. It returns the original
// read error when reconnecting is disabled.
func (r *Reader) reconnect(ctx context.Context, readErr error) (bool, error) {
	if !r.cfg.Camera.Reconnect {
		return false, fmt.Errorf("read frame: %w", readErr)
	}
	if r.capture != nil {
		_ = r.capture.Close()
		r.capture = nil
	}

	timeout := time.Duration(r.cfg.Camera.ReconnectTimeout) * time.Second
	logging.WarnWithContext(r.logger, "camera read failed; waiting for it to return", "camera_lost",
		logging.Error(readErr),
		logging.Alert("camera_disconnected"),
		logging.Duration("timeout", timeout),
		logging.String(logging.FieldImpact, "reading paused until the camera is available"),
		logging.String(logging.FieldErrorHint, "check the USB connection"),
	)
	r.filter.Tracker().Reset()
	r.detection.Found = false
	r.words = nil

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	poll := time.NewTicker(r.reconnectPoll)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, fmt.Errorf("camera did not return within %s: %w", timeout, readErr)
		case action, ok := <-r.deps.Keys:
			if !ok {
				r.deps.Keys = nil
				continue
			}
			if r.handleAction(ctx, action) {
				return true, nil
			}
		case ev := <-r.deps.Hotplug:
			if ev.Action != devicemon.ActionAdd {
				continue
			}
			if r.tryReopen() {
				return false, nil
			}
		case <-poll.C:
			if r.tryReopen() {
				return false, nil
			}
		}
	}
}

func (r *Reader) tryReopen() bool {
	capture, err := r.deps.OpenCapture()
	if err != nil {
		r.logger.Debug("camera not ready", logging.Error(err))
		return false
	}
	r.capture = capture
	r.summary.Reconnects++
	r.logger.Info("camera reconnected",
		logging.String(logging.FieldEventType, "camera_reconnected"),
		logging.Int("reconnects", r.summary.Reconnects),
	)
	return true
}
