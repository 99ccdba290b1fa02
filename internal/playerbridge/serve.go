package playerbridge

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readLimit    = 4 * 1024
	pongWait     = 90 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// Serve pumps d over conn until the connection drops, ctx ends or the
// driver is destroyed. conn is closed on return.
func Serve(ctx context.Context, conn *websocket.Conn, d *Driver, logger *zap.Logger) error {
	defer conn.Close()

	if err := d.Attach(); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		return err
	}
	defer d.Detach()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(d.CreateCommand()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeLoop(ctx, conn, d, logger)
		// Unblocks the reader below.
		_ = conn.Close()
	}()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var readErr error
	for {
		var ev ClientEvent
		if readErr = conn.ReadJSON(&ev); readErr != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := d.Deliver(ev.Event); err != nil {
			logger.Debug("player event dropped", zap.String("event", ev.Event), zap.Error(err))
		}
	}

	cancel()
	<-writerDone

	if websocket.IsCloseError(readErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	select {
	case <-d.Done():
		return nil
	default:
	}
	return readErr
}

func writeLoop(ctx context.Context, conn *websocket.Conn, d *Driver, logger *zap.Logger) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	write := func(c Command) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(c); err != nil {
			logger.Debug("player command write failed", zap.String("cmd", c.Cmd), zap.Error(err))
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.Done():
			// Flush what was queued before teardown, including the destroy.
			for {
				select {
				case c := <-d.Commands():
					if !write(c) {
						return
					}
				default:
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "destroyed"),
						time.Now().Add(writeWait))
					return
				}
			}
		case c := <-d.Commands():
			if !write(c) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
