package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/SoberSalman/AutoEngageFYP/internal/audio"
)

// SessionRunner owns one conversation over the given transport. It
// returns when the session ends; a closed transport is a normal way
// for it to end.
type SessionRunner func(ctx context.Context, src audio.Source, sink audio.Sink) error

// Server hosts voice chat sessions over websocket.
type Server struct {
	e        *echo.Echo
	run      SessionRunner
	upgrader websocket.Upgrader
}

func New(run SessionRunner) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		e:   e,
		run: run,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// browser demo clients connect from arbitrary origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/chatws", s.chatWS)
	return s
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler { return s.e }

// chatWS runs one conversation per connection: a read pump feeds
// inbound wire frames to the socket source, a write pump drains the
// socket sink, and the session runner drives the turn loop between
// them. Closing the connection ends all three.
func (s *Server) chatWS(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Info("chat session opened", "remote", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	in := make(chan audio.Message, 256)
	src := audio.NewSocketSource(in)
	sink := audio.NewSocketSink(256)

	go func() {
		defer close(in)
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			msg, err := audio.DecodeMessage(data)
			if err != nil {
				slog.Warn("bad wire frame", "err", err)
				continue
			}
			select {
			case in <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range sink.Out() {
			if err := conn.WriteMessage(websocket.BinaryMessage, msg.Encode()); err != nil {
				return
			}
		}
	}()

	runErr := s.run(ctx, src, sink)
	cancel()
	_ = sink.Close()
	wg.Wait()

	if runErr != nil && !errors.Is(runErr, audio.ErrTransportClosed) && ctx.Err() == nil {
		slog.Error("session ended with error", "err", runErr)
	} else {
		slog.Info("chat session closed", "remote", conn.RemoteAddr())
	}
	return nil
}
