package main

import (
	"errors"
	"log/slog"

	"golang.design/x/clipboard"

	"github.com/milk9111/worldeditor/editor"
)

var errNoClipboard = errors.New("clipboard unavailable")

// behaviorClipboard moves an item's steering setup through the system
// clipboard as a behavior preset document.
type behaviorClipboard struct {
	ok  bool
	log *slog.Logger
}

func newBehaviorClipboard(log *slog.Logger) *behaviorClipboard {
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard disabled", "err", err)
		return &behaviorClipboard{log: log}
	}
	return &behaviorClipboard{ok: true, log: log}
}

func (c *behaviorClipboard) copy(s *editor.Session) error {
	if !c.ok {
		return errNoClipboard
	}
	data, err := s.CopyBehaviors()
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	c.log.Info("behaviors copied", "bytes", len(data))
	return nil
}

func (c *behaviorClipboard) paste(s *editor.Session) error {
	if !c.ok {
		return errNoClipboard
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return errors.New("clipboard is empty")
	}
	return s.PasteBehaviors(data)
}
