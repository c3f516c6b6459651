// Package logging configures the process-wide slog logger and, when a Rollbar
// token is configured, forwards error records to Rollbar.
package logging

import (
	"alcyxob/gym-membership/internal/config"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rollbar/rollbar-go"
)

// Reporter is the subset of *rollbar.Client the handler needs.
type Reporter interface {
	ErrorWithExtras(level string, err error, extras map[string]interface{})
	MessageWithExtras(level string, msg string, extras map[string]interface{})
}

// Setup builds the default logger. The returned func flushes pending reports and
// must be called on shutdown.
func Setup(logCfg config.LogConfig, rbCfg config.RollbarConfig, codeVersion string) (*slog.Logger, func()) {
	base := newBaseHandler(os.Stdout, logCfg)

	closeFn := func() {}
	var handler slog.Handler = base
	if rbCfg.Token != "" {
		host, _ := os.Hostname()
		client := rollbar.New(rbCfg.Token, rbCfg.Environment, codeVersion, host, "")
		handler = NewRollbarHandler(base, client)
		closeFn = func() { _ = client.Close() }
	}

	logger := slog.New(NewStaffHandler(handler))
	slog.SetDefault(logger)
	return logger, closeFn
}

func newBaseHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RollbarHandler passes every record to the wrapped handler and additionally
// reports records at error level or above.
type RollbarHandler struct {
	next     slog.Handler
	reporter Reporter
	attrs    []slog.Attr
	group    string
}

func NewRollbarHandler(next slog.Handler, reporter Reporter) *RollbarHandler {
	return &RollbarHandler{next: next, reporter: reporter}
}

func (h *RollbarHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RollbarHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		h.report(r)
	}
	return h.next.Handle(ctx, r)
}

func (h *RollbarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.next = h.next.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &clone
}

func (h *RollbarHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.next = h.next.WithGroup(name)
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *RollbarHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

func (h *RollbarHandler) report(r slog.Record) {
	extras := make(map[string]interface{}, len(h.attrs)+r.NumAttrs()+1)
	var recErr error
	collect := func(a slog.Attr) {
		v := a.Value.Resolve()
		if e, ok := v.Any().(error); ok && recErr == nil {
			recErr = e
		}
		extras[a.Key] = v.String()
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		for _, q := range h.qualify([]slog.Attr{a}) {
			collect(q)
		}
		return true
	})
	extras["event"] = r.Message

	level := rollbar.ERR
	if r.Level > slog.LevelError {
		level = rollbar.CRIT
	}
	if recErr != nil {
		h.reporter.ErrorWithExtras(level, errors.Join(errors.New(r.Message), recErr), extras)
		return
	}
	h.reporter.MessageWithExtras(level, r.Message, extras)
}

type staffKey struct{}

// WithStaff returns a context carrying the id of the authenticated staff user.
func WithStaff(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffKey{}, staffID)
}

// StaffID returns the staff user id stored by WithStaff, or "".
func StaffID(ctx context.Context) string {
	id, _ := ctx.Value(staffKey{}).(string)
	return id
}

// StaffHandler adds a staff_id attribute to records logged with a context
// that carries one, so every member change can be traced to the desk user.
type StaffHandler struct {
	next slog.Handler
}

func NewStaffHandler(next slog.Handler) *StaffHandler {
	return &StaffHandler{next: next}
}

func (h *StaffHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *StaffHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := StaffID(ctx); id != "" {
			r.AddAttrs(slog.String("staff_id", id))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *StaffHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StaffHandler{next: h.next.WithAttrs(attrs)}
}

func (h *StaffHandler) WithGroup(name string) slog.Handler {
	return &StaffHandler{next: h.next.WithGroup(name)}
}
