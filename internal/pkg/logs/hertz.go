package logs

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// hertzPrefix marks lines emitted by hertz itself, next to the hook server's
// own "[server]" lines.
const hertzPrefix = "[hertz] "

// hlogAdapter lets `skc serve` route hertz's engine logs (startup, shutdown,
// connection errors) into the configured skc log output. Trace and notice
// fold into debug and info since logrus has no such levels here.
type hlogAdapter struct {
	l Logger
}

var _ hlog.FullLogger = (*hlogAdapter)(nil)

// NewHlogLogger wraps l for hlog.SetLogger.
func NewHlogLogger(l Logger) hlog.FullLogger {
	return &hlogAdapter{l: l}
}

// plain messages may contain '%', so they never become the format string
func (a *hlogAdapter) plain(log func(string, ...interface{}), v []interface{}) {
	log(hertzPrefix+"%s", fmt.Sprint(v...))
}

func (a *hlogAdapter) Trace(v ...interface{})  { a.plain(a.l.Debug, v) }
func (a *hlogAdapter) Debug(v ...interface{})  { a.plain(a.l.Debug, v) }
func (a *hlogAdapter) Info(v ...interface{})   { a.plain(a.l.Info, v) }
func (a *hlogAdapter) Notice(v ...interface{}) { a.plain(a.l.Info, v) }
func (a *hlogAdapter) Warn(v ...interface{})   { a.plain(a.l.Warn, v) }
func (a *hlogAdapter) Error(v ...interface{})  { a.plain(a.l.Error, v) }
func (a *hlogAdapter) Fatal(v ...interface{})  { a.plain(a.l.Fatal, v) }

func (a *hlogAdapter) Tracef(format string, v ...interface{}) { a.l.Debug(hertzPrefix+format, v...) }
func (a *hlogAdapter) Debugf(format string, v ...interface{}) { a.l.Debug(hertzPrefix+format, v...) }
func (a *hlogAdapter) Infof(format string, v ...interface{})  { a.l.Info(hertzPrefix+format, v...) }
func (a *hlogAdapter) Noticef(format string, v ...interface{}) {
	a.l.Info(hertzPrefix+format, v...)
}
func (a *hlogAdapter) Warnf(format string, v ...interface{})  { a.l.Warn(hertzPrefix+format, v...) }
func (a *hlogAdapter) Errorf(format string, v ...interface{}) { a.l.Error(hertzPrefix+format, v...) }
func (a *hlogAdapter) Fatalf(format string, v ...interface{}) { a.l.Fatal(hertzPrefix+format, v...) }

// Ctx variants keep the request context so log and session ids reach the
// formatter.
func (a *hlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxDebug(ctx, hertzPrefix+format, v...)
}
func (a *hlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxDebug(ctx, hertzPrefix+format, v...)
}
func (a *hlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxInfo(ctx, hertzPrefix+format, v...)
}
func (a *hlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxInfo(ctx, hertzPrefix+format, v...)
}
func (a *hlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxWarn(ctx, hertzPrefix+format, v...)
}
func (a *hlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxError(ctx, hertzPrefix+format, v...)
}
func (a *hlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	a.l.CtxFatal(ctx, hertzPrefix+format, v...)
}

// SetLevel maps hertz levels onto the shared logger, so it also changes the
// level of every skc component.
func (a *hlogAdapter) SetLevel(level hlog.Level) {
	switch level {
	case hlog.LevelTrace, hlog.LevelDebug:
		a.l.SetLevel(DebugLevel)
	case hlog.LevelInfo, hlog.LevelNotice:
		a.l.SetLevel(InfoLevel)
	case hlog.LevelWarn:
		a.l.SetLevel(WarnLevel)
	case hlog.LevelError:
		a.l.SetLevel(ErrorLevel)
	case hlog.LevelFatal:
		a.l.SetLevel(FatalLevel)
	}
}

// SetOutput is ignored: the destination is logging.output from the skc
// config, and stdout must stay free for hook replies.
func (a *hlogAdapter) SetOutput(_ io.Writer) {}
