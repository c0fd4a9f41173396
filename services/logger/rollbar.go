package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

// RollbarLogger prints to a standard logger and reports to rollbar, when enabled.
// Every line is tagged with the component that logged it.
type RollbarLogger struct {
	std       *log.Logger
	component string
	debug     bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config, component string) *RollbarLogger {
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, component: component, debug: conf.Debug}
}

// Enable turns rollbar reporting on or off, for every logger.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Named returns a logger sharing l's output, tagged with another component.
func (l *RollbarLogger) Named(component string) *RollbarLogger {
	return &RollbarLogger{std: l.std, component: component, debug: l.debug}
}

// prepare turns args into rollbar arguments: the first error, and the extras gathered from
// maps, the message and the component. A core.Caller becomes the rollbar person and its
// tenant an extra.
func (l *RollbarLogger) prepare(msg string, args []interface{}) (*core.Caller, []interface{}) {
	extras := map[string]interface{}{"component": l.component, "message": msg}
	var caller *core.Caller
	var err error

	for _, arg := range args {
		switch a := arg.(type) {
		case core.Caller:
			if caller == nil {
				c := a
				caller = &c
				extras["tenant_id"] = a.TenantID
			}
		case error:
			if err == nil {
				err = a
			}
		case map[string]interface{}:
			for k, v := range a {
				extras[k] = v
			}
		case map[string]string:
			for k, v := range a {
				extras[k] = v
			}
		case nil:
		default:
			extras[fmt.Sprintf("arg%d", len(extras))] = a
		}
	}

	rbArgs := []interface{}{msg, extras}
	if err != nil {
		rbArgs = append(rbArgs, err)
	}
	return caller, rbArgs
}

func (l *RollbarLogger) report(level string, msg string, args []interface{}) {
	caller, rbArgs := l.prepare(msg, args)
	if caller != nil {
		rollbar.SetPerson(caller.UserID, caller.UserID, "")
	} else {
		rollbar.ClearPerson()
	}
	switch level {
	case rollbar.INFO:
		rollbar.Info(rbArgs...)
	case rollbar.WARN:
		rollbar.Warning(rbArgs...)
	case rollbar.ERR:
		rollbar.Error(rbArgs...)
	default:
		rollbar.Critical(rbArgs...)
	}
}

func (l *RollbarLogger) print(level, msg string, args []interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", strings.ToUpper(level), l.component, msg)
	var details []string
	for _, arg := range args {
		if arg != nil {
			details = append(details, fmt.Sprintf("%+v", arg))
		}
	}
	sort.Strings(details)
	for _, d := range details {
		b.WriteString("\n\t")
		b.WriteString(d)
	}
	l.std.Println(b.String())
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.print(rollbar.DEBUG, msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.INFO, msg, args)
	l.print(rollbar.INFO, msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
	l.print(rollbar.WARN, msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
	l.print(rollbar.ERR, msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.print(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
