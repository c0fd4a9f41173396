package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	dig_container "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/apps/api/di/dig"
	echoapi "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/apps/api/echo"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	schedulersvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/scheduler"
)

type appParams struct {
	dig.In
	Conf      *core.Config
	Logger    core.Logger
	DB        io.Closer `name:"db"`
	Scheduler *schedulersvc.Scheduler
	Server    *echoapi.Server
}

func main() {
	graph := flag.Bool("graph", false, "print the dependency graph (DOT) and exit")
	flag.Parse()

	c := dig_container.New(nil)
	if *graph {
		must(dig_container.Visualize(c, os.Stdout))
		return
	}
	must(c.Invoke(run))
}

func run(p appParams) {
	conf, apiLogger := p.Conf, p.Logger

	// =========================================================================
	// Initialize App

	apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	apiLogger.Info(fmt.Sprintf(
		"database engine %q, pass policy %q, repeated subjects policy %q",
		conf.Database.Engine, conf.Grading.PassPolicy, conf.Grading.RepeatPolicy,
	))

	defer func() {
		if err := p.DB.Close(); err != nil {
			apiLogger.Fatal("Failed to close the database", err)
		}
	}()
	defer apiLogger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Scheduler

	if err := p.Scheduler.ScheduleDraftRefresh(conf.Transcript.RefreshSchedule); err != nil {
		apiLogger.Fatal(fmt.Sprintf("scheduling jobs: %v", err), err)
	}
	p.Scheduler.Start()

	// =========================================================================
	// Start API Service

	go p.Server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-p.Server.Errors():
		apiLogger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-p.Server.ShutdownSignal():
		apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	}

	// give outstanding requests and jobs a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	p.Scheduler.Stop(ctx)

	// asking listener to shut down and shed load
	if err := p.Server.Shutdown(ctx); err != nil {
		apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

		if err = p.Server.Close(); err != nil {
			apiLogger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
