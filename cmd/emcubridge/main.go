package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/emcu.go/pkg/bridge"
	"github.com/robotalks/emcu.go/pkg/bridge/mqtt"
	"github.com/robotalks/emcu.go/pkg/bridge/stream"
	"github.com/robotalks/emcu.go/pkg/bridge/websocket"
	"github.com/robotalks/emcu.go/pkg/emcu/env"
	fx "github.com/robotalks/emcu.go/pkg/framework"
)

var (
	httpAddr   = ":8080"
	streamAddr = ""
	noMQTT     = false
)

func init() {
	env.SetupFlags()
	flag.StringVar(&httpAddr, "listen", httpAddr, "HTTP address serving /link (websocket) and /metrics")
	flag.StringVar(&streamAddr, "listen-stream", streamAddr, "TCP address serving bridge:// clients")
	flag.BoolVar(&noMQTT, "no-mqtt", noMQTT, "Do not serve over MQTT")
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func main() {
	flag.Parse()
	if err := run(env.MustLoad()); err != nil {
		glog.Errorf("bridge stopped: %v", err)
		glog.Flush()
		log.Fatalln(err)
	}
}

// run serves the link until stopped. The link is closed on return.
func run(conf *env.Config) error {
	if conf.Link == "" {
		return errors.New("-link is required")
	}
	l, err := conf.OpenLink()
	if err != nil {
		return err
	}
	defer l.Close()

	reg := newRegistry()
	srv := bridge.NewServer(l)
	srv.Metrics = bridge.NewMetrics(reg)

	var ln net.Listener
	if streamAddr != "" {
		if ln, err = net.Listen("tcp", streamAddr); err != nil {
			return err
		}
	}

	var q *mqtt.Queue
	if !noMQTT {
		if conf.Device == "" {
			closeListener(ln)
			return errors.New("-device is required to serve over MQTT")
		}
		opts, prefix, err := mqtt.ClientOptionsFromURL(conf.MQTTURL)
		if err != nil {
			closeListener(ln)
			return err
		}
		if opts.ClientID == "" {
			opts.SetClientID("emcu-bridge-" + conf.Device)
		}
		q = mqtt.NewQueue(opts, prefix)
	}

	runner := fx.NewRunner().HandleSignals()

	if httpAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/link", websocket.Handler(srv))
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		httpSrv := &http.Server{Addr: httpAddr, Handler: mux}
		runner.Go(fx.NamedRun("http", fx.RunFunc(func(ctx context.Context) error {
			glog.Infof("serving http on %s", httpAddr)
			return fx.RunWithContextCancel(ctx, func() { httpSrv.Close() }, httpSrv.ListenAndServe)
		})))
	}

	if ln != nil {
		runner.Go(fx.NamedRun("stream", fx.RunFunc(func(ctx context.Context) error {
			glog.Infof("serving bridge on %s", streamAddr)
			return stream.Serve(ctx, ln, srv)
		})))
	}

	if q != nil {
		runner.Go(fx.NamedRun("mqtt", fx.RunFunc(func(ctx context.Context) error {
			if err := q.Connect(); err != nil {
				return err
			}
			defer q.Close()
			return mqtt.Serve(ctx, q, conf.Device, srv)
		})))
	}

	return runner.Wait()
}

func closeListener(ln net.Listener) {
	if ln != nil {
		ln.Close()
	}
}
