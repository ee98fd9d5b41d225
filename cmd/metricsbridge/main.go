/*
 *
 * Copyright 2026 kafkametrics authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Binary metricsbridge reports this process's Go runtime metrics through the
// reporter to an OpenTelemetry meter, and serves them in Prometheus format.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	otelgauge "github.com/stepio/kafkametrics/gauge/opentelemetry"
	"github.com/stepio/kafkametrics/reporter"
)

var (
	addr           = flag.String("addr", ":9464", "the address to serve /metrics on")
	maxConns       = flag.Int("max_conns", 16, "maximum concurrent connections to the metrics listener")
	updateInterval = flag.Duration("update_interval", 10*time.Second, "how often metric values are published")
	sampleInterval = flag.Duration("sample_interval", 5*time.Second, "how often runtime metrics are sampled")
	prefix         = flag.String("prefix", reporter.DefaultPrefix, "prefix of every published metric name")
	clientID       = flag.String("client_id", "", "value of the client-id tag; a random ID if empty")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if *clientID == "" {
		*clientID = uuid.NewString()
	}

	exporter, err := otelprom.New()
	if err != nil {
		glog.Exitf("Failed to create prometheus exporter: %v", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	defer provider.Shutdown(context.Background())

	cfg := map[string]any{
		reporter.UpdateIntervalKey: updateInterval.Milliseconds(),
		reporter.PrefixKey:         *prefix,
	}
	gs := otelgauge.New(otelgauge.Options{
		MeterProvider: provider,
		Description:   "Go runtime metric published by metricsbridge.",
	})
	if err := reporter.AddToConfig(cfg, gs); err != nil {
		glog.Exitf("Failed to build reporter config: %v", err)
	}
	r := reporter.New()
	if err := r.Configure(cfg); err != nil {
		glog.Exitf("Failed to configure reporter: %v", err)
	}
	defer r.Close()

	src := newRuntimeSource(r, *clientID)
	src.start()

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		glog.Exitf("Failed to listen on %s: %v", *addr, err)
	}
	lis = netutil.LimitListener(lis, *maxConns)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return src.run(ctx, *sampleInterval)
	})
	g.Go(func() error {
		glog.Infof("Serving metrics on %s (client-id %s)", lis.Addr(), *clientID)
		if err := srv.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		glog.Errorf("metricsbridge exited: %v", err)
	}
}
