// Command soaprouter-demo hosts a small stock-quote SOAP service
// exercising every piece of the router: operation dispatch, SQL-backed
// audit logging, in-memory metrics, and a WebSocket event stream
// guarded by HTTP Basic Auth.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	router "github.com/echterhof/soaprouter/pkg"
)

const quoteNS = "urn:example:stockquote"

type appState struct {
	prices map[string]float64
}

func getStockPrice(_ context.Context, req router.SoapRequest, state appState) (router.SoapMessage, *router.SoapFault) {
	symbol := req.Body.Text()
	price, ok := state.prices[symbol]
	if !ok {
		return router.SoapMessage{}, router.NewSoapFault(router.FaultCodeSender, map[router.Language]string{
			router.LanguageEnglish: "unknown ticker symbol: " + symbol,
		}).WithSubCodes(router.SubCode{NamespaceURI: quoteNS, LocalName: "UnknownSymbol"})
	}

	msg := router.NewSoapMessage()
	el := msg.BodyMut().CreateElement("q:GetStockPriceResponse")
	el.CreateAttr("xmlns:q", quoteNS)
	el.SetText(strconv.FormatFloat(price, 'f', 2, 64))
	return msg, nil
}

func main() {
	configPath := flag.String("config", "", "path to a TOML or YAML RouterConfig file")
	flag.Parse()

	logger := router.NewLogger(slog.Default())

	cfg := &router.RouterConfig{}
	if *configPath != "" {
		loaded, err := router.LoadRouterConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyDefaults()
	router.ApplyRouterConfigEnv(cfg)

	audit, err := router.NewAuditStore(router.AuditConfig{Driver: cfg.AuditDriver, DSN: cfg.AuditDSN})
	if err != nil {
		logger.Error("failed to open audit store", "error", err)
		os.Exit(1)
	}
	defer audit.Close()

	events := router.NewEventBroadcaster()
	defer events.Close()

	metrics := router.NewInMemoryMetricsCollector()

	state := appState{prices: map[string]float64{"ACME": 42.15, "FOO": 7.5}}
	soapRouter := router.NewRouter(func() appState { return state }).
		WithLogger(logger).
		WithMetrics(metrics).
		WithAuditStore(audit).
		WithEventBroadcaster(events).
		AddOperation(quoteNS, "GetStockPrice", getStockPrice)

	mux := http.NewServeMux()
	mux.Handle("/soap", soapRouter)

	if eventsHandler, ok := events.(http.Handler); ok {
		guard := guardOrPassthrough(cfg, eventsHandler)
		mux.Handle(cfg.EventsPath, guard)
	}

	mux.Handle(cfg.MetricsPath, guardOrPassthrough(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONExport(w, metrics.Export())
	})))

	srv := router.NewServer(cfg.ToServerConfig(), mux, logger)
	if cfg.EnableHTTP2 {
		srv.EnableHTTP2()
	}
	if cfg.EnableQUIC {
		srv.EnableQUIC()
	}

	go func() {
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			err = srv.ListenTLS(cfg.ListenAddr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.Listen(cfg.ListenAddr)
		}
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func guardOrPassthrough(cfg *router.RouterConfig, next http.Handler) http.Handler {
	if cfg.ObserverUsername == "" || cfg.ObserverPasswordHash == "" {
		return next
	}
	hasher := router.NewPasswordHasher(router.PasswordHashAlgorithm(cfg.ObserverAlgorithm))
	return router.NewBasicAuthGuard(cfg.ObserverUsername, cfg.ObserverPasswordHash, hasher, "soaprouter", next)
}

func writeJSONExport(w http.ResponseWriter, export map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(export)
}
