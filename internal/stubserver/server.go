// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stubserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// An Outcome scripts the response to one analysis request.
type Outcome struct {
	// Status is the HTTP status code to respond with. Zero means 200.
	Status int

	// Delay holds the response back. The wait is abandoned if the
	// client goes away first.
	Delay time.Duration

	// Analysis replaces the analysis of a successful response. It may
	// be a string or any JSON-encodable value. Nil means a generated
	// narrative.
	Analysis interface{}

	// Fundamentals replaces the fundamentals of a successful response.
	Fundamentals map[string]interface{}

	// Raw, if not empty, is written verbatim as the response body in
	// place of the generated one.
	Raw string
}

// Fallback stock lists, served by /api/stocks until replaced with
// SetStocks.
var (
	FallbackNSE = []string{"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "HCLTECH.NS"}
	FallbackBSE = []string{"RELIANCE.BO", "TCS.BO", "HDFCBANK.BO", "INFY.BO", "BAFNAPH.BO"}
)

// A Server is a stub analysis service. It implements http.Handler and
// is safe for concurrent use.
type Server struct {
	router http.Handler

	lock    sync.Mutex
	scripts map[string][]Outcome
	calls   map[string]int
	stocks  map[string][]string
}

// New returns a Server which answers every analysis request
// successfully until scripted otherwise.
func New() *Server {
	s := &Server{
		scripts: make(map[string][]Outcome),
		calls:   make(map[string]int),
		stocks: map[string][]string{
			"NSE": append([]string(nil), FallbackNSE...),
			"BSE": append([]string(nil), FallbackBSE...),
		},
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", s.handleAnalyze)
		rt.Get("/stocks", s.handleStocks)
	})
	s.router = mux

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Script appends outcomes to the queue for symbol. Each analysis
// request for symbol consumes the next outcome. Once the queue is
// empty, requests succeed.
func (s *Server) Script(symbol string, outcomes ...Outcome) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.scripts[symbol] = append(s.scripts[symbol], outcomes...)
}

// Calls returns the number of analysis requests received for symbol.
func (s *Server) Calls(symbol string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.calls[symbol]
}

// SetStocks replaces the stock list served for exchange.
func (s *Server) SetStocks(exchange string, symbols []string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.stocks[strings.ToUpper(exchange)] = append([]string(nil), symbols...)
}

func (s *Server) next(symbol string) Outcome {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.calls[symbol]++
	q := s.scripts[symbol]
	if len(q) == 0 {
		return Outcome{}
	}
	s.scripts[symbol] = q[1:]
	return q[0]
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Symbol is required"})
		return
	}

	o := s.next(body.Symbol)
	if o.Delay > 0 {
		timer := time.NewTimer(o.Delay)
		select {
		case <-timer.C:
		case <-r.Context().Done():
			timer.Stop()
			return
		}
	}

	status := o.Status
	if status == 0 {
		status = http.StatusOK
	}

	if o.Raw != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(o.Raw))
		return
	}

	switch {
	case status == http.StatusTooManyRequests:
		writeJSON(w, status, map[string]interface{}{
			"error":     "Rate limited. Please try again in a moment.",
			"retryable": true,
		})
	case status < 200 || status > 299:
		writeJSON(w, status, map[string]interface{}{"error": http.StatusText(status)})
	default:
		writeJSON(w, status, success(body.Symbol, o))
	}
}

func (s *Server) handleStocks(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	resp := map[string]interface{}{"status": "success"}
	for ex, list := range s.stocks {
		resp[ex] = append([]string(nil), list...)
	}
	s.lock.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func success(symbol string, o Outcome) map[string]interface{} {
	fundamentals := o.Fundamentals
	if fundamentals == nil {
		fundamentals = map[string]interface{}{
			"name":         strings.SplitN(symbol, ".", 2)[0],
			"symbol":       symbol,
			"price":        2456.75,
			"pe":           27.4,
			"marketCap":    16612345678901,
			"debtToEquity": 0.41,
			"priceChange":  1.27,
		}
	}

	analysis := o.Analysis
	if analysis == nil {
		analysis = fmt.Sprintf("%s shows steady fundamentals with moderate leverage.", symbol)
	}

	return map[string]interface{}{
		"fundamentals": fundamentals,
		"chart":        Chart,
		"analysis":     analysis,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Chart is the base64 encoded PNG sent with every successful analysis.
var Chart = func() string {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}()
