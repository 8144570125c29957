package dashboard

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"StockScope/internal/model"
	"StockScope/internal/pipeline"
)

//go:embed web/index.html
var indexHTML []byte

// Server serves the dashboard page and its JSON API on top of the latest
// pipeline result.
type Server struct {
	store  *pipeline.Store
	router *mux.Router
}

func NewServer(store *pipeline.Store) *Server {
	s := &Server{store: store}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/symbols", s.handleSymbols).Methods(http.MethodGet)
	api.HandleFunc("/artifacts/{symbol}", s.handleArtifacts).Methods(http.MethodGet)
	api.HandleFunc("/top5", s.handleTop5).Methods(http.MethodGet)

	s.router = r
	return s
}

// Router exposes the handler for an http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	res := s.store.Latest()
	resp := map[string]interface{}{
		"status":      "ok",
		"data_loaded": res != nil,
	}
	if res != nil {
		resp["generated_at"] = res.GeneratedAt.Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, resp)
}

type symbolsResponse struct {
	Symbols     []string `json:"symbols"`
	GeneratedAt string   `json:"generated_at"`
}

func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	res := s.store.Latest()
	if res == nil {
		respondError(w, http.StatusServiceUnavailable, "no data loaded")
		return
	}
	respondJSON(w, http.StatusOK, symbolsResponse{
		Symbols:     res.Table.Symbols(),
		GeneratedAt: res.GeneratedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	res := s.store.Latest()
	if res == nil {
		respondError(w, http.StatusServiceUnavailable, "no data loaded")
		return
	}
	symbol := mux.Vars(r)["symbol"]
	art, ok := BuildArtifacts(res.Table, symbol)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown symbol: %s", symbol))
		return
	}
	respondJSON(w, http.StatusOK, art)
}

type top5Response struct {
	Performance []performanceJSON `json:"performance"`
	Regression  []regressionJSON  `json:"regression"`
}

type performanceJSON struct {
	Symbol           string   `json:"symbol"`
	AvgPercentChange *float64 `json:"avg_percent_change"`
	Volatility       *float64 `json:"volatility"`
	LastClosingPrice *float64 `json:"last_closing_price"`
	AvgDividend      *float64 `json:"avg_dividend"`
	Score            *float64 `json:"score"`
}

type regressionJSON struct {
	Symbol   string   `json:"symbol"`
	Variable string   `json:"variable"`
	Coef     *float64 `json:"coef"`
	StdErr   *float64 `json:"std_err"`
	TStat    *float64 `json:"t_stat"`
	PValue   *float64 `json:"p_value"`
	CILower  *float64 `json:"ci_lower"`
	CIUpper  *float64 `json:"ci_upper"`
	Score    *float64 `json:"score"`
}

func (s *Server) handleTop5(w http.ResponseWriter, _ *http.Request) {
	res := s.store.Latest()
	if res == nil {
		respondError(w, http.StatusServiceUnavailable, "no data loaded")
		return
	}

	resp := top5Response{
		Performance: make([]performanceJSON, 0, len(res.TopPerformance)),
		Regression:  make([]regressionJSON, 0, len(res.TopRegression)),
	}
	for _, p := range res.TopPerformance {
		resp.Performance = append(resp.Performance, toPerformanceJSON(p))
	}
	for _, g := range res.TopRegression {
		resp.Regression = append(resp.Regression, toRegressionJSON(g))
	}
	respondJSON(w, http.StatusOK, resp)
}

func toPerformanceJSON(p model.PerformanceRow) performanceJSON {
	return performanceJSON{
		Symbol:           p.Symbol,
		AvgPercentChange: floatPtr(p.AvgPercentChange),
		Volatility:       floatPtr(p.Volatility),
		LastClosingPrice: floatPtr(p.LastClosingPrice),
		AvgDividend:      floatPtr(p.AvgDividend),
		Score:            floatPtr(p.Score),
	}
}

func toRegressionJSON(g model.RegressionRow) regressionJSON {
	return regressionJSON{
		Symbol:   g.Symbol,
		Variable: g.Variable,
		Coef:     floatPtr(g.Coef),
		StdErr:   floatPtr(g.StdErr),
		TStat:    floatPtr(g.TStat),
		PValue:   floatPtr(g.PValue),
		CILower:  floatPtr(g.CILower),
		CIUpper:  floatPtr(g.CIUpper),
		Score:    floatPtr(g.Score),
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
