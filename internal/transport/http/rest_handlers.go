package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"gyani-service/internal/chat"
	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	"gyani-service/internal/export"
	"gyani-service/internal/trading"

	"github.com/gorilla/mux"
)

var errBadRequest = errors.New("bad request")

func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return s.validate.Struct(dst)
}

func (s *Server) LivenessFunc(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) HealthFunc(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"message":  "Gyani server is running!",
		"features": Features,
	})
}

func (s *Server) ChatFunc(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		returnHTTPMessage(w, http.StatusBadRequest, "badrequest", "messages array required")
		return
	}
	reply, err := s.deps.Chat.Reply(r.Context(), req)
	if err != nil {
		returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, reply)
}

func (s *Server) MarketDataFunc(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, http.StatusOK, s.deps.Market.Latest())
}

type translateRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"targetLanguage"`
}

func (s *Server) TranslateFunc(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := s.decode(r, &req); err != nil {
		returnError(w, r, err)
		return
	}
	target := req.TargetLanguage
	if target == "" {
		target = content.DefaultTargetLanguage
	}
	returnJSON(w, http.StatusOK, map[string]string{
		"originalText":   req.Text,
		"translatedText": content.Translate(req.Text, target),
		"targetLanguage": target,
	})
}

func (s *Server) ModulesFunc(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, http.StatusOK, content.Modules())
}

func (s *Server) CompoundInterestFunc(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	principal, err1 := strconv.ParseFloat(q.Get("principal"), 64)
	ratePct, err2 := strconv.ParseFloat(q.Get("rate"), 64)
	years, err3 := strconv.Atoi(q.Get("years"))
	if err := errors.Join(err1, err2, err3); err != nil || principal < 0 || years < 0 {
		returnHTTPMessage(w, http.StatusBadRequest, "badrequest", "principal, rate (percent) and years are required")
		return
	}
	amount := content.CompoundInterest(principal, ratePct/100, years)
	returnJSON(w, http.StatusOK, map[string]any{
		"principal": principal,
		"rate":      ratePct,
		"years":     years,
		"amount":    amount,
		"interest":  amount - principal,
	})
}

func (s *Server) AssessmentQuestionsFunc(w http.ResponseWriter, r *http.Request) {
	questions, err := s.deps.Assessments.Questions(mux.Vars(r)["kind"])
	if err != nil {
		returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, questions)
}

type assessRequest struct {
	Answers domain.AnswerMap `json:"answers" validate:"required"`
}

func (s *Server) AssessFunc(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := s.decode(r, &req); err != nil {
		returnError(w, r, err)
		return
	}
	result, err := s.deps.Assessments.Assess(mux.Vars(r)["kind"], req.Answers)
	if err != nil {
		returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, result)
}

type progressResponse struct {
	ProfileID string                 `json:"profileId"`
	Record    domain.ProgressRecord  `json:"record"`
	Summary   domain.ProgressSummary `json:"summary"`
}

func (s *Server) ProgressFunc(w http.ResponseWriter, r *http.Request) {
	store, err := s.deps.Progress.Peek(r.Context(), mux.Vars(r)["profile_id"])
	if err != nil {
		returnError(w, r, err)
		return
	}
	summary := store.Summary()
	returnJSON(w, http.StatusOK, progressResponse{
		ProfileID: summary.ProfileID,
		Record:    store.Record(),
		Summary:   summary,
	})
}

func (s *Server) ProgressSummaryFunc(w http.ResponseWriter, r *http.Request) {
	store, err := s.deps.Progress.Peek(r.Context(), mux.Vars(r)["profile_id"])
	if err != nil {
		returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, store.Summary())
}

func (s *Server) CompleteModuleFunc(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	store, err := s.deps.Progress.Open(r.Context(), vars["profile_id"])
	if err != nil {
		returnError(w, r, err)
		return
	}
	summary, err := store.MarkModuleComplete(r.Context(), vars["module_id"])
	if err != nil {
		returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, summary)
}

func (s *Server) HistoryExportFunc(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profile_id"]
	store, err := s.deps.Progress.Peek(r.Context(), profileID)
	if err != nil {
		returnError(w, r, err)
		return
	}
	data, err := export.HistoryWorkbook(store.History())
	if err != nil {
		returnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": profileID + "-quiz-history.xlsx",
	}))
	_, _ = w.Write(data)
}

type portfolioRequest struct {
	ProfileID string `json:"profileId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=buy sell view"`
	Symbol    string `json:"symbol" validate:"required_unless=Action view"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type portfolioResponse struct {
	ProfileID string         `json:"profileId"`
	Trade     *trading.Trade `json:"trade,omitempty"`
	Portfolio trading.View   `json:"portfolio"`
}

// PortfolioFunc executes a paper trade at the current synthetic price and
// returns the repriced portfolio.
func (s *Server) PortfolioFunc(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := s.decode(r, &req); err != nil {
		returnError(w, r, err)
		return
	}
	portfolio, err := s.deps.Trading.Portfolio(req.ProfileID)
	if err != nil {
		returnError(w, r, err)
		return
	}

	snap := s.deps.Market.Latest()
	prices := make(map[string]float64, len(snap.Stocks))
	for _, st := range snap.Stocks {
		prices[st.Symbol] = st.Price
	}
	portfolio.Reprice(prices)

	resp := portfolioResponse{ProfileID: req.ProfileID}
	if req.Action != "view" {
		price, ok := prices[req.Symbol]
		if !ok {
			returnError(w, r, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, req.Symbol))
			return
		}
		var trade trading.Trade
		if req.Action == "buy" {
			trade, err = portfolio.Buy(req.Symbol, req.Quantity, price)
		} else {
			trade, err = portfolio.Sell(req.Symbol, req.Quantity, price)
		}
		if err != nil {
			returnError(w, r, err)
			return
		}
		resp.Trade = &trade
	}
	resp.Portfolio = portfolio.View()
	returnJSON(w, http.StatusOK, resp)
}
