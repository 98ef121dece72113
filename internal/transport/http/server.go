package http

import (
	"net/http"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/chat"
	"gyani-service/internal/market"
	"gyani-service/internal/trading"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Features advertised by the health endpoint.
var Features = []string{
	"AI Chat",
	"Market Data Simulation",
	"Virtual Trading",
	"Educational Content",
	"Risk Assessment",
	"Progress Tracking",
}

// Deps are the use cases the HTTP surface exposes.
type Deps struct {
	Quiz        *app.QuizService
	Progress    *app.ProgressService
	Assessments *app.AssessmentService
	Chat        *chat.Relay
	Market      *market.Broadcaster
	Trading     *trading.Registry

	// TickInterval paces elapsed-time messages on the quiz socket.
	TickInterval time.Duration
}

// Server routes REST and websocket requests to the use cases.
type Server struct {
	deps     Deps
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewServer(deps Deps) *Server {
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Second
	}
	return &Server{
		deps:     deps,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// SetupRoutes registers every endpoint on r.
func (s *Server) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", s.LivenessFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.HealthFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", s.ChatFunc).Methods(http.MethodPost)
	r.HandleFunc("/api/market-data", s.MarketDataFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/translate", s.TranslateFunc).Methods(http.MethodPost)
	r.HandleFunc("/api/modules", s.ModulesFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/learn/compound-interest", s.CompoundInterestFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/assessments/{kind}/questions", s.AssessmentQuestionsFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/assessments/{kind}", s.AssessFunc).Methods(http.MethodPost)
	r.HandleFunc("/api/progress/{profile_id}", s.ProgressFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/progress/{profile_id}/summary", s.ProgressSummaryFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/progress/{profile_id}/modules/{module_id}/complete", s.CompleteModuleFunc).Methods(http.MethodPost)
	r.HandleFunc("/api/progress/{profile_id}/history.xlsx", s.HistoryExportFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/virtual-trading/portfolio", s.PortfolioFunc).Methods(http.MethodPost)

	r.HandleFunc("/ws/quiz", s.ServeQuizWS)
	r.HandleFunc("/ws/market", s.ServeMarketWS)
	r.HandleFunc("/ws/progress", s.ServeProgressWS)
}

// Handler returns the routed, CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.SetupRoutes(r)

	corsHeaders := handlers.AllowedHeaders([]string{"Authorization", "Content-Type"})
	corsOrigins := handlers.AllowedOrigins([]string{"*"})
	corsMethods := handlers.AllowedMethods([]string{"GET", "POST", "HEAD", "OPTIONS"})
	return handlers.CORS(corsHeaders, corsOrigins, corsMethods)(r)
}
