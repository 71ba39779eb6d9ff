package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
	"github.com/wricardo/set-game/transport/websocket"
	"go.uber.org/zap"
)

// Boundary messages for each error kind
const (
	msgInvalidToken = "Invalid access token"
	msgNotInRoom    = "User is not in a game"
	msgGameNotFound = "Game not found"
	msgGameEnded    = "Game has ended"
	msgInternal     = "Internal server error"
	msgBadRequest   = "Invalid request body"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  *zap.Logger
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.Named("api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	// Accounts
	s.router.HandleFunc("/user/register", s.handleRegister).Methods("POST")

	// Rooms
	set := s.router.PathPrefix("/set").Subrouter()
	set.HandleFunc("/room/create", s.handleCreateRoom).Methods("POST")
	set.HandleFunc("/room/list", s.handleListRooms).Methods("POST")
	set.HandleFunc("/room/enter", s.handleEnterRoom).Methods("POST")

	// Gameplay
	set.HandleFunc("/field", s.handleField).Methods("POST")
	set.HandleFunc("/pick", s.handlePick).Methods("POST")
	set.HandleFunc("/add", s.handleAddCards).Methods("POST")
	set.HandleFunc("/scores", s.handleScores).Methods("POST")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
}

// Handle mounts an additional handler, e.g. the MCP endpoint
func (s *Server) Handle(path string, handler http.Handler) {
	s.router.PathPrefix(path).Handler(handler)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func succeeded() Envelope {
	return Envelope{Success: true}
}

func failed(err error) Envelope {
	return Envelope{Exception: exceptionFor(err)}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, failed(err))
}

// exceptionFor maps a service error to the message clients see
func exceptionFor(err error) *Exception {
	kind := service.KindOf(err)
	exc := &Exception{Kind: kind.String()}

	switch kind {
	case service.KindAuth:
		exc.Message = msgInvalidToken
	case service.KindNotInRoom:
		exc.Message = msgNotInRoom
	case service.KindNotFound:
		exc.Message = msgGameNotFound
	case service.KindGameEnded:
		exc.Message = msgGameEnded
	case service.KindValidation:
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			exc.Message = svcErr.Err.Error()
		} else {
			exc.Message = err.Error()
		}
	default:
		exc.Message = msgInternal
	}
	return exc
}

// decode reads the JSON body into req, answering 400 on failure
func decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{
			Exception: &Exception{Message: msgBadRequest, Kind: service.KindValidation.String()},
		})
		return false
	}
	return true
}

func (s *Server) broadcast(event string, state service.RoomState) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(state.RoomID, event, state)
	}
}

// Account Handlers

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.service.Register(r.Context(), req.Nickname, req.Password)
	if err != nil {
		s.logFailure("register", err)
		respondError(w, http.StatusOK, err)
		return
	}

	respondJSON(w, http.StatusOK, RegisterResponse{
		Envelope:    succeeded(),
		Nickname:    result.Nickname,
		AccessToken: result.AccessToken,
	})
}

// Room Handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}

	room, err := s.service.CreateRoom(r.Context(), req.AccessToken)
	if err != nil {
		s.logFailure("create room", err)
		respondError(w, http.StatusOK, err)
		return
	}

	respondJSON(w, http.StatusOK, RoomResponse{Envelope: succeeded(), GameID: room.ID})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}

	rooms, err := s.service.ListRooms(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, http.StatusOK, err)
		return
	}

	respondJSON(w, http.StatusOK, ListRoomsResponse{Envelope: succeeded(), Games: rooms})
}

func (s *Server) handleEnterRoom(w http.ResponseWriter, r *http.Request) {
	var req EnterRoomRequest
	if !decode(w, r, &req) {
		return
	}
	if req.GameID == nil {
		respondJSON(w, http.StatusBadRequest, Envelope{
			Exception: &Exception{Message: "gameId is required", Kind: service.KindValidation.String()},
		})
		return
	}

	state, err := s.service.EnterRoom(r.Context(), req.AccessToken, *req.GameID)
	if err != nil {
		s.logFailure("enter room", err)
		respondError(w, http.StatusOK, err)
		return
	}

	s.broadcast(websocket.EventPlayerJoined, *state)

	respondJSON(w, http.StatusOK, RoomResponse{Envelope: succeeded(), GameID: state.RoomID})
}

// Gameplay Handlers

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := s.service.GetField(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, http.StatusOK, err)
		return
	}

	respondJSON(w, http.StatusOK, FieldResponse{
		Envelope: succeeded(),
		Cards:    view.Cards,
		Status:   view.Status,
		Score:    view.Score,
		DeckSize: view.DeckSize,
	})
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req PickRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.service.PickSet(r.Context(), req.AccessToken, req.Cards)
	if result == nil {
		s.logFailure("pick", err)
		respondError(w, http.StatusOK, err)
		return
	}

	s.logger.Info("pick",
		zap.Int("room", result.Room.RoomID),
		zap.Ints("cards", req.Cards),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("score", result.Score),
		zap.Int("field", len(result.Room.Cards)),
		zap.Int("deck", result.Room.DeckSize))

	resp := PickResponse{
		Envelope: succeeded(),
		IsSet:    result.IsSet,
		Score:    result.Score,
		Outcome:  result.Outcome,
	}
	if err != nil {
		// rejected picks still report the unchanged score
		resp.Envelope = failed(err)
	}

	if result.IsSet {
		s.broadcast(websocket.EventSetClaimed, result.Room)
		if result.Room.Status == engine.StatusEnded {
			s.broadcast(websocket.EventGameEnded, result.Room)
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCards(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.service.AddCards(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, http.StatusOK, err)
		return
	}

	s.logger.Info("add cards",
		zap.Int("room", result.Room.RoomID),
		zap.Int("added", result.Added),
		zap.Int("field", len(result.Room.Cards)),
		zap.Int("deck", result.Room.DeckSize))

	if result.Added > 0 {
		s.broadcast(websocket.EventCardsAdded, result.Room)
	}

	respondJSON(w, http.StatusOK, AddCardsResponse{Envelope: succeeded(), Added: result.Added})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}

	scores, err := s.service.GetScores(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, http.StatusOK, err)
		return
	}

	respondJSON(w, http.StatusOK, ScoresResponse{Envelope: succeeded(), Users: scores})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "event stream disabled", http.StatusNotFound)
		return
	}

	token := r.URL.Query().Get("accessToken")
	if token == "" {
		http.Error(w, "accessToken parameter required", http.StatusBadRequest)
		return
	}

	room, err := s.service.CurrentRoom(r.Context(), token)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindAuth:
			http.Error(w, msgInvalidToken, http.StatusUnauthorized)
		case service.KindNotInRoom:
			http.Error(w, msgNotInRoom, http.StatusNotFound)
		default:
			http.Error(w, msgInternal, http.StatusInternalServerError)
		}
		return
	}

	s.hub.ServeWS(w, r, room.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (s *Server) logFailure(op string, err error) {
	if service.KindOf(err) == service.KindInternal {
		s.logger.Error(op+" failed", zap.Error(err))
		return
	}
	s.logger.Debug(op+" refused", zap.Error(err))
}
