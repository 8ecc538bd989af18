package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/roseline-games/blackjack-server/internal/advisor"
	"github.com/roseline-games/blackjack-server/internal/blackjack"
	"github.com/roseline-games/blackjack-server/internal/history"
	"github.com/roseline-games/blackjack-server/internal/ledger"
	"github.com/roseline-games/blackjack-server/internal/msgcat"
	"github.com/roseline-games/blackjack-server/internal/obslog"
	"github.com/roseline-games/blackjack-server/internal/round"
	"github.com/roseline-games/blackjack-server/pkg/gamedto"
)

const defaultHistoryLimit = 10

// Server exposes the blackjack service over HTTP. All inputs are validated
// before any state mutation, and every storage error maps to a stable error
// code so clients can distinguish retryable failures from rejections.
type Server struct {
	rounds        *round.Manager
	chips         ledger.Ledger
	history       history.Recorder
	advisor       *advisor.Client
	msgs          *msgcat.Catalog
	startingChips int64
	historyLimit  int
}

type Config struct {
	Rounds  *round.Manager
	Chips   ledger.Ledger
	History history.Recorder
	// Advisor may be nil; the advice endpoint then reports unavailable.
	Advisor       *advisor.Client
	Messages      *msgcat.Catalog
	StartingChips int64
	HistoryLimit  int
}

func NewServer(cfg Config) *Server {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Server{
		rounds:        cfg.Rounds,
		chips:         cfg.Chips,
		history:       cfg.History,
		advisor:       cfg.Advisor,
		msgs:          cfg.Messages,
		startingChips: cfg.StartingChips,
		historyLimit:  limit,
	}
}

// Handler is the request router. Paths are fixed so a switch is enough.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/healthz" && method == fasthttp.MethodGet:
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case path == "/api/game" && method == fasthttp.MethodPost:
		s.handleGame(ctx)
	case path == "/api/chips/balance" && method == fasthttp.MethodGet:
		s.handleBalance(ctx)
	case path == "/api/chips/buy" && method == fasthttp.MethodPost:
		s.handleBuyChips(ctx)
	case path == "/api/history" && method == fasthttp.MethodGet:
		s.handleHistory(ctx)
	case path == "/api/ai" && method == fasthttp.MethodPost:
		s.handleAdvice(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, gamedto.DomainError{
			Code:    gamedto.CodeInvalidInput,
			Message: "unknown endpoint",
		})
	}
}

func (s *Server) handleGame(ctx *fasthttp.RequestCtx) {
	var req gamedto.GameActionRequest
	if !s.decode(ctx, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(ctx, err)
		return
	}

	var (
		res *round.Result
		err error
	)
	switch strings.TrimSpace(req.Action) {
	case gamedto.ActionDeal:
		res, err = s.rounds.Deal(ctx, strings.TrimSpace(req.PlayerID), req.Bet)
	case gamedto.ActionHit:
		res, err = s.rounds.Hit(ctx, strings.TrimSpace(req.RoundID))
	case gamedto.ActionStand:
		res, err = s.rounds.Stand(ctx, strings.TrimSpace(req.RoundID))
	}
	if err != nil {
		s.fail(ctx, err)
		return
	}
	snap := snapshot(res)
	if snap.Result != "" && s.msgs != nil {
		snap.Message = s.msgs.Text("game." + snap.Result)
	}
	s.writeJSON(ctx, fasthttp.StatusOK, snap)
}

// handleBalance implicitly registers unknown players with the starting
// grant, so a fresh browser session can sit down and play.
func (s *Server) handleBalance(ctx *fasthttp.RequestCtx) {
	playerID := strings.TrimSpace(string(ctx.QueryArgs().Peek("playerId")))
	if playerID == "" {
		s.fail(ctx, gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: "playerId is required"})
		return
	}
	balance, created, err := s.chips.GetOrCreate(ctx, playerID, s.startingChips)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	if created {
		obslog.L().Info("player_registered",
			zap.String("player_id", playerID),
			zap.Int64("grant", s.startingChips),
		)
	}
	s.writeJSON(ctx, fasthttp.StatusOK, gamedto.BalanceResponse{Chips: balance})
}

func (s *Server) handleBuyChips(ctx *fasthttp.RequestCtx) {
	var req gamedto.BuyChipsRequest
	if !s.decode(ctx, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(ctx, err)
		return
	}
	balance, err := s.chips.Credit(ctx, strings.TrimSpace(req.PlayerID), req.Amount)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, gamedto.BuyChipsResponse{Success: true, NewBalance: balance})
}

func (s *Server) handleHistory(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	playerID := strings.TrimSpace(string(args.Peek("playerId")))
	if playerID == "" {
		s.fail(ctx, gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: "playerId is required"})
		return
	}

	limit := s.historyLimit
	if raw := string(args.Peek("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.fail(ctx, gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	// The recorder clamps to the same bound; pagination has to see the
	// effective limit or a full capped page would read as the last one.
	if limit > history.MaxRecentLimit {
		limit = history.MaxRecentLimit
	}

	var before time.Time
	if raw := string(args.Peek("cursor")); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			s.fail(ctx, gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: "cursor is not a valid timestamp"})
			return
		}
		before = t
	}

	entries, err := s.history.Recent(ctx, playerID, limit, before)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	resp := gamedto.HistoryResponse{
		Games:   make([]gamedto.HistoryGame, 0, len(entries)),
		HasMore: len(entries) == limit,
		Count:   len(entries),
	}
	for _, e := range entries {
		resp.Games = append(resp.Games, gamedto.HistoryGame{
			ID:          e.ID,
			PlayerID:    e.PlayerID,
			Timestamp:   e.Timestamp.UnixMilli(),
			Bet:         e.Bet,
			Result:      e.Result,
			PlayerTotal: e.PlayerTotal,
			DealerTotal: e.DealerTotal,
			PlayerCards: cards(e.PlayerHand),
			DealerCards: cards(e.DealerHand),
			Winnings:    e.Winnings,
		})
	}
	if resp.HasMore && len(entries) > 0 {
		resp.Cursor = entries[len(entries)-1].Timestamp.Format(time.RFC3339Nano)
	}
	s.writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleAdvice(ctx *fasthttp.RequestCtx) {
	var req gamedto.AdviceRequest
	if !s.decode(ctx, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(ctx, err)
		return
	}
	if s.advisor == nil {
		s.fail(ctx, advisor.ErrUnavailable)
		return
	}
	move, err := s.advisor.Suggest(ctx, req.PlayerHand, req.DealerCard)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, gamedto.AdviceResponse{Recommendation: string(move)})
}

func (s *Server) decode(ctx *fasthttp.RequestCtx, dst any) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		s.fail(ctx, gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: "request body is not valid JSON"})
		return false
	}
	return true
}

// fail maps domain sentinels to a stable wire error. Unknown errors are
// reported as retryable storage problems without leaking internals.
func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	var derr gamedto.DomainError
	status := fasthttp.StatusBadRequest

	switch {
	case errors.As(err, &derr):
		status = statusForCode(derr.Code)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		derr = gamedto.DomainError{Code: gamedto.CodeInsufficientFunds}
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, round.ErrInvalidBet),
		errors.Is(err, round.ErrInvalidPlayer):
		derr = gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, round.ErrRoundNotFound):
		derr = gamedto.DomainError{Code: gamedto.CodeInvalidInput, Message: "round not found"}
		status = fasthttp.StatusNotFound
	case errors.Is(err, round.ErrInvalidState), errors.Is(err, round.ErrDuplicateID):
		derr = gamedto.DomainError{Code: gamedto.CodeInvalidState}
		status = fasthttp.StatusConflict
	case errors.Is(err, advisor.ErrUnavailable):
		derr = gamedto.DomainError{Code: gamedto.CodeAdvisorUnavailable}
		status = fasthttp.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		derr = gamedto.DomainError{Code: gamedto.CodeStorageUnavailable, Retryable: true}
		status = fasthttp.StatusServiceUnavailable
	default:
		obslog.L().Error("httpapi_internal_error",
			zap.String("path", string(ctx.Path())),
			zap.Error(err),
		)
		derr = gamedto.DomainError{Code: gamedto.CodeStorageUnavailable, Retryable: true}
		status = fasthttp.StatusServiceUnavailable
	}

	s.writeError(ctx, status, derr)
}

func statusForCode(code string) int {
	switch code {
	case gamedto.CodeInvalidState:
		return fasthttp.StatusConflict
	case gamedto.CodeStorageUnavailable:
		return fasthttp.StatusServiceUnavailable
	case gamedto.CodeAdvisorUnavailable:
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusBadRequest
	}
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, derr gamedto.DomainError) {
	msg := derr.Message
	if msg == "" && s.msgs != nil {
		msg = s.msgs.Text("error." + derr.Code)
	}
	if msg == "" {
		msg = derr.Error()
	}
	s.writeJSON(ctx, status, gamedto.ErrorResponse{
		Error:     msg,
		Code:      derr.Code,
		Retryable: derr.Retryable,
	})
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		obslog.L().Error("httpapi_encode_failed", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetBody(body)
}

func snapshot(res *round.Result) gamedto.RoundSnapshot {
	r := res.Round
	return gamedto.RoundSnapshot{
		RoundID:     r.ID,
		PlayerCards: cards(r.PlayerHand),
		DealerCards: cards(r.DealerHand),
		PlayerTotal: r.PlayerTotal(),
		DealerTotal: r.DealerTotal(),
		Result:      string(r.Outcome),
		GameActive:  r.Status == round.StatusActive,
		Balance:     res.Balance,
	}
}

func cards(h blackjack.Hand) []gamedto.Card {
	out := make([]gamedto.Card, 0, len(h))
	for _, c := range h {
		out = append(out, gamedto.Card{Rank: string(c.Rank), Value: c.Value})
	}
	return out
}
