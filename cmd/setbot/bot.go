package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/set-game/api"
	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
	"go.uber.org/zap"
)

// NewRoom asks the bot to create a room instead of joining one
const NewRoom = -1

var ErrTooManyTurns = errors.New("turn limit reached")

// Bot plays one room over the REST API
type Bot struct {
	client   *api.Client
	logger   *zap.Logger
	delay    time.Duration
	maxTurns int
}

// Summary describes how a bot's game went
type Summary struct {
	RoomID   int
	Score    int
	Sets     int
	Misses   int
	Draws    int
	Ended    bool
	Scores   []service.UserScore
	Reason   string
	Duration time.Duration
}

// NewBot creates a bot. delay is waited between turns.
func NewBot(client *api.Client, logger *zap.Logger, delay time.Duration, maxTurns int) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		client:   client,
		logger:   logger,
		delay:    delay,
		maxTurns: maxTurns,
	}
}

// Play registers, enters roomID (or a new room for NewRoom) and claims sets
// until the game ends, no set can be made, or the turn limit is reached
func (b *Bot) Play(ctx context.Context, nickname, password string, roomID int) (*Summary, error) {
	start := time.Now()

	reg, err := b.client.Register(ctx, nickname, password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	token := reg.AccessToken

	if roomID == NewRoom {
		if roomID, err = b.client.CreateRoom(ctx, token); err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}
	}
	if _, err := b.client.EnterRoom(ctx, token, roomID); err != nil {
		return nil, fmt.Errorf("enter room %d: %w", roomID, err)
	}

	b.logger.Info("bot joined", zap.String("nickname", nickname), zap.Int("room", roomID))

	summary := &Summary{RoomID: roomID}
	err = b.loop(ctx, token, summary)

	// the scoreboard is still worth reporting after a turn limit
	if scores, scoreErr := b.client.Scores(ctx, token); scoreErr == nil {
		summary.Scores = scores
	}
	summary.Duration = time.Since(start)
	return summary, err
}

func (b *Bot) loop(ctx context.Context, token string, summary *Summary) error {
	for turn := 0; b.maxTurns <= 0 || turn < b.maxTurns; turn++ {
		if err := b.wait(ctx); err != nil {
			return err
		}

		field, err := b.client.Field(ctx, token)
		if err != nil {
			return fmt.Errorf("field: %w", err)
		}
		summary.Score = field.Score

		if field.Status == engine.StatusEnded {
			summary.Ended = true
			summary.Reason = "game ended"
			return nil
		}

		set, ok := card.FindSet(field.Cards)
		if !ok {
			added, err := b.client.AddCards(ctx, token)
			if err != nil {
				return fmt.Errorf("add cards: %w", err)
			}
			if added == 0 {
				summary.Reason = "no set left on the field and the deck is empty"
				return nil
			}
			summary.Draws++
			continue
		}

		pick, err := b.client.Pick(ctx, token, []int{set[0].ID, set[1].ID, set[2].ID})
		switch {
		case api.IsRemoteKind(err, service.KindValidation):
			// another player claimed one of the cards first
			b.logger.Debug("pick refused", zap.Error(err))
			continue
		case api.IsRemoteKind(err, service.KindGameEnded):
			summary.Ended = true
			summary.Reason = "game ended"
			return nil
		case err != nil:
			return fmt.Errorf("pick: %w", err)
		}

		summary.Score = pick.Score
		if pick.IsSet {
			summary.Sets++
		} else {
			summary.Misses++
		}
	}
	return ErrTooManyTurns
}

func (b *Bot) wait(ctx context.Context) error {
	if b.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(b.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
