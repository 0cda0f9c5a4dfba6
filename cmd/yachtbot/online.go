package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/songowen/duelboard/internal/ai"
	"github.com/songowen/duelboard/internal/client"
	"github.com/songowen/duelboard/internal/config"
	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/lobby"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/utils"
)

// thinkDelay keeps the bot from answering faster than a person could read.
const thinkDelay = 400 * time.Millisecond

// playOnline seats the bot in a room and plays matches until the requested
// number of rematches is done.
func playOnline(ctx context.Context, out io.Writer, cfg config.ClientConfig, level ai.Difficulty, invite string, rematches int) error {
	log := logger.New("yachtbot")
	identity, err := client.LoadIdentity(cfg.IdentityFile, cfg.Nickname)
	if err != nil {
		return err
	}
	session := client.NewSession(cfg.ServerURL, identity)
	room := client.NewRoom(session, client.RoomOptions{
		PollInterval:      cfg.PollInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
	})
	votes := lobby.New(room, cfg.VoteInterval)
	policy, err := ai.NewPolicy(level, nil)
	if err != nil {
		return err
	}

	if invite == "" {
		roomID, err := room.Create(ctx)
		if err != nil {
			return err
		}
		link, err := utils.InviteLink(cfg.ServerURL, roomID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "waiting for an opponent: %s\n", link)
	} else {
		roomID, err := utils.RoomFromInvite(invite)
		if err != nil {
			return err
		}
		seat, err := room.Join(ctx, roomID)
		if err != nil {
			return fmt.Errorf("join %s: %s", roomID, apperrors.UserMessage(language.English, err, apperrors.CodeJoinFailed))
		}
		fmt.Fprintf(out, "joined room %s as seat %d\n", roomID, seat)
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	g.Go(func() error { return ignoreCancel(room.Run(ctx)) })
	g.Go(func() error { return ignoreCancel(votes.Run(ctx)) })
	g.Go(func() error {
		defer cancel()
		votes.SetReady(true)
		return play(ctx, out, log, room, votes, policy, rematches)
	})
	return g.Wait()
}

func ignoreCancel(err error) error {
	if err == context.Canceled {
		return nil
	}
	return err
}

func play(ctx context.Context, out io.Writer, log logger.Logger, room *client.Room, votes *lobby.Lobby, policy ai.Policy, rematches int) error {
	watch := room.Watch()
	ticker := time.NewTicker(thinkDelay)
	defer ticker.Stop()
	reported := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watch:
		case <-ticker.C:
		}

		snap := room.Snapshot()
		if snap.State == nil {
			continue
		}
		if snap.State.Finished() {
			if reported == snap.RoomID {
				continue
			}
			reported = snap.RoomID
			printResult(out, snap)
			if rematches == 0 {
				return nil
			}
			rematches--
			if err := votes.VoteRematch(); err != nil {
				log.Error("Rematch vote failed", err)
			}
			continue
		}
		if !votes.BoardUnlocked() || !snap.MySeatToMove() || snap.Busy {
			continue
		}
		m := policy.Decide(snap.State.Dice, snap.State.RollsUsed, snap.State.Card(snap.Seat))
		if err := room.Submit(ctx, m); err != nil {
			log.Info(fmt.Sprintf("Move not accepted: %s", apperrors.UserMessage(language.English, err, apperrors.CodeMoveFailed)))
		}
	}
}

func printResult(out io.Writer, snap client.Snapshot) {
	s := snap.State
	mine, theirs := s.Total(snap.Seat), s.Total(snap.Seat.Other())
	winner, draw, _ := s.Winner()
	switch {
	case draw:
		fmt.Fprintf(out, "draw %d:%d in room %s\n", mine, theirs, snap.RoomID)
	case winner == snap.Seat:
		fmt.Fprintf(out, "won %d:%d in room %s\n", mine, theirs, snap.RoomID)
	default:
		fmt.Fprintf(out, "lost %d:%d in room %s\n", mine, theirs, snap.RoomID)
	}
}
