package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/metrics"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/aussiebroadwan/lotto/pkg/cryptox"
	"github.com/aussiebroadwan/lotto/pkg/idx"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

// DrawListing is the result of a draw listing. An empty listing is a normal
// result, not an error.
type DrawListing struct {
	Draws []domain.DrawView `json:"draws"`
}

func (l DrawListing) Empty() bool { return len(l.Draws) == 0 }

// DrawService stores draw selections encrypted under their owner's draw key
// and decrypts them only when the owner lists them.
type DrawService struct {
	Store   store.Store
	Audit   *audit.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Submit encrypts and stores a new unplayed draw for userID.
func (s *DrawService) Submit(ctx context.Context, userID string, selection []int) (domain.Draw, error) {
	if err := domain.ValidateSelection(selection); err != nil {
		return domain.Draw{}, validate.Errors{"numbers": err.Error()}
	}

	key, err := s.drawKey(ctx, userID)
	if err != nil {
		return domain.Draw{}, err
	}

	ciphertext, err := cryptox.SealDraw([]byte(domain.FormatSelection(selection)), key)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("seal draw: %w", err)
	}

	d := domain.Draw{
		ID:         idx.New().String(),
		UserID:     userID,
		Ciphertext: ciphertext,
		CreatedAt:  nowFrom(s.Now),
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Draws().CreateDraw(ctx, d)
	})
	if err != nil {
		return domain.Draw{}, fmt.Errorf("%w: create draw: %w", ErrTransaction, err)
	}

	s.Metrics.DrawSubmitted()
	slogx.FromContext(ctx).Info("draw submitted", slog.String("user_id", userID), slog.String("draw_id", d.ID))
	return d, nil
}

func (s *DrawService) ListUnplayed(ctx context.Context, userID string) (DrawListing, error) {
	return s.list(ctx, userID, false)
}

func (s *DrawService) ListPlayed(ctx context.Context, userID string) (DrawListing, error) {
	return s.list(ctx, userID, true)
}

// list decrypts each of the user's draws into a fresh view. A draw that fails
// to decrypt is returned as undecryptable and audited; the others are
// unaffected.
func (s *DrawService) list(ctx context.Context, userID string, played bool) (DrawListing, error) {
	l := slogx.FromContext(ctx)

	rows, err := s.Store.Draws().ListDrawsByUser(ctx, userID, played)
	if err != nil {
		return DrawListing{}, fmt.Errorf("%w: list draws: %w", ErrTransaction, err)
	}
	if len(rows) == 0 {
		return DrawListing{}, nil
	}

	key, err := s.drawKey(ctx, userID)
	if errors.Is(err, cryptox.ErrDecrypt) {
		// The wrapped key itself is unreadable: every draw is undecryptable.
		key = nil
	} else if err != nil {
		return DrawListing{}, err
	}

	views := make([]domain.DrawView, 0, len(rows))
	for _, d := range rows {
		view := domain.DrawView{
			ID:     d.ID,
			Played: d.Played,
			Win:    d.Win,
			Round:  d.Round,
			Status: domain.DrawStatusOK,
		}

		numbers, err := openSelection(d.Ciphertext, key)
		if err != nil {
			view.Status = domain.DrawStatusUndecryptable
			s.Metrics.DecryptFailure()
			l.Warn("draw failed to decrypt", slog.String("user_id", userID), slog.String("draw_id", d.ID))

			if err := s.Audit.Record(ctx, audit.Event{Kind: audit.KindDecryptionFailure, UserID: userID, DrawID: d.ID}); err != nil {
				return DrawListing{}, fmt.Errorf("%w: %w", ErrTransaction, err)
			}
		} else {
			view.Numbers = numbers
		}
		views = append(views, view)
	}
	return DrawListing{Draws: views}, nil
}

func openSelection(ciphertext, key []byte) ([]int, error) {
	if key == nil {
		return nil, cryptox.ErrDecrypt
	}
	plaintext, err := cryptox.OpenDraw(ciphertext, key)
	if err != nil {
		return nil, err
	}
	numbers, err := domain.ParseSelection(string(plaintext))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptox.ErrDecrypt, err)
	}
	return numbers, nil
}

// ClearPlayed deletes the user's played draws and reports how many went.
func (s *DrawService) ClearPlayed(ctx context.Context, userID string) (int64, error) {
	var deleted int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Draws().DeletePlayedDraws(ctx, userID)
		deleted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: clear played draws: %w", ErrTransaction, err)
	}

	s.Metrics.DrawsCleared(deleted)
	slogx.FromContext(ctx).Info("played draws cleared", slog.String("user_id", userID), slog.Int64("deleted", deleted))
	return deleted, nil
}

// Resolve records the result of a round against an unplayed draw. It is the
// hook for the external round resolver; a draw can be resolved only once.
func (s *DrawService) Resolve(ctx context.Context, drawID string, round int, win bool) (domain.Draw, error) {
	var resolved domain.Draw
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		d, err := tx.Draws().GetDrawByID(ctx, drawID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrDrawNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: get draw: %w", ErrTransaction, err)
		}
		if d.Played {
			return ErrDrawAlreadyPlayed
		}

		n, err := tx.Draws().MarkDrawPlayed(ctx, drawID, round, win)
		if err != nil {
			return fmt.Errorf("%w: mark draw played: %w", ErrTransaction, err)
		}
		if n == 0 {
			return ErrDrawAlreadyPlayed
		}

		if err := s.Audit.Record(ctx, audit.Event{Kind: audit.KindDrawResolved, UserID: d.UserID, DrawID: d.ID}); err != nil {
			return fmt.Errorf("%w: %w", ErrTransaction, err)
		}

		d.Played, d.Round, d.Win = true, round, win
		resolved = d
		return nil
	})
	if err != nil {
		return domain.Draw{}, err
	}
	return resolved, nil
}

// drawKey loads and unwraps the user's draw key.
func (s *DrawService) drawKey(ctx context.Context, userID string) ([]byte, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %w", ErrTransaction, err)
	}

	key, err := cryptox.UnwrapKey(u.DrawKey)
	if err != nil {
		slogx.FromContext(ctx).Error("draw key unwrap failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: unwrap draw key: %w", cryptox.ErrDecrypt, err)
	}
	return key, nil
}
