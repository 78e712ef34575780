package reconciliation

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// outcome efecto del procesamiento de una valla.
type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeAffected
	outcomeSkipped
)

// forEach procesa las vallas en un pool acotado a cfg.Workers. Un error o panic en una
// valla se registra y cuenta como fallo; el resto continúa. Si ctx se cancela se dejan
// de lanzar nuevas vallas.
func (s *Service) forEach(ctx context.Context, res *SweepResult, items []*entity.Billboard, fn func(context.Context, *entity.Billboard) (outcome, error)) {
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.Workers)

	for _, b := range items {
		if ctx.Err() != nil {
			s.log.Warn().Str("sweep", string(res.Sweep)).Msg("barrido cancelado, vallas pendientes sin procesar")
			break
		}
		b := b
		g.Go(func() error {
			out, err := safeCall(ctx, b, fn)

			mu.Lock()
			defer mu.Unlock()
			res.Processed++
			if err != nil {
				res.Failed++
				s.log.Error().Err(err).Str("sweep", string(res.Sweep)).
					Str("billboard_id", b.ID).Str("code", b.Code).Msg("error procesando valla")
				return nil
			}
			switch out {
			case outcomeAffected:
				res.Affected++
			case outcomeSkipped:
				res.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()
}

func safeCall(ctx context.Context, b *entity.Billboard, fn func(context.Context, *entity.Billboard) (outcome, error)) (out outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx, b)
}
