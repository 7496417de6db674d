package orchestrator

import (
	"context"
	"time"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/limiter"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/metrics"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/deck"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/outline"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/storage"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/pkg/errors"
)

type GenerateRequest struct {
	RequestID string
	presentation.Request
}

type GenerateResponse struct {
	RequestID string
	URL       string
	Title     string
	Slides    int
}

type Orchestrator struct {
	outlineSvc *outline.Service
	deckSvc    *deck.Service
	storageSvc *storage.Service
	limiter    *limiter.Limiter
	queueWait  time.Duration
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func New(
	outlineSvc *outline.Service,
	deckSvc *deck.Service,
	storageSvc *storage.Service,
	lim *limiter.Limiter,
	m *metrics.Metrics,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		outlineSvc: outlineSvc,
		deckSvc:    deckSvc,
		storageSvc: storageSvc,
		limiter:    lim,
		metrics:    m,
		logger:     log,
	}
}

// WithQueueWait lets a request wait up to d for a free generation slot
// before it is rejected. Zero rejects at once when the limiter is full.
func (o *Orchestrator) WithQueueWait(d time.Duration) *Orchestrator {
	o.queueWait = d
	return o
}

// Generate builds an outline, renders it and stores the deck. At most
// limiter.MaxConcurrent generations run at once; a request that cannot get
// a slot within the queue wait fails with ErrCodeRateLimited.
func (o *Orchestrator) Generate(ctx context.Context, req *GenerateRequest) (resp *GenerateResponse, err error) {
	start := time.Now()
	defer func() {
		code := "OK"
		if err != nil {
			code = errors.Code(err)
		}
		o.metrics.ObserveRequest(code, time.Since(start))
	}()

	release, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	log := o.logger.With("request_id", req.RequestID)
	log.Info("starting deck generation",
		"slides", req.Slides,
		"style", req.Style,
		"has_requirements", req.Requirements != "",
	)

	ol, err := o.outlineSvc.Build(ctx, req.Request)
	if err != nil {
		log.Error("failed to build outline", "error", err)
		return nil, err
	}
	log.Info("outline built", "title", ol.Title, "slides", len(ol.Slides))

	data, err := o.deckSvc.Render(ol, req.Style)
	if err != nil {
		log.Error("failed to render deck", "error", err)
		return nil, err
	}

	url, err := o.storageSvc.Save(ctx, req.RequestID, deck.Extension, data)
	if err != nil {
		log.Error("failed to save deck", "error", err)
		return nil, err
	}

	o.metrics.AddSlides(string(req.Style), len(ol.Slides))
	log.Info("deck saved", "url", url)

	return &GenerateResponse{
		RequestID: req.RequestID,
		URL:       url,
		Title:     ol.Title,
		Slides:    len(ol.Slides),
	}, nil
}

func (o *Orchestrator) acquire(ctx context.Context) (func(), error) {
	if o.queueWait <= 0 {
		release, ok := o.limiter.TryAcquire()
		if !ok {
			return nil, errors.New(errors.ErrCodeRateLimited, "too many presentations in progress")
		}
		return release, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, o.queueWait)
	defer cancel()
	release, err := o.limiter.Acquire(waitCtx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRateLimited, "too many presentations in progress")
	}
	return release, nil
}
