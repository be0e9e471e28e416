package service

import (
	"context"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"

	"go.uber.org/zap"
)

type Sender func(ctx context.Context, ob *model.GroupOutbox) error

// OutboxRelayer 从 group_outbox 表批量取待发事件投递出去
type OutboxRelayer struct {
	repo      OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

func NewOutboxRelayer(repo OutboxRepository, sender Sender, log *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed",
				zap.Uint64("id", ob.ID),
				zap.String("event", ob.EventType),
				zap.Error(err))
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender 群组事件按 group_id 分区投递
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.GroupOutbox) error {
		return p.Send(ctx, pkg.GroupKey(ob.GroupID), []byte(ob.Payload))
	}
}

// LogSender kafka 未配置时的兜底
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ob *model.GroupOutbox) error {
		log.Info("outbox event",
			zap.String("event", ob.EventType),
			zap.Uint64("group_id", ob.GroupID),
			zap.Uint64("actor_id", ob.ActorID))
		return nil
	}
}
