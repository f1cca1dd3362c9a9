package selection

import (
	"context"

	"go.uber.org/zap"
)

// Notifier receives every operation outcome, changed or not.
type Notifier interface {
	Notify(ctx context.Context, owner string, n Notice)
}

type NotifierFunc func(ctx context.Context, owner string, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, owner string, n Notice) { f(ctx, owner, n) }

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, Notice) {}

// LogNotifier writes notices to the service log. Rejections log at Info so
// limit hits are visible without a separate metric.
type LogNotifier struct {
	Log *zap.Logger
}

func (l LogNotifier) Notify(_ context.Context, owner string, n Notice) {
	if l.Log == nil {
		return
	}
	fields := []zap.Field{
		zap.String("owner", owner),
		zap.String("list", string(n.List)),
		zap.String("action", string(n.Action)),
		zap.String("product_id", n.ProductID),
	}
	if n.Changed() {
		l.Log.Debug("selection changed", fields...)
		return
	}
	l.Log.Info("selection unchanged", fields...)
}

// Notifiers fans one notice out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, owner string, n Notice) {
	for _, x := range ns {
		if x != nil {
			x.Notify(ctx, owner, n)
		}
	}
}
