package consumer

import (
	"context"
	"encoding/json"
	"go-school/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier delivers a leave decision to the employee. The real mail gateway
// lives outside this repo; the default implementation just records delivery.
type Notifier interface {
	NotifyLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error
}

func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveDecided(ctx, event); err != nil {
			log.Error("deliver leave decision notification failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("emp_id", event.EmpID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision notification delivered",
			zap.String("leave_id", event.LeaveID),
			zap.String("emp_id", event.EmpID),
			zap.String("status", event.Status),
		)
	}
}

// LogNotifier is the in-repo Notifier: it writes the would-be email to the
// structured log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) NotifyLeaveDecided(_ context.Context, event events.LeaveDecidedEvent) error {
	n.logger.Info("leave decision notification",
		zap.String("emp_id", event.EmpID),
		zap.String("emp_name", event.EmpName),
		zap.String("leave_type", event.LeaveType),
		zap.String("status", event.Status),
		zap.String("start_date", event.StartDate),
		zap.String("end_date", event.EndDate),
		zap.String("admin_remarks", event.AdminRemarks),
	)
	return nil
}
