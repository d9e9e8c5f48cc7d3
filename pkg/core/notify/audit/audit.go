package audit

import (
	// 外部依赖
	"context"
	"encoding/json"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	notify "github.com/metabuildlab/lims/pkg/core/notify"
	events "github.com/metabuildlab/lims/pkg/core/notify/events"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
)

// channels 审计覆盖的全部生命周期频道
var channels = []notify.Action{
	notify.SampleStatusChanged,
	notify.JobStatusChanged,
	notify.ReceiptCreated,
	notify.InvoiceIssued,
}

// Register 在服务启动时订阅生命周期事件，统一落审计日志
func Register(ctx context.Context) error {
	center := events.NewEvents()
	for _, channel := range channels {
		if err := center.Registry(ctx, channel, logEvent); err != nil {
			return err
		}
	}
	return nil
}

func logEvent(ctx context.Context, payload string) error {
	msg := &notify.SendMsg{}
	if err := json.Unmarshal([]byte(payload), msg); err != nil {
		return code.NotifyHandleMsgErr.WithErr(err)
	}

	logger.Infof(ctx, "audit action: %s entity: %s sample: %s actor: %d",
		msg.Channel, msg.EntityID, msg.SampleUUID, msg.ActorID)
	return nil
}
