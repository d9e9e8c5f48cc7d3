package audit

import (
	// 外部依赖
	"encoding/json"
	"errors"
	"testing"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	notify "github.com/metabuildlab/lims/pkg/core/notify"
	events "github.com/metabuildlab/lims/pkg/core/notify/events"
)

func TestRegisterAndLocalDispatch(t *testing.T) {
	ctx := t.Context()

	// redis 未启用时走本地回调
	if err := Register(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 频道已占用，重复注册报错
	if err := Register(ctx); !errors.Is(err, code.NotifyActionAlreadyRegistryErr) {
		t.Errorf("re-register err = %v, want NotifyActionAlreadyRegistryErr", err)
	}

	// 广播经本地回调进入审计处理
	err := events.NewEvents().Broadcast(ctx, &notify.SendMsg{
		Channel:    notify.SampleStatusChanged,
		SampleUUID: uuid.NewV4(),
		EntityID:   "MBL2026080001",
		ActorID:    1,
	})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
}

func TestLogEventPayloads(t *testing.T) {
	ctx := t.Context()

	if err := logEvent(ctx, "{not json"); !errors.Is(err, code.NotifyHandleMsgErr) {
		t.Errorf("bad payload err = %v, want NotifyHandleMsgErr", err)
	}

	data, err := json.Marshal(&notify.SendMsg{
		Channel:  notify.JobStatusChanged,
		EntityID: "JOB2026080001",
		ActorID:  2,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := logEvent(ctx, string(data)); err != nil {
		t.Errorf("valid payload err = %v", err)
	}
}
