package intake

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	identifier "github.com/metabuildlab/lims/pkg/core/identifier"
	core "github.com/metabuildlab/lims/pkg/core/intake"
	notify "github.com/metabuildlab/lims/pkg/core/notify"
	events "github.com/metabuildlab/lims/pkg/core/notify/events"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoClient "github.com/metabuildlab/lims/pkg/repo/client"
	repoPricing "github.com/metabuildlab/lims/pkg/repo/pricing"
	repoSample "github.com/metabuildlab/lims/pkg/repo/sample"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type intakeImpl struct {
	clientStore  repo.ClientRepo
	sampleStore  repo.SampleRepo
	pricingStore repo.PricingRepo
	idGen        identifier.Generator
	events       notify.MsgCenter
}

func New() core.Service {
	return &intakeImpl{
		clientStore:  repoClient.NewClientRepo(),
		sampleStore:  repoSample.NewSampleRepo(),
		pricingStore: repoPricing.NewPricingRepo(),
		idGen:        identifier.New(),
		events:       events.NewEvents(),
	}
}

func (i *intakeImpl) CreateClient(ctx context.Context, req *core.CreateClientReq) (*core.ClientResp, error) {
	data := &model.Client{
		Name:                req.Name,
		ContactPerson:       req.ContactPerson,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		CompanyRegistration: req.CompanyRegistration,
		IsActive:            true,
	}
	if err := i.clientStore.CreateClient(ctx, data); err != nil {
		logger.Errorf(ctx, "CreateClient name: %s err: %+v", req.Name, err)
		return nil, err
	}
	return clientResp(data), nil
}

func (i *intakeImpl) UpdateClient(ctx context.Context, req *core.UpdateClientReq) error {
	data := map[string]any{}
	if req.Name != nil {
		data["name"] = *req.Name
	}
	if req.ContactPerson != nil {
		data["contact_person"] = *req.ContactPerson
	}
	if req.Email != nil {
		data["email"] = *req.Email
	}
	if req.Phone != nil {
		data["phone"] = *req.Phone
	}
	if req.Address != nil {
		data["address"] = *req.Address
	}
	if req.CompanyRegistration != nil {
		data["company_registration"] = *req.CompanyRegistration
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}
	if len(data) == 0 {
		return code.ParamErr.WithMsg("no fields to update")
	}
	return i.clientStore.UpdateClientByUUID(ctx, req.UUID, data)
}

func (i *intakeImpl) GetClient(ctx context.Context, id uuid.UUID) (*core.ClientResp, error) {
	client, err := i.clientStore.GetClientByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return clientResp(client), nil
}

func (i *intakeImpl) ListClients(ctx context.Context, req *core.ListClientReq) (*common.PageResp[[]*core.ClientResp], error) {
	req.Normalize()
	list, total, err := i.clientStore.ListClients(ctx, repo.ClientQuery{
		NameLike:   req.Name,
		ActiveOnly: req.ActiveOnly,
		Offset:     req.Offset(),
		Limit:      req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.ClientResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     utils.MapSlice(list, clientResp),
	}, nil
}

// DeleteClient 名下有样品的客户停用，无样品的直接删除
func (i *intakeImpl) DeleteClient(ctx context.Context, id uuid.UUID) (*core.DeleteClientResp, error) {
	client, err := i.clientStore.GetClientByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := i.clientStore.CountSamples(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		if err := i.clientStore.UpdateClientByUUID(ctx, id, map[string]any{"is_active": false}); err != nil {
			return nil, err
		}
		return &core.DeleteClientResp{Deactivated: true}, nil
	}

	if err := i.clientStore.DeleteClient(ctx, client.ID); err != nil {
		return nil, err
	}
	return &core.DeleteClientResp{Deactivated: false}, nil
}

func (i *intakeImpl) RegisterSample(ctx context.Context, req *core.RegisterSampleReq) (*core.SampleResp, error) {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return nil, code.UnLogin
	}

	client, err := i.clientStore.GetClientByUUID(ctx, req.ClientUUID)
	if err != nil {
		return nil, err
	}

	condition := req.SampleCondition
	if condition == "" {
		condition = model.ConditionGood
	}
	if !condition.Valid() {
		return nil, code.ValidationErr.WithMsgf("invalid sample condition: %s", condition)
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !priority.Valid() {
		return nil, code.ValidationErr.WithMsgf("invalid priority: %s", priority)
	}

	tests, err := i.buildTests(ctx, req.Tests)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sample := &model.Sample{
		ClientID:            client.ID,
		SampleType:          req.SampleType,
		SampleDescription:   req.SampleDescription,
		SampleCondition:     condition,
		Quantity:            req.Quantity,
		LocationCollected:   req.LocationCollected,
		CollectionDate:      req.CollectionDate,
		ReceivedByID:        currentUser.ID,
		ReceivedDate:        now,
		Priority:            priority,
		Status:              model.SampleReceived,
		SpecialInstructions: req.SpecialInstructions,
		DeliveryMethod:      req.DeliveryMethod,
		CourierDetails:      req.CourierDetails,
		Notes:               req.Notes,
	}

	// 编号生成与落库同一事务，失败时序号空洞可接受
	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if sample.SampleID, err = i.idGen.NextSampleID(txCtx, now); err != nil {
			return err
		}
		if sample.ClientReference, err = i.idGen.NextClientReference(txCtx, now); err != nil {
			return err
		}
		if err := i.sampleStore.CreateSample(txCtx, sample, tests); err != nil {
			return err
		}
		// 初始状态记录，旧状态留空
		return i.sampleStore.CreateData(txCtx, &model.SampleStatusHistory{
			SampleID:    sample.ID,
			NewStatus:   model.SampleReceived,
			ChangedByID: currentUser.ID,
			ChangedAt:   now,
			Notes:       "sample registered",
		})
	})
	if err != nil {
		logger.Errorf(ctx, "RegisterSample client: %s err: %+v", client.Name, err)
		return nil, err
	}

	i.broadcast(ctx, sample, currentUser.ID, "", model.SampleReceived)

	return i.GetSample(ctx, sample.UUID)
}

func (i *intakeImpl) GetSample(ctx context.Context, id uuid.UUID) (*core.SampleResp, error) {
	sample, err := i.sampleStore.GetSampleByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sampleResp(sample), nil
}

func (i *intakeImpl) ListSamples(ctx context.Context, req *core.ListSampleReq) (*common.PageResp[[]*core.SampleResp], error) {
	req.Normalize()
	q := repo.SampleQuery{
		Status:            req.Status,
		Priority:          req.Priority,
		SampleIDLike:      req.SampleID,
		ReceivedFrom:      req.ReceivedFrom,
		ReceivedTo:        req.ReceivedTo,
		ReceiptCandidates: req.ReceiptCandidates,
		Offset:            req.Offset(),
		Limit:             req.PageSize,
	}
	if req.ClientUUID != nil {
		clientID := i.clientStore.UUID2ID(ctx, &model.Client{}, *req.ClientUUID)[*req.ClientUUID]
		if clientID == 0 {
			return nil, code.ClientNotFound
		}
		q.ClientID = &clientID
	}

	list, total, err := i.sampleStore.ListSamples(ctx, q)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.SampleResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     utils.MapSlice(list, sampleResp),
	}, nil
}

func (i *intakeImpl) AddTests(ctx context.Context, req *core.AddTestsReq) error {
	sample, err := i.sampleStore.GetSampleByUUID(ctx, req.SampleUUID)
	if err != nil {
		return err
	}
	if sample.Status.Terminal() {
		return code.InvalidTransition.WithMsgf("sample %s is %s", sample.SampleID, sample.Status)
	}

	tests, err := i.buildTests(ctx, req.Tests)
	if err != nil {
		return err
	}
	for _, t := range tests {
		t.SampleID = sample.ID
	}
	return i.sampleStore.AddTests(ctx, tests)
}

// UpdateSampleStatus 人工流转：目标状态合法即可，但终态不再变更
func (i *intakeImpl) UpdateSampleStatus(ctx context.Context, req *core.UpdateStatusReq) error {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return code.UnLogin
	}

	if !req.Status.Valid() {
		return code.ValidationErr.WithMsgf("invalid sample status: %s", req.Status)
	}

	sample, err := i.sampleStore.GetSampleByUUID(ctx, req.SampleUUID)
	if err != nil {
		return err
	}
	if sample.Status == req.Status {
		return code.InvalidTransition.WithMsgf("sample %s already %s", sample.SampleID, sample.Status)
	}
	if sample.Status.Terminal() {
		return code.InvalidTransition.WithMsgf("sample %s is %s", sample.SampleID, sample.Status)
	}

	if err := i.sampleStore.SetStatus(ctx, &repo.StatusChange{
		SampleID: sample.ID,
		Old:      sample.Status,
		New:      req.Status,
		ActorID:  currentUser.ID,
		Notes:    req.Notes,
	}); err != nil {
		return err
	}

	i.broadcast(ctx, sample, currentUser.ID, sample.Status, req.Status)
	return nil
}

func (i *intakeImpl) StatusHistory(ctx context.Context, id uuid.UUID) ([]*core.StatusChangeResp, error) {
	sample, err := i.sampleStore.GetSampleByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := i.sampleStore.ListStatusHistory(ctx, sample.ID)
	if err != nil {
		return nil, err
	}
	return utils.MapSlice(history, func(h *model.SampleStatusHistory) *core.StatusChangeResp {
		return &core.StatusChangeResp{
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			ChangedAt: h.ChangedAt,
			Notes:     h.Notes,
		}
	}), nil
}

// buildTests 将测试项引用解析为待落库的关联记录
func (i *intakeImpl) buildTests(ctx context.Context, reqs []*core.TestReq) ([]*model.SampleTest, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	itemUUIDs := utils.MapSlice(reqs, func(t *core.TestReq) uuid.UUID { return t.TestItemUUID })
	items, err := i.pricingStore.GetTestItemsByUUIDs(ctx, itemUUIDs)
	if err != nil {
		return nil, err
	}
	itemByUUID := make(map[uuid.UUID]*model.TestItem, len(items))
	for _, item := range items {
		itemByUUID[item.UUID] = item
	}

	tests := make([]*model.SampleTest, 0, len(reqs))
	for _, t := range reqs {
		item, ok := itemByUUID[t.TestItemUUID]
		if !ok {
			return nil, code.TestItemNotFound
		}
		qty := t.QuantityRequested
		if qty <= 0 {
			qty = 1
		}
		tests = append(tests, &model.SampleTest{
			TestItemID:          item.ID,
			QuantityRequested:   qty,
			SpecialRequirements: t.SpecialRequirements,
		})
	}
	return tests, nil
}

func (i *intakeImpl) broadcast(ctx context.Context, sample *model.Sample, actorID int64,
	oldStatus model.SampleStatus, newStatus model.SampleStatus) {
	if err := i.events.Broadcast(ctx, &notify.SendMsg{
		Channel:    notify.SampleStatusChanged,
		SampleUUID: sample.UUID,
		EntityID:   sample.SampleID,
		ActorID:    actorID,
		Data: map[string]any{
			"old_status": oldStatus,
			"new_status": newStatus,
		},
	}); err != nil {
		logger.Warnf(ctx, "broadcast sample status sample: %s err: %+v", sample.SampleID, err)
	}
}

func clientResp(c *model.Client) *core.ClientResp {
	return &core.ClientResp{
		UUID:                c.UUID,
		Name:                c.Name,
		ContactPerson:       c.ContactPerson,
		Email:               c.Email,
		Phone:               c.Phone,
		Address:             c.Address,
		CompanyRegistration: c.CompanyRegistration,
		IsActive:            c.IsActive,
		CreatedAt:           c.CreatedAt,
	}
}

func sampleResp(s *model.Sample) *core.SampleResp {
	resp := &core.SampleResp{
		UUID:                s.UUID,
		SampleID:            s.SampleID,
		ClientReference:     s.ClientReference,
		SampleType:          s.SampleType,
		SampleDescription:   s.SampleDescription,
		SampleCondition:     s.SampleCondition,
		Quantity:            s.Quantity,
		LocationCollected:   s.LocationCollected,
		CollectionDate:      s.CollectionDate,
		ReceivedDate:        s.ReceivedDate,
		EstimatedCompletion: s.EstimatedCompletion(),
		Priority:            s.Priority,
		Status:              s.Status,
		OnReceipt:           s.ReceiptFormID != nil,
		SpecialInstructions: s.SpecialInstructions,
		DeliveryMethod:      s.DeliveryMethod,
		CourierDetails:      s.CourierDetails,
		Notes:               s.Notes,
	}
	if s.Client != nil {
		resp.ClientUUID = s.Client.UUID
		resp.ClientName = s.Client.Name
	}
	for idx := range s.Tests {
		resp.Tests = append(resp.Tests, testResp(&s.Tests[idx]))
	}
	return resp
}

func testResp(t *model.SampleTest) *core.TestResp {
	resp := &core.TestResp{
		UUID:                t.UUID,
		QuantityRequested:   t.QuantityRequested,
		SpecialRequirements: t.SpecialRequirements,
		IsCompleted:         t.IsCompleted,
		CompletedDate:       t.CompletedDate,
	}
	if t.TestItem != nil {
		resp.TestItemUUID = t.TestItem.UUID
		resp.TestName = t.TestItem.TestName
		resp.SystemCode = t.TestItem.SystemCode
	}
	return resp
}
