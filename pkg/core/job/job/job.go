package job

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	identifier "github.com/metabuildlab/lims/pkg/core/identifier"
	core "github.com/metabuildlab/lims/pkg/core/job"
	notify "github.com/metabuildlab/lims/pkg/core/notify"
	events "github.com/metabuildlab/lims/pkg/core/notify/events"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoAccount "github.com/metabuildlab/lims/pkg/repo/account"
	repoJob "github.com/metabuildlab/lims/pkg/repo/job"
	repoSample "github.com/metabuildlab/lims/pkg/repo/sample"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type jobImpl struct {
	jobStore     repo.JobRepo
	sampleStore  repo.SampleRepo
	accountStore repo.AccountRepo
	idGen        identifier.Generator
	events       notify.MsgCenter
}

func New() core.Service {
	return &jobImpl{
		jobStore:     repoJob.NewJobRepo(),
		sampleStore:  repoSample.NewSampleRepo(),
		accountStore: repoAccount.NewAccountRepo(),
		idGen:        identifier.New(),
		events:       events.NewEvents(),
	}
}

func (j *jobImpl) Create(ctx context.Context, req *core.CreateReq) (*core.JobResp, error) {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return nil, code.UnLogin
	}

	// 绑定层之外也要兜底，任务至少覆盖一项测试
	if len(req.TestUUIDs) == 0 {
		return nil, code.ValidationErr.WithMsg("job requires at least one test")
	}

	sample, err := j.sampleStore.GetSampleByUUID(ctx, req.SampleUUID)
	if err != nil {
		return nil, err
	}
	if sample.Status.Terminal() {
		return nil, code.InvalidTransition.WithMsgf("sample %s is %s", sample.SampleID, sample.Status)
	}

	tests, err := j.sampleStore.GetTestsByUUIDs(ctx, sample.ID, req.TestUUIDs)
	if err != nil {
		return nil, err
	}
	if len(tests) != len(req.TestUUIDs) {
		return nil, code.ValidationErr.WithMsg("some tests do not belong to this sample")
	}

	priority := req.Priority
	if priority == "" {
		priority = sample.Priority
	}
	if !priority.Valid() {
		return nil, code.ValidationErr.WithMsgf("invalid priority: %s", priority)
	}

	now := time.Now()
	data := &model.Job{
		SampleID:     sample.ID,
		CreatedByID:  currentUser.ID,
		Priority:     priority,
		Status:       model.JobPending,
		DueDate:      req.DueDate,
		Instructions: req.Instructions,
	}

	if req.AssignedToUUID != nil {
		assignee, err := j.technician(ctx, *req.AssignedToUUID)
		if err != nil {
			return nil, err
		}
		data.AssignedToID = &assignee.ID
		data.Status = model.JobAssigned
		data.AssignedDate = &now
	}

	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if data.JobID, err = j.idGen.NextJobID(txCtx, now); err != nil {
			return err
		}
		return j.jobStore.CreateJob(txCtx, data,
			utils.MapSlice(tests, func(t *model.SampleTest) int64 { return t.ID }))
	})
	if err != nil {
		logger.Errorf(ctx, "CreateJob sample: %s err: %+v", sample.SampleID, err)
		return nil, err
	}

	return j.Get(ctx, data.UUID)
}

func (j *jobImpl) Get(ctx context.Context, id uuid.UUID) (*core.JobResp, error) {
	job, err := j.jobStore.GetJobByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return j.jobResp(ctx, job), nil
}

func (j *jobImpl) List(ctx context.Context, req *core.ListReq) (*common.PageResp[[]*core.JobResp], error) {
	req.Normalize()
	q := repo.JobQuery{
		Status:   req.Status,
		Priority: req.Priority,
		Offset:   req.Offset(),
		Limit:    req.PageSize,
	}
	if req.SampleUUID != nil {
		sampleID := j.jobStore.UUID2ID(ctx, &model.Sample{}, *req.SampleUUID)[*req.SampleUUID]
		if sampleID == 0 {
			return nil, code.SampleNotFound
		}
		q.SampleID = &sampleID
	}
	if req.AssignedToUUID != nil {
		userID := j.jobStore.UUID2ID(ctx, &model.User{}, *req.AssignedToUUID)[*req.AssignedToUUID]
		if userID == 0 {
			return nil, code.UserNotFound
		}
		q.AssignedToID = &userID
	}

	list, total, err := j.jobStore.ListJobs(ctx, q)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.JobResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List: utils.MapSlice(list, func(job *model.Job) *core.JobResp {
			return j.jobResp(ctx, job)
		}),
	}, nil
}

func (j *jobImpl) Assign(ctx context.Context, req *core.AssignReq) error {
	job, err := j.jobStore.GetJobByUUID(ctx, req.UUID)
	if err != nil {
		return err
	}

	assignee, err := j.technician(ctx, req.AssignedToUUID)
	if err != nil {
		return err
	}

	now := time.Now()
	ok, err := j.jobStore.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobPending, model.JobAssigned}, model.JobAssigned,
		map[string]any{
			"assigned_to_id": assignee.ID,
			"assigned_date":  now,
		})
	if err != nil {
		return err
	}
	if !ok {
		return code.InvalidTransition.WithMsgf("job %s is %s", job.JobID, job.Status)
	}

	j.broadcast(ctx, job, model.JobAssigned)
	return nil
}

// StartWork 开工，received 状态的样品随之进入 in_progress
func (j *jobImpl) StartWork(ctx context.Context, id uuid.UUID) error {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return code.UnLogin
	}

	job, err := j.jobStore.GetJobByUUID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		ok, err := j.jobStore.UpdateJobStatus(txCtx, job.ID,
			[]model.JobStatus{model.JobPending, model.JobAssigned}, model.JobInProgress,
			map[string]any{"started_date": now})
		if err != nil {
			return err
		}
		if !ok {
			return code.InvalidTransition.WithMsgf("job %s is %s", job.JobID, job.Status)
		}

		if job.Sample != nil && job.Sample.Status == model.SampleReceived {
			return j.sampleStore.SetStatus(txCtx, &repo.StatusChange{
				SampleID: job.SampleID,
				Old:      model.SampleReceived,
				New:      model.SampleInProgress,
				ActorID:  currentUser.ID,
				Notes:    fmt.Sprintf("work started on job %s", job.JobID),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	j.broadcast(ctx, job, model.JobInProgress)
	return nil
}

// Complete 完结工作单并完结其覆盖的测试项；
// 该样品最后一张未完结单被完结时，in_progress 样品进入 testing
func (j *jobImpl) Complete(ctx context.Context, req *core.CompleteReq) error {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return code.UnLogin
	}

	job, err := j.jobStore.GetJobByUUID(ctx, req.UUID)
	if err != nil {
		return err
	}

	now := time.Now()
	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		extra := map[string]any{"completed_date": now}
		if req.Notes != "" {
			extra["notes"] = appendNote(job.Notes, now, "Completed: "+req.Notes)
		}
		ok, err := j.jobStore.UpdateJobStatus(txCtx, job.ID,
			[]model.JobStatus{model.JobInProgress}, model.JobCompleted, extra)
		if err != nil {
			return err
		}
		if !ok {
			return code.InvalidTransition.WithMsgf("job %s is %s", job.JobID, job.Status)
		}

		testIDs, err := j.jobStore.ListJobTestIDs(txCtx, job.ID)
		if err != nil {
			return err
		}
		if len(testIDs) > 0 {
			if err := j.sampleStore.CompleteTests(txCtx, testIDs, currentUser.ID, now); err != nil {
				return err
			}
		}

		outstanding, err := j.jobStore.HasOutstandingSiblings(txCtx, job.SampleID, job.ID)
		if err != nil {
			return err
		}
		if !outstanding && job.Sample != nil && job.Sample.Status == model.SampleInProgress {
			return j.sampleStore.SetStatus(txCtx, &repo.StatusChange{
				SampleID: job.SampleID,
				Old:      model.SampleInProgress,
				New:      model.SampleTesting,
				ActorID:  currentUser.ID,
				Notes:    fmt.Sprintf("all jobs completed, last job %s", job.JobID),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	j.broadcast(ctx, job, model.JobCompleted)
	return nil
}

func (j *jobImpl) PutOnHold(ctx context.Context, req *core.HoldReq) error {
	job, err := j.jobStore.GetJobByUUID(ctx, req.UUID)
	if err != nil {
		return err
	}

	now := time.Now()
	ok, err := j.jobStore.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobAssigned, model.JobInProgress}, model.JobOnHold,
		map[string]any{
			"notes": appendNote(job.Notes, now, "On hold: "+req.Reason),
		})
	if err != nil {
		return err
	}
	if !ok {
		return code.InvalidTransition.WithMsgf("job %s is %s", job.JobID, job.Status)
	}

	j.broadcast(ctx, job, model.JobOnHold)
	return nil
}

func (j *jobImpl) Resume(ctx context.Context, id uuid.UUID) error {
	job, err := j.jobStore.GetJobByUUID(ctx, id)
	if err != nil {
		return err
	}

	extra := map[string]any{}
	if job.StartedDate == nil {
		extra["started_date"] = time.Now()
	}
	ok, err := j.jobStore.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobOnHold}, model.JobInProgress, extra)
	if err != nil {
		return err
	}
	if !ok {
		return code.InvalidTransition.WithMsgf("job %s is %s", job.JobID, job.Status)
	}

	j.broadcast(ctx, job, model.JobInProgress)
	return nil
}

// technician 指派对象必须是在职技术员
func (j *jobImpl) technician(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := j.accountStore.GetUserByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, code.UserDisabled
	}
	if !user.IsTechnician() {
		return nil, code.NotTechnicianErr.WithMsgf("user %s role is %s", user.Username, user.Role)
	}
	return user, nil
}

func appendNote(notes string, at time.Time, line string) string {
	stamped := fmt.Sprintf("[%s] %s", at.Format("2006-01-02 15:04"), line)
	if notes == "" {
		return stamped
	}
	return notes + "\n" + stamped
}

func (j *jobImpl) broadcast(ctx context.Context, job *model.Job, status model.JobStatus) {
	msg := &notify.SendMsg{
		Channel:  notify.JobStatusChanged,
		EntityID: job.JobID,
		Data:     map[string]any{"status": status},
	}
	if job.Sample != nil {
		msg.SampleUUID = job.Sample.UUID
	}
	if err := j.events.Broadcast(ctx, msg); err != nil {
		logger.Warnf(ctx, "broadcast job status job: %s err: %+v", job.JobID, err)
	}
}

func (j *jobImpl) jobResp(ctx context.Context, job *model.Job) *core.JobResp {
	resp := &core.JobResp{
		UUID:          job.UUID,
		JobID:         job.JobID,
		Priority:      job.Priority,
		Status:        job.Status,
		AssignedDate:  job.AssignedDate,
		DueDate:       job.DueDate,
		StartedDate:   job.StartedDate,
		CompletedDate: job.CompletedDate,
		Instructions:  job.Instructions,
		Notes:         job.Notes,
	}
	if job.Sample != nil {
		resp.SampleUUID = job.Sample.UUID
		resp.SampleID = job.Sample.SampleID
	}
	if job.AssignedToID != nil {
		if u, ok := j.jobStore.ID2UUID(ctx, &model.User{}, *job.AssignedToID)[*job.AssignedToID]; ok {
			resp.AssignedToUUID = &u
		}
	}
	for idx := range job.Tests {
		t := &job.Tests[idx]
		jt := &core.JobTestResp{UUID: t.UUID, IsCompleted: t.IsCompleted}
		if t.TestItem != nil {
			jt.TestName = t.TestItem.TestName
			jt.SystemCode = t.TestItem.SystemCode
		}
		resp.Tests = append(resp.Tests, jt)
	}
	return resp
}
