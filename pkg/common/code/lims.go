package code

import (
	// 外部依赖
	"net/http"
)

// 通用错误码
var (
	Success     = New(0, http.StatusOK, "success")
	ParamErr    = New(10001, http.StatusBadRequest, "param error")
	InternalErr = New(10002, http.StatusInternalServerError, "internal error")

	UnLogin      = New(10100, http.StatusUnauthorized, "not login")
	InvalidToken = New(10101, http.StatusUnauthorized, "invalid token")
	LoginErr     = New(10102, http.StatusUnauthorized, "invalid username or password")
	NoPermission = New(10103, http.StatusForbidden, "no permission")
	UserDisabled = New(10104, http.StatusForbidden, "user disabled")

	RecordNotFound     = New(10200, http.StatusNotFound, "record not found")
	CreateDataErr      = New(10201, http.StatusInternalServerError, "create data error")
	UpdateDataErr      = New(10202, http.StatusInternalServerError, "update data error")
	DeleteDataErr      = New(10203, http.StatusInternalServerError, "delete data error")
	QueryRecordErr     = New(10204, http.StatusInternalServerError, "query record error")
	DuplicateRecordErr = New(10205, http.StatusConflict, "record already exists")
)

// 业务错误码
var (
	ValidationErr     = New(20001, http.StatusBadRequest, "validation error")
	InvalidTransition = New(20002, http.StatusConflict, "invalid status transition")

	UserNotFound      = New(20100, http.StatusNotFound, "user not found")
	NotTechnicianErr  = New(20101, http.StatusBadRequest, "assignee is not a technician")
	RoleNotExistErr   = New(20102, http.StatusBadRequest, "role not exist")
	ClientNotFound    = New(20200, http.StatusNotFound, "client not found")
	ClientHasSamples  = New(20201, http.StatusConflict, "client has samples, deactivated instead")
	SampleNotFound    = New(20300, http.StatusNotFound, "sample not found")
	SampleNoTestsErr  = New(20301, http.StatusBadRequest, "sample has no requested tests")
	SampleNotReceived = New(20302, http.StatusConflict, "sample is not in received status")
	SampleOnReceipt   = New(20303, http.StatusConflict, "sample already attached to a receipt form")
	TestItemNotFound  = New(20400, http.StatusNotFound, "test item not found")
	JobNotFound       = New(20500, http.StatusNotFound, "job not found")
	ReceiptNotFound   = New(20600, http.StatusNotFound, "receipt form not found")
	InvoiceNotFound   = New(20700, http.StatusNotFound, "invoice not found")
	InvoiceNotDraft   = New(20701, http.StatusConflict, "invoice is not in draft status")
	PaymentExceedsDue = New(20702, http.StatusBadRequest, "payment exceeds amount due")

	GenerateIDErr = New(20800, http.StatusInternalServerError, "generate identifier error")
	RenderPDFErr  = New(20801, http.StatusBadGateway, "render receipt pdf error")

	NotifyActionAlreadyRegistryErr = New(20900, http.StatusInternalServerError, "notify action already registered")
	NotifySendMsgErr               = New(20901, http.StatusInternalServerError, "notify send msg error")
	NotifyHandleMsgErr             = New(20902, http.StatusInternalServerError, "notify handle msg error")
)
