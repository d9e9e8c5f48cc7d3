package renderer

import (
	// 外部依赖
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	// 内部引用
	config "github.com/metabuildlab/lims/internal/config"
	code "github.com/metabuildlab/lims/pkg/common/code"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type rendererImpl struct {
	client *resty.Client
	addr   string
}

func NewRenderer() repo.Renderer {
	conf := config.Global().Renderer
	r := &rendererImpl{addr: conf.Addr}
	if conf.Addr != "" {
		r.client = resty.New().
			SetHeader("Content-Type", "application/json").
			SetTimeout(time.Duration(conf.Timeout) * time.Second).
			SetBaseURL(conf.Addr)
	}
	return r
}

func (r *rendererImpl) Enabled() bool {
	return r.client != nil
}

func (r *rendererImpl) RenderPDF(ctx context.Context, doc *repo.RenderDoc) ([]byte, error) {
	if r.client == nil {
		return nil, code.RenderPDFErr.WithMsg("renderer addr not configured")
	}

	res, err := r.client.R().SetContext(ctx).
		SetBody(doc).
		Post("/api/v1/render/pdf")
	if err != nil {
		logger.Errorf(ctx, "RenderPDF post template: %s err: %+v", doc.Template, err)
		return nil, code.RenderPDFErr.WithErr(err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, code.RenderPDFErr.WithMsgf("http code: %d", res.StatusCode())
	}
	return res.Body(), nil
}
