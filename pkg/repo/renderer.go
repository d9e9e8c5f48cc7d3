package repo

import (
	// 外部依赖
	"context"
)

// RenderDoc 交给渲染服务的单据内容
type RenderDoc struct {
	Template string         `json:"template"`
	Title    string         `json:"title"`
	Fields   map[string]any `json:"fields"`
}

// Renderer 外部 PDF 渲染服务，未配置地址时 Enabled 返回 false
type Renderer interface {
	Enabled() bool
	RenderPDF(ctx context.Context, doc *RenderDoc) ([]byte, error)
}
