package repo

import (
	// 外部依赖
	"context"
)

// SequenceRepo 按实体与周期发号
// 单行原子自增保证并发下序号不重复
type SequenceRepo interface {
	// Next 返回 (name, period) 下一个序号，从 1 开始
	Next(ctx context.Context, name string, period string) (int64, error)
}
