// Package identifier 业务编号生成
// 样品/任务/客户参考号按月复位，收样单按年复位
package identifier

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	// 内部引用
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoSequence "github.com/metabuildlab/lims/pkg/repo/sequence"
)

// 计数器名称
const (
	seqSample    = "sample"
	seqClientRef = "client_ref"
	seqJob       = "job"
	seqReceipt   = "receipt"
)

type Generator interface {
	// NextSampleID MBL{YYYY}{MM}{NNNN}
	NextSampleID(ctx context.Context, now time.Time) (string, error)
	// NextClientReference CR{YYYY}{MM}{NNNN}
	NextClientReference(ctx context.Context, now time.Time) (string, error)
	// NextJobID JOB{YYYY}{MM}{NNNN}
	NextJobID(ctx context.Context, now time.Time) (string, error)
	// NextReceiptNumber SRF-{YYYY}-{NNNN}
	NextReceiptNumber(ctx context.Context, now time.Time) (string, error)
	// NextInvoiceNumber INV-{YYYY}-{NNNN}
	NextInvoiceNumber(ctx context.Context, now time.Time) (string, error)
}

type generator struct {
	seqStore repo.SequenceRepo
}

func New() Generator {
	return &generator{seqStore: repoSequence.NewSequenceRepo()}
}

// NewWithRepo 注入计数器仓库，单测使用
func NewWithRepo(seqStore repo.SequenceRepo) Generator {
	return &generator{seqStore: seqStore}
}

func monthPeriod(now time.Time) string {
	return now.Format("200601")
}

func yearPeriod(now time.Time) string {
	return now.Format("2006")
}

// monthly 形如 {prefix}{YYYY}{MM}{NNNN}
// 序号超过 9999 时位数自然增长，唯一性不受影响
func (g *generator) monthly(ctx context.Context, name string, prefix string, now time.Time) (string, error) {
	seq, err := g.seqStore.Next(ctx, name, monthPeriod(now))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d%02d%04d", prefix, now.Year(), int(now.Month()), seq), nil
}

// yearly 形如 {prefix}-{YYYY}-{NNNN}
func (g *generator) yearly(ctx context.Context, name string, prefix string, now time.Time) (string, error) {
	seq, err := g.seqStore.Next(ctx, name, yearPeriod(now))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d-%04d", prefix, now.Year(), seq), nil
}

func (g *generator) NextSampleID(ctx context.Context, now time.Time) (string, error) {
	return g.monthly(ctx, seqSample, "MBL", now)
}

func (g *generator) NextClientReference(ctx context.Context, now time.Time) (string, error) {
	return g.monthly(ctx, seqClientRef, "CR", now)
}

func (g *generator) NextJobID(ctx context.Context, now time.Time) (string, error) {
	return g.monthly(ctx, seqJob, "JOB", now)
}

func (g *generator) NextReceiptNumber(ctx context.Context, now time.Time) (string, error) {
	return g.yearly(ctx, seqReceipt, "SRF", now)
}

func (g *generator) NextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	return g.yearly(ctx, "invoice", "INV", now)
}
