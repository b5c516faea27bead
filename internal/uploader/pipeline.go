package uploader

import (
	"context"
	"errors"
	"strings"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"go.uber.org/zap"
)

// Options 管线的外部回调
type Options struct {
	// OnChange 每次候选状态或进度变化后调用
	OnChange func(c *Candidate)
	// OnComplete 全部候选到达终态后调用一次，携带最终计数
	OnComplete func(t Tally)
}

// Pipeline 顺序上传管线
// 单批次执行：校验在入批时完成，之后按 摘要 -> 批量查重 -> 逐个上传 推进，
// 任意时刻最多一个上传请求在途，候选严格按加入顺序处理
type Pipeline struct {
	client APIClient
	opts   Options
}

func NewPipeline(client APIClient, opts Options) *Pipeline {
	return &Pipeline{client: client, opts: opts}
}

// Run 驱动批次直到所有候选到达终态，返回最终计数
// ctx 取消后不再发起新的上传请求，在途请求随 ctx 一并中止，
// 未处理的候选标记为 canceled
func (p *Pipeline) Run(ctx context.Context, b *Batch) (Tally, error) {
	candidates := b.Candidates()
	if len(candidates) == 0 {
		return Tally{}, ErrEmptyBatch
	}
	b.markStarted()

	agg := newAggregator(p.opts.OnChange, p.opts.OnComplete)

	p.digestPhase(ctx, candidates, agg)
	preDup := p.checkPhase(ctx, candidates, agg)
	p.uploadPhase(ctx, candidates, preDup, agg)

	tally := agg.complete()
	logger.Info("upload batch finished",
		zap.Int("total", len(candidates)),
		zap.Int("completed", tally.Completed),
		zap.Int("duplicate", tally.Duplicate),
		zap.Int("failed", tally.Failed),
		zap.Int("canceled", tally.Canceled))
	return tally, nil
}

// digestPhase 逐个计算内容摘要
// 摘要失败不终止批次：留空摘要，该文件的查重退化为仅按文件名
func (p *Pipeline) digestPhase(ctx context.Context, candidates []*Candidate, agg *Aggregator) {
	for _, c := range candidates {
		if ctx.Err() != nil {
			return
		}
		if err := c.transition(StatusHashing); err != nil {
			continue
		}
		agg.notifyProgress(c)

		digest, err := digestCandidate(c)
		if err != nil {
			logger.Warn("content hashing failed, falling back to filename dedup",
				zap.String("file", c.Name), zap.Error(err))
		} else {
			c.Digest = digest
		}
		if err := c.transition(StatusChecking); err != nil {
			continue
		}
		agg.notifyProgress(c)
	}
}

// checkPhase 发起一次批量查重，返回预检命中的文件名集合（小写）
// 查重请求失败时按全部为新文件继续，权威判定交给逐个上传时的 409
func (p *Pipeline) checkPhase(ctx context.Context, candidates []*Candidate, agg *Aggregator) map[string]struct{} {
	if ctx.Err() != nil {
		return nil
	}

	filenames := make([]string, 0, len(candidates))
	hashes := make([]*string, 0, len(candidates))
	for _, c := range candidates {
		// 取消阶段可能有候选停在 pending，补迁到 checking
		if c.Status() == StatusPending {
			if err := c.transition(StatusChecking); err != nil {
				continue
			}
		}
		filenames = append(filenames, c.Name)
		if c.Digest != "" {
			d := c.Digest
			hashes = append(hashes, &d)
		} else {
			hashes = append(hashes, nil)
		}
	}

	result, err := p.client.CheckDuplicates(ctx, filenames, hashes)
	if err != nil {
		logger.Warn("duplicate pre-check failed, proceeding with full batch", zap.Error(err))
		return nil
	}

	preDup := make(map[string]struct{}, len(result.Duplicates))
	for _, name := range result.Duplicates {
		preDup[strings.ToLower(name)] = struct{}{}
	}
	return preDup
}

// uploadPhase 顺序上传非重复的候选，一次只有一个请求在途
func (p *Pipeline) uploadPhase(ctx context.Context, candidates []*Candidate, preDup map[string]struct{}, agg *Aggregator) {
	for _, c := range candidates {
		if c.Status().Terminal() {
			continue
		}

		// 预检命中的文件不发起上传
		if _, dup := preDup[strings.ToLower(c.Name)]; dup {
			if err := c.transition(StatusDuplicate); err == nil {
				agg.record(c)
			}
			continue
		}

		// 取消后剩余候选全部标记 canceled，不再发新请求
		if ctx.Err() != nil {
			if err := c.transition(StatusCanceled); err == nil {
				agg.record(c)
			}
			continue
		}

		if err := c.transition(StatusUploading); err != nil {
			continue
		}
		agg.notifyProgress(c)

		item, err := p.client.Upload(ctx, c, func(pct int) {
			c.setProgress(pct)
			agg.notifyProgress(c)
		})
		switch {
		case err == nil:
			c.Result = item
			c.setProgress(100)
			if terr := c.transition(StatusSuccess); terr == nil {
				agg.record(c)
			}
		case errors.Is(err, ErrDuplicate):
			// 服务端权威查重命中，算重复不算失败
			if terr := c.transition(StatusDuplicate); terr == nil {
				agg.record(c)
			}
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			// 在途请求随取消中止
			if terr := c.transition(StatusCanceled); terr == nil {
				agg.record(c)
			}
		default:
			logger.Warn("upload failed, continuing with remaining files",
				zap.String("file", c.Name), zap.Error(err))
			if terr := c.fail(err); terr == nil {
				agg.record(c)
			}
		}
	}
}
