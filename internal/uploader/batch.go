package uploader

// DefaultLiteBatchCap lite 模式单批文件数上限
const DefaultLiteBatchCap = 10

// Batch 一次上传操作选中的有序文件集合
// 只由驱动它的管线修改，不支持并发写
type Batch struct {
	cap        int // 0 表示不限（premium 模式）
	opts       ValidateOptions
	candidates []*Candidate
	started    bool
}

// NewBatch 创建批次。cap<=0 时不限制文件数
func NewBatch(cap int, opts ValidateOptions) *Batch {
	return &Batch{cap: cap, opts: opts}
}

// NewLiteBatch lite 模式批次：10 个文件上限，仅照片
func NewLiteBatch() *Batch {
	return NewBatch(DefaultLiteBatchCap, DefaultValidateOptions())
}

// Add 校验并加入一个候选文件
// 超出批次上限时拒绝整个添加而不是静默截断
func (b *Batch) Add(name string, size int64, mimeType string, open OpenFunc) (*Candidate, error) {
	if b.started {
		return nil, ErrBatchStarted
	}
	if b.cap > 0 && len(b.candidates) >= b.cap {
		return nil, &RejectionError{Name: name, Reason: ErrBatchCapExceeded}
	}
	if err := validateMeta(name, mimeType, size, b.opts); err != nil {
		return nil, err
	}

	c := &Candidate{
		Name:     name,
		Size:     size,
		MimeType: mimeType,
		Open:     open,
		status:   StatusPending,
	}
	b.candidates = append(b.candidates, c)
	return c, nil
}

// Remove 在管线启动前按文件名移除候选
func (b *Batch) Remove(name string) bool {
	if b.started {
		return false
	}
	for i, c := range b.candidates {
		if c.Name == name {
			b.candidates = append(b.candidates[:i], b.candidates[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Batch) Len() int { return len(b.candidates) }

// Candidates 按加入顺序返回候选列表
func (b *Batch) Candidates() []*Candidate { return b.candidates }

// markStarted 管线启动后冻结批次
func (b *Batch) markStarted() { b.started = true }
