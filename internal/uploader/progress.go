package uploader

// Tally 批次级的结果计数，每个新批次从零开始
type Tally struct {
	Completed int
	Duplicate int
	Failed    int
	Canceled  int
}

// Aggregator 把候选状态投影成可观察的批次计数
// 纯计数，不含业务逻辑；管线内每次状态迁移后先更新这里再通知外部
type Aggregator struct {
	tally      Tally
	onChange   func(c *Candidate)
	onComplete func(t Tally)
}

func newAggregator(onChange func(*Candidate), onComplete func(Tally)) *Aggregator {
	return &Aggregator{onChange: onChange, onComplete: onComplete}
}

// record 候选到达终态时计数，非终态迁移只转发通知
func (a *Aggregator) record(c *Candidate) {
	switch c.Status() {
	case StatusSuccess:
		a.tally.Completed++
	case StatusDuplicate:
		a.tally.Duplicate++
	case StatusError:
		a.tally.Failed++
	case StatusCanceled:
		a.tally.Canceled++
	}
	if a.onChange != nil {
		a.onChange(c)
	}
}

// notifyProgress 转发上传中的字节进度
func (a *Aggregator) notifyProgress(c *Candidate) {
	if a.onChange != nil {
		a.onChange(c)
	}
}

func (a *Aggregator) complete() Tally {
	if a.onComplete != nil {
		a.onComplete(a.tally)
	}
	return a.tally
}
