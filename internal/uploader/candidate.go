package uploader

import (
	"fmt"
	"io"
)

// Status 候选文件的生命周期状态
type Status int

const (
	StatusPending   Status = iota // 已入批，等待处理
	StatusHashing                 // 正在计算内容摘要
	StatusChecking                // 等待/正在批量查重
	StatusUploading               // 上传请求已发出
	StatusSuccess                 // 上传成功
	StatusDuplicate               // 服务端已存在（预检或 409）
	StatusError                   // 上传失败
	StatusCanceled                // 管线被取消，未上传
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusHashing:
		return "hashing"
	case StatusChecking:
		return "checking"
	case StatusUploading:
		return "uploading"
	case StatusSuccess:
		return "success"
	case StatusDuplicate:
		return "duplicate"
	case StatusError:
		return "error"
	case StatusCanceled:
		return "canceled"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Terminal 判断状态是否为终态，终态之后不再迁移
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusDuplicate, StatusError, StatusCanceled:
		return true
	}
	return false
}

// 状态机允许的迁移表。hashing 可被跳过（摘要失败的降级路径），
// 任何非终态都可以直接迁到 canceled
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusHashing, StatusChecking, StatusCanceled},
	StatusHashing:   {StatusChecking, StatusCanceled},
	StatusChecking:  {StatusUploading, StatusDuplicate, StatusCanceled},
	StatusUploading: {StatusSuccess, StatusDuplicate, StatusError, StatusCanceled},
}

// OpenFunc 按需打开候选文件内容，每次调用返回一个新的读取器
// 摘要计算与上传各自独立打开一次
type OpenFunc func() (io.ReadCloser, error)

// Candidate 批次内的单个候选文件
// 状态只能通过 transition 迁移，保证一次批处理内状态机不可逆行
type Candidate struct {
	Name     string
	Size     int64
	MimeType string
	Digest   string // 内容 MD5，计算失败时为空，查重退化为仅按文件名
	Open     OpenFunc

	status   Status
	progress int // 0-100
	err      error

	// 上传成功后服务端返回的记录
	Result *UploadedItem
}

func (c *Candidate) Status() Status { return c.status }

func (c *Candidate) Progress() int { return c.progress }

// Err 返回导致 error 终态的原因
func (c *Candidate) Err() error { return c.err }

func (c *Candidate) setProgress(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	c.progress = pct
}

// transition 执行受保护的状态迁移，非法迁移说明管线实现有错
func (c *Candidate) transition(to Status) error {
	for _, next := range allowedTransitions[c.status] {
		if next == to {
			c.status = to
			return nil
		}
	}
	return fmt.Errorf("非法状态迁移: %s -> %s (file=%s)", c.status, to, c.Name)
}

// fail 迁入 error 终态并记录原因，迁移同样走受保护的迁移表
func (c *Candidate) fail(err error) error {
	if terr := c.transition(StatusError); terr != nil {
		return terr
	}
	c.err = err
	return nil
}
