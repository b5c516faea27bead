package uploader

import "errors"

var (
	// 校验拒绝，按优先级排列：类型 -> 空文件 -> 超限
	ErrFileTypeInvalid  = errors.New("文件类型不支持")
	ErrFileEmpty        = errors.New("文件内容为空")
	ErrFileTooLarge     = errors.New("文件超出大小上限")
	ErrBatchCapExceeded = errors.New("批次文件数已达上限")

	// ErrDuplicate 服务端权威查重命中（HTTP 409），不算失败
	ErrDuplicate = errors.New("文件已存在")

	// ErrBatchStarted 批次开始处理后不允许再增删候选
	ErrBatchStarted = errors.New("批次已开始处理")

	// ErrEmptyBatch 没有可上传的文件
	ErrEmptyBatch = errors.New("批次内没有可上传的文件")
)

// RejectionError 校验拒绝，带上被拒文件名供界面提示
type RejectionError struct {
	Name   string
	Reason error
}

func (e *RejectionError) Error() string {
	return e.Name + ": " + e.Reason.Error()
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}
