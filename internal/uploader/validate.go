package uploader

import "strings"

// DefaultMaxFileSize 照片大小上限，与服务端一致
const DefaultMaxFileSize = 50 << 20 // 50MB

// ValidateOptions 校验参数
// MIMEPrefix 决定接受的媒体类别，照片流程为 "image/"，视频流程为 "video/"
type ValidateOptions struct {
	MIMEPrefix string
	MaxSize    int64
}

func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		MIMEPrefix: "image/",
		MaxSize:    DefaultMaxFileSize,
	}
}

// validateMeta 只看元数据，不读文件内容
// 拒绝原因按固定优先级：类型不符 -> 空文件 -> 超出大小上限
func validateMeta(name, mimeType string, size int64, opts ValidateOptions) error {
	if !strings.HasPrefix(mimeType, opts.MIMEPrefix) {
		return &RejectionError{Name: name, Reason: ErrFileTypeInvalid}
	}
	if size == 0 {
		return &RejectionError{Name: name, Reason: ErrFileEmpty}
	}
	if size > opts.MaxSize {
		return &RejectionError{Name: name, Reason: ErrFileTooLarge}
	}
	return nil
}
