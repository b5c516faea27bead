package uploader

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
)

// 分块读取的缓冲大小，避免一次性把大文件读进内存
const hashChunkSize = 256 << 10

// hashContent 流式计算内容 MD5
// 摘要只用于查重，不做完整性担保，所以 MD5 足够
func hashContent(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("读取文件内容失败: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// digestCandidate 打开候选文件并计算摘要
func digestCandidate(c *Candidate) (string, error) {
	if c.Open == nil {
		return "", fmt.Errorf("候选文件 %s 没有内容来源", c.Name)
	}
	rc, err := c.Open()
	if err != nil {
		return "", fmt.Errorf("打开文件失败: %w", err)
	}
	defer rc.Close()
	return hashContent(rc)
}
