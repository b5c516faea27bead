package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// UploadedItem 上传成功后服务端返回的媒体记录
type UploadedItem struct {
	ID       uint64 `json:"id"`
	UUID     string `json:"uuid"`
	FileName string `json:"filename"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	Size     uint64 `json:"size"`
}

// CheckResult 批量查重的划分结果，两个列表互斥且覆盖整个请求集合
type CheckResult struct {
	Duplicates []string `json:"duplicates"`
	NewFiles   []string `json:"new_files"`
}

// APIClient 管线依赖的服务端接口，测试中用假实现替换
type APIClient interface {
	// CheckDuplicates 一次批量预检。hashes 与 filenames 下标对齐，摘要缺失处为 nil
	CheckDuplicates(ctx context.Context, filenames []string, hashes []*string) (*CheckResult, error)
	// Upload 上传单个文件，progress 以 0-100 回报字节进度
	// 服务端查重命中时返回包装了 ErrDuplicate 的错误
	Upload(ctx context.Context, c *Candidate, progress func(pct int)) (*UploadedItem, error)
}

// Client 通过分享链接访问公开上传接口的 HTTP 客户端
type Client struct {
	BaseURL   string // 形如 https://api.example.com
	ShareCode string // URL 中的 :share_link 段
	GuestName string // 可选的访客署名，随每次上传提交
	HTTP      *http.Client
}

var _ APIClient = (*Client)(nil)

func NewClient(baseURL, shareCode string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ShareCode: shareCode,
		HTTP:      http.DefaultClient,
	}
}

// envelope 服务端统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (cl *Client) CheckDuplicates(ctx context.Context, filenames []string, hashes []*string) (*CheckResult, error) {
	body, err := json.Marshal(map[string]any{
		"filenames": filenames,
		"hashes":    hashes,
	})
	if err != nil {
		return nil, fmt.Errorf("编码查重请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/api/public/gallery/%s/check-duplicates", cl.BaseURL, cl.ShareCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("查重请求失败: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("查重请求被拒绝: %s (code=%d)", env.Message, env.Code)
	}

	var result CheckResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, fmt.Errorf("解析查重结果失败: %w", err)
	}
	return &result, nil
}

// progressReader 包装文件读取器，按读出的字节数回报百分比
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lastPct  int
	progress func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 && p.progress != nil {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		// 只在百分比前进时回调，避免回调风暴
		if pct > p.lastPct {
			p.lastPct = pct
			p.progress(pct)
		}
	}
	return n, err
}

func (cl *Client) Upload(ctx context.Context, c *Candidate, progress func(pct int)) (*UploadedItem, error) {
	rc, err := c.Open()
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer rc.Close()

	// 用管道把 multipart 编码流式接到请求体上，文件不落内存
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		if c.Digest != "" {
			if err := mw.WriteField("content_hash", c.Digest); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		if cl.GuestName != "" {
			if err := mw.WriteField("guest_name", cl.GuestName); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, c.Name))
		header.Set("Content-Type", c.MimeType)
		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		src := &progressReader{r: rc, total: c.Size, progress: progress}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	url := fmt.Sprintf("%s/api/public/gallery/%s/upload", cl.BaseURL, cl.ShareCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("上传请求失败: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var item UploadedItem
		if err := json.Unmarshal(env.Data, &item); err != nil {
			return nil, fmt.Errorf("解析上传结果失败: %w", err)
		}
		return &item, nil
	case resp.StatusCode == http.StatusConflict:
		// 服务端权威查重命中
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, env.Message)
	default:
		return nil, fmt.Errorf("上传被拒绝: %s (http=%d, code=%d)", env.Message, resp.StatusCode, env.Code)
	}
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("解析服务端响应失败: %w", err)
	}
	return &env, nil
}
