package models

// CheckDuplicatesRequest 定义了批量查重的请求体
// Hashes 与 Filenames 按下标一一对应，客户端哈希失败的文件对应位置为 null
type CheckDuplicatesRequest struct {
	Filenames []string  `json:"filenames" binding:"required"`
	Hashes    []*string `json:"hashes"`
}

// CheckDuplicatesResponse 定义了批量查重的响应体
// 两个列表是对请求文件名集合的一个划分
type CheckDuplicatesResponse struct {
	Duplicates []string `json:"duplicates"`
	NewFiles   []string `json:"new_files"`
}

// UploadMediaResult 定义了单文件上传成功后的响应数据
type UploadMediaResult struct {
	ID       uint64 `json:"id"`
	UUID     string `json:"uuid"`
	FileName string `json:"filename"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	Size     uint64 `json:"size"`
}

// FotoshareAsset 360 拍照亭推送的单条外链资源
type FotoshareAsset struct {
	URL       string `json:"url" binding:"required"`
	Title     string `json:"title"`
	SessionID string `json:"session_id"`
}

// FotoshareRequest 定义了拍照亭批量登记外链资源的请求体
type FotoshareRequest struct {
	Assets []FotoshareAsset `json:"assets" binding:"required"`
}
