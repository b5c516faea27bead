package models

// IndexMediaTask 投递到索引队列的任务体
type IndexMediaTask struct {
	MediaID uint64 `json:"media_id"`
}

// DeleteMediaTask 投递到删除队列的任务体
// 对象坐标随任务冗余携带，消费时不依赖数据库记录仍然存在
type DeleteMediaTask struct {
	MediaID   uint64 `json:"media_id"`
	OssBucket string `json:"oss_bucket"`
	OssKey    string `json:"oss_key"`
}
