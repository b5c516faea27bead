package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/3Eeeecho/go-gallerycloud/internal/uploader"
)

// liteupload 在命令行里跑 lite 顺序上传管线：
// 校验 -> 摘要 -> 批量查重 -> 逐个上传，一次一个请求
func main() {
	server := flag.String("server", "", "服务端地址")
	link := flag.String("link", "", "上传链接码")
	guest := flag.String("guest", "", "访客署名")
	premium := flag.Bool("premium", false, "premium 模式，不限批次文件数")
	flag.Parse()

	// 未显式给出的参数回落到上次保存的会话
	var store uploader.SessionStore
	session := &uploader.Session{}
	if path, err := uploader.DefaultSessionPath(); err == nil {
		store = uploader.NewFileSessionStore(path)
		if s, err := store.Load(); err == nil {
			session = s
		}
	}
	if *server == "" {
		*server = session.ServerURL
	}
	if *server == "" {
		*server = "http://localhost:8080"
	}
	if *link == "" {
		*link = session.ShareCode
	}
	if *guest == "" {
		*guest = session.GuestName
	}

	if *link == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "用法: liteupload -link <code> [-server url] [-guest name] [-premium] 文件...")
		os.Exit(2)
	}

	cap := uploader.DefaultLiteBatchCap
	if *premium {
		cap = 0
	}
	batch := uploader.NewBatch(cap, uploader.DefaultValidateOptions())

	for _, path := range flag.Args() {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "跳过 %s: %v\n", path, err)
			continue
		}
		name := filepath.Base(path)
		mimeType := mime.TypeByExtension(filepath.Ext(path))

		p := path
		_, err = batch.Add(name, info.Size(), mimeType, func() (io.ReadCloser, error) {
			return os.Open(p)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "拒绝 %s: %v\n", name, err)
		}
	}

	if batch.Len() == 0 {
		fmt.Fprintln(os.Stderr, "没有可上传的文件")
		os.Exit(1)
	}

	client := uploader.NewClient(*server, *link)
	client.GuestName = *guest

	pipeline := uploader.NewPipeline(client, uploader.Options{
		OnChange: func(c *uploader.Candidate) {
			switch c.Status() {
			case uploader.StatusUploading:
				fmt.Printf("\r%s 上传中 %3d%%", c.Name, c.Progress())
			case uploader.StatusSuccess:
				fmt.Printf("\r%s 完成\n", c.Name)
			case uploader.StatusDuplicate:
				fmt.Printf("\r%s 已存在，跳过\n", c.Name)
			case uploader.StatusError:
				fmt.Printf("\r%s 失败: %v\n", c.Name, c.Err())
			case uploader.StatusCanceled:
				fmt.Printf("\r%s 已取消\n", c.Name)
			}
		},
	})

	// Ctrl-C 后不再发起新请求，在途请求中止
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tally, err := pipeline.Run(ctx, batch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "上传批次执行失败: %v\n", err)
		os.Exit(1)
	}

	if store != nil {
		_ = store.Save(&uploader.Session{
			ServerURL: *server,
			ShareCode: *link,
			GuestName: *guest,
		})
	}

	fmt.Printf("完成 %d，重复 %d，失败 %d，取消 %d\n",
		tally.Completed, tally.Duplicate, tally.Failed, tally.Canceled)
	if tally.Failed > 0 {
		os.Exit(1)
	}
}
