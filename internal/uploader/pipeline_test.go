package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient 记录调用顺序的假服务端
type fakeClient struct {
	checkFn  func(filenames []string, hashes []*string) (*CheckResult, error)
	uploadFn func(c *Candidate) (*UploadedItem, error)

	checkCalls  int
	uploadCalls []string // 按调用顺序记录文件名
	inFlight    int      // 当前在途上传数
	maxInFlight int
}

func (f *fakeClient) CheckDuplicates(ctx context.Context, filenames []string, hashes []*string) (*CheckResult, error) {
	f.checkCalls++
	if f.checkFn != nil {
		return f.checkFn(filenames, hashes)
	}
	return &CheckResult{NewFiles: filenames}, nil
}

func (f *fakeClient) Upload(ctx context.Context, c *Candidate, progress func(int)) (*UploadedItem, error) {
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	defer func() { f.inFlight-- }()

	f.uploadCalls = append(f.uploadCalls, c.Name)
	if progress != nil {
		progress(50)
		progress(100)
	}
	if f.uploadFn != nil {
		return f.uploadFn(c)
	}
	return &UploadedItem{FileName: c.Name, UUID: "u-" + c.Name}, nil
}

func bytesOpener(content []byte) OpenFunc {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(content)), nil
	}
}

func addFile(t *testing.T, b *Batch, name string) *Candidate {
	t.Helper()
	content := []byte("content of " + name)
	c, err := b.Add(name, int64(len(content)), "image/jpeg", bytesOpener(content))
	require.NoError(t, err)
	return c
}

func TestBatchCapRejectsEleventhFile(t *testing.T) {
	b := NewLiteBatch()
	for i := 0; i < 10; i++ {
		addFile(t, b, fmt.Sprintf("photo-%02d.jpg", i))
	}

	_, err := b.Add("photo-10.jpg", 100, "image/jpeg", bytesOpener([]byte("x")))
	require.ErrorIs(t, err, ErrBatchCapExceeded)

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "photo-10.jpg", rej.Name)
	assert.Equal(t, 10, b.Len())
}

func TestPremiumBatchHasNoCap(t *testing.T) {
	b := NewBatch(0, DefaultValidateOptions())
	for i := 0; i < 25; i++ {
		addFile(t, b, fmt.Sprintf("photo-%02d.jpg", i))
	}
	assert.Equal(t, 25, b.Len())
}

func TestValidationRejectionPriority(t *testing.T) {
	b := NewLiteBatch()

	// 类型错误优先于空文件
	_, err := b.Add("notes.txt", 0, "text/plain", bytesOpener(nil))
	require.ErrorIs(t, err, ErrFileTypeInvalid)

	_, err = b.Add("empty.jpg", 0, "image/jpeg", bytesOpener(nil))
	require.ErrorIs(t, err, ErrFileEmpty)

	_, err = b.Add("huge.jpg", DefaultMaxFileSize+1, "image/jpeg", bytesOpener(nil))
	require.ErrorIs(t, err, ErrFileTooLarge)

	assert.Equal(t, 0, b.Len())
}

func TestRejectedFilesNeverReachNetwork(t *testing.T) {
	b := NewLiteBatch()
	_, err := b.Add("huge.jpg", DefaultMaxFileSize+1, "image/jpeg", bytesOpener(nil))
	require.Error(t, err)

	fc := &fakeClient{}
	_, err = NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.ErrorIs(t, err, ErrEmptyBatch)

	assert.Equal(t, 0, fc.checkCalls)
	assert.Empty(t, fc.uploadCalls)
}

func TestThreeFreshFilesAllComplete(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")
	addFile(t, b, "c.jpg")

	fc := &fakeClient{}
	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, Tally{Completed: 3}, tally)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, fc.uploadCalls)
	for _, c := range b.Candidates() {
		assert.Equal(t, StatusSuccess, c.Status())
		assert.Equal(t, 100, c.Progress())
		require.NotNil(t, c.Result)
	}
}

func TestUploadsAreStrictlySequential(t *testing.T) {
	b := NewLiteBatch()
	for i := 0; i < 5; i++ {
		addFile(t, b, fmt.Sprintf("f%d.jpg", i))
	}

	fc := &fakeClient{}
	_, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	// 严格按加入顺序，且任意时刻只有一个请求在途
	assert.Equal(t, []string{"f0.jpg", "f1.jpg", "f2.jpg", "f3.jpg", "f4.jpg"}, fc.uploadCalls)
	assert.Equal(t, 1, fc.maxInFlight)
}

func TestPreCheckDuplicatesSkipUpload(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "B.jpg")
	addFile(t, b, "c.jpg")
	addFile(t, b, "d.jpg")

	fc := &fakeClient{
		checkFn: func(filenames []string, hashes []*string) (*CheckResult, error) {
			// 服务端按不区分大小写的文件名命中其中两个
			return &CheckResult{
				Duplicates: []string{"A.JPG", "b.jpg"},
				NewFiles:   []string{"c.jpg", "d.jpg"},
			}, nil
		},
	}
	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, []string{"c.jpg", "d.jpg"}, fc.uploadCalls)
	assert.Equal(t, 2, tally.Duplicate)
	assert.Equal(t, 2, tally.Completed)
	assert.Equal(t, StatusDuplicate, b.Candidates()[0].Status())
	assert.Equal(t, StatusDuplicate, b.Candidates()[1].Status())
}

func TestAllPreCheckDuplicatesSkipUploadsEntirely(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")
	addFile(t, b, "c.jpg")

	fc := &fakeClient{
		checkFn: func(filenames []string, hashes []*string) (*CheckResult, error) {
			// 整批都已存在，没有文件需要上传
			return &CheckResult{Duplicates: filenames}, nil
		},
	}
	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Empty(t, fc.uploadCalls)
	assert.Equal(t, Tally{Duplicate: 3}, tally)
	for _, c := range b.Candidates() {
		assert.Equal(t, StatusDuplicate, c.Status())
	}
}

func TestCheckFailureDegradesToFullBatch(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")

	fc := &fakeClient{
		checkFn: func([]string, []*string) (*CheckResult, error) {
			return nil, errors.New("network unreachable")
		},
	}
	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	// 预检失败时全部按新文件处理，权威判定交给上传
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, fc.uploadCalls)
	assert.Equal(t, Tally{Completed: 2}, tally)
}

func TestSingleFailureDoesNotAbortBatch(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")
	addFile(t, b, "c.jpg")

	fc := &fakeClient{}
	fc.uploadFn = func(c *Candidate) (*UploadedItem, error) {
		if c.Name == "b.jpg" {
			return nil, errors.New("internal server error")
		}
		return &UploadedItem{FileName: c.Name}, nil
	}

	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, fc.uploadCalls)
	assert.Equal(t, Tally{Completed: 2, Failed: 1}, tally)
	assert.Equal(t, StatusError, b.Candidates()[1].Status())
	assert.ErrorContains(t, b.Candidates()[1].Err(), "internal server error")
}

func TestServerSideConflictCountsAsDuplicate(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")

	fc := &fakeClient{}
	fc.uploadFn = func(c *Candidate) (*UploadedItem, error) {
		if c.Name == "a.jpg" {
			// 预检漏掉、服务端权威查重命中
			return nil, fmt.Errorf("%w: 相同的媒体文件已存在", ErrDuplicate)
		}
		return &UploadedItem{FileName: c.Name}, nil
	}

	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, Tally{Completed: 1, Duplicate: 1}, tally)
	assert.Equal(t, StatusDuplicate, b.Candidates()[0].Status())
}

func TestHashFailureFallsBackToFilenameDedup(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "good.jpg")
	_, err := b.Add("broken.jpg", 10, "image/jpeg", func() (io.ReadCloser, error) {
		return nil, errors.New("file unreadable")
	})
	require.NoError(t, err)

	var gotHashes []*string
	fc := &fakeClient{
		checkFn: func(filenames []string, hashes []*string) (*CheckResult, error) {
			gotHashes = hashes
			return &CheckResult{NewFiles: filenames}, nil
		},
	}
	// 上传阶段会再次打开文件，broken.jpg 在那里也会失败
	fc.uploadFn = func(c *Candidate) (*UploadedItem, error) {
		rc, err := c.Open()
		if err != nil {
			return nil, err
		}
		rc.Close()
		return &UploadedItem{FileName: c.Name}, nil
	}
	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	require.Len(t, gotHashes, 2)
	assert.NotNil(t, gotHashes[0], "可读文件应带摘要")
	assert.Nil(t, gotHashes[1], "摘要失败的文件哈希位置应为 null")

	// 摘要失败不拦截上传，失败发生在上传自身
	assert.Equal(t, Tally{Completed: 1, Failed: 1}, tally)
}

func TestTallySumMatchesUploadedCandidates(t *testing.T) {
	b := NewLiteBatch()
	for i := 0; i < 6; i++ {
		addFile(t, b, fmt.Sprintf("f%d.jpg", i))
	}

	fc := &fakeClient{
		checkFn: func(filenames []string, hashes []*string) (*CheckResult, error) {
			return &CheckResult{Duplicates: []string{"f0.jpg"}, NewFiles: filenames[1:]}, nil
		},
	}
	fc.uploadFn = func(c *Candidate) (*UploadedItem, error) {
		switch c.Name {
		case "f2.jpg":
			return nil, errors.New("boom")
		case "f3.jpg":
			return nil, fmt.Errorf("%w", ErrDuplicate)
		}
		return &UploadedItem{FileName: c.Name}, nil
	}

	tally, err := NewPipeline(fc, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	// 进入上传阶段的候选数 = 批次大小 - 预检命中数
	entered := len(fc.uploadCalls)
	assert.Equal(t, b.Len()-1, entered)
	assert.Equal(t, entered, tally.Completed+tally.Failed+(tally.Duplicate-1))
}

func TestCancellationStopsIssuingRequests(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")
	addFile(t, b, "c.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	fc := &fakeClient{}
	fc.uploadFn = func(c *Candidate) (*UploadedItem, error) {
		// 第一个上传完成后触发取消
		cancel()
		return &UploadedItem{FileName: c.Name}, nil
	}

	tally, err := NewPipeline(fc, Options{}).Run(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg"}, fc.uploadCalls)
	assert.Equal(t, Tally{Completed: 1, Canceled: 2}, tally)
	assert.Equal(t, StatusCanceled, b.Candidates()[1].Status())
	assert.Equal(t, StatusCanceled, b.Candidates()[2].Status())
}

func TestCompletionCallbackFiresOnce(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")

	var completions []Tally
	var changes []string
	p := NewPipeline(&fakeClient{}, Options{
		OnChange: func(c *Candidate) {
			changes = append(changes, fmt.Sprintf("%s:%s", c.Name, c.Status()))
		},
		OnComplete: func(t Tally) {
			completions = append(completions, t)
		},
	})

	tally, err := p.Run(context.Background(), b)
	require.NoError(t, err)

	require.Len(t, completions, 1)
	assert.Equal(t, tally, completions[0])
	// 每次状态迁移都先于完成回调被观察到
	assert.Equal(t, "a.jpg:success", changes[len(changes)-1])
	assert.True(t, strings.HasPrefix(changes[0], "a.jpg:hashing"))
}

func TestBatchFrozenAfterStart(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")

	_, err := NewPipeline(&fakeClient{}, Options{}).Run(context.Background(), b)
	require.NoError(t, err)

	_, err = b.Add("late.jpg", 10, "image/jpeg", bytesOpener([]byte("x")))
	require.ErrorIs(t, err, ErrBatchStarted)
	assert.False(t, b.Remove("a.jpg"))
}

func TestRemoveBeforeStart(t *testing.T) {
	b := NewLiteBatch()
	addFile(t, b, "a.jpg")
	addFile(t, b, "b.jpg")

	require.True(t, b.Remove("a.jpg"))
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, "b.jpg", b.Candidates()[0].Name)
}

// fail 也必须走迁移表，error 终态只能从 uploading 进入
func TestFailHonorsTransitionTable(t *testing.T) {
	c := &Candidate{Name: "a.jpg"}
	require.NoError(t, c.transition(StatusHashing))
	require.NoError(t, c.transition(StatusChecking))

	require.Error(t, c.fail(errors.New("disk gone")))
	assert.Equal(t, StatusChecking, c.Status())
	assert.Nil(t, c.Err())

	require.NoError(t, c.transition(StatusUploading))
	require.NoError(t, c.fail(errors.New("disk gone")))
	assert.Equal(t, StatusError, c.Status())
	assert.EqualError(t, c.Err(), "disk gone")

	// 终态不可再迁移
	require.Error(t, c.fail(errors.New("again")))
	assert.EqualError(t, c.Err(), "disk gone")
}
