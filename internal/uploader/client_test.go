package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

func TestClientCheckDuplicates(t *testing.T) {
	var gotBody struct {
		Filenames []string  `json:"filenames"`
		Hashes    []*string `json:"hashes"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/public/gallery/code123/check-duplicates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		writeEnvelope(w, http.StatusOK, 20000, "ok", CheckResult{
			Duplicates: []string{"a.jpg"},
			NewFiles:   []string{"b.jpg"},
		})
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "code123")
	h := "d41d8cd98f00b204e9800998ecf8427e"
	result, err := cl.CheckDuplicates(context.Background(), []string{"a.jpg", "b.jpg"}, []*string{&h, nil})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, gotBody.Filenames)
	require.Len(t, gotBody.Hashes, 2)
	assert.Equal(t, h, *gotBody.Hashes[0])
	assert.Nil(t, gotBody.Hashes[1])
	assert.Equal(t, []string{"a.jpg"}, result.Duplicates)
	assert.Equal(t, []string{"b.jpg"}, result.NewFiles)
}

func TestClientUploadSuccess(t *testing.T) {
	content := []byte("jpeg bytes here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public/gallery/code123/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "abc123", r.FormValue("content_hash"))
		assert.Equal(t, "小李", r.FormValue("guest_name"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		writeEnvelope(w, http.StatusOK, 20000, "ok", UploadedItem{
			ID: 7, UUID: "uuid-7", FileName: "photo.jpg", URL: "https://cdn/x", Kind: "photo", Size: uint64(len(content)),
		})
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "code123")
	cl.GuestName = "小李"

	c := &Candidate{
		Name:     "photo.jpg",
		Size:     int64(len(content)),
		MimeType: "image/jpeg",
		Digest:   "abc123",
		Open:     bytesOpener(content),
	}

	var lastPct int
	item, err := cl.Upload(context.Background(), c, func(pct int) { lastPct = pct })
	require.NoError(t, err)

	assert.Equal(t, uint64(7), item.ID)
	assert.Equal(t, "uuid-7", item.UUID)
	assert.Equal(t, 100, lastPct)
}

func TestClientUploadConflictMapsToErrDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, 40902, "相同的媒体文件已存在", nil)
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "code123")
	c := &Candidate{Name: "dup.jpg", Size: 3, MimeType: "image/jpeg", Open: bytesOpener([]byte("abc"))}

	_, err := cl.Upload(context.Background(), c, nil)
	require.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorContains(t, err, "相同的媒体文件已存在")
}

func TestClientUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, 50001, "数据库操作失败", nil)
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "code123")
	c := &Candidate{Name: "x.jpg", Size: 3, MimeType: "image/jpeg", Open: bytesOpener([]byte("abc"))}

	_, err := cl.Upload(context.Background(), c, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestHashContentIsStable(t *testing.T) {
	h1, err := hashContent(bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	h2, err := hashContent(bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	h3, err := hashContent(bytes.NewReader([]byte("hello!")))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	// MD5 十六进制编码固定 32 位
	assert.Len(t, h1, 32)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", h1)
}
