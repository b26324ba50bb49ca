package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於機密檔
	FileModePrivate fs.FileMode = 0600
)

// Journal 以 JSON Lines 格式保存每筆已處理的交易
//
// 每次執行都會重新建立檔案，不提供跨次執行的恢復。
type Journal struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// Open 建立 (或清空) 一個稽核日誌檔案
// O_TRUNC 每次執行都從空檔案開始
// O_RDWR 讀寫模式，ReadAll 需要讀取
// O_CREATE 如果文件不存在則建立
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_RDWR, FileModeReadOnly)
	if err != nil {
		return nil, err
	}
	return &Journal{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Write 寫入一筆資料 (寫入緩衝區，需呼叫 Flush 才會進入檔案)
func (j *Journal) Write(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return json.NewEncoder(j.writer).Encode(v)
}

// Flush 將緩衝區寫入檔案並刷入硬碟
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked()
}

func (j *Journal) flushLocked() error {
	if err := j.writer.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close 刷入剩餘資料並關閉檔案
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.flushLocked(); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}

// ReadAll 讀取所有資料
// callback 接收每一行的原始 JSON，避免一次將所有資料載入記憶體
func (j *Journal) ReadAll(callback func(jsonRaw []byte) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.flushLocked(); err != nil {
		return err
	}
	// 確保從頭讀取
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	// 讀完後回到檔案尾端，之後的寫入才不會覆蓋
	defer j.file.Seek(0, io.SeekEnd)

	decoder := json.NewDecoder(j.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}
