package app

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 同一文件两次变化事件的最小间隔
// 编辑器保存时常连续产生多个写事件
const DefaultDebounce = 200 * time.Millisecond

// ContentWatcher 监听内容目录中的 YAML 变化
//
// Events 只投递文件名；缓冲已满时丢弃事件，一次重建即可覆盖多次变化。
type ContentWatcher struct {
	watcher  *fsnotify.Watcher
	events   chan string
	closeCh  chan struct{}
	once     sync.Once
	debounce time.Duration
}

// NewContentWatcher 开始监听 dir
func NewContentWatcher(dir string, debounce time.Duration) (*ContentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ContentWatcher{
		watcher:  w,
		events:   make(chan string, 4),
		closeCh:  make(chan struct{}),
		debounce: debounce,
	}
	go cw.run()
	return cw, nil
}

// Events 返回变化事件通道，监听器关闭后通道关闭
func (w *ContentWatcher) Events() <-chan string {
	return w.events
}

// Close 停止监听，可重复调用
func (w *ContentWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run 由唯一的发送方负责关闭 events
func (w *ContentWatcher) run() {
	defer close(w.events)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isContentFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now

			select {
			case w.events <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ContentWatcher] Warning: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

func isContentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
