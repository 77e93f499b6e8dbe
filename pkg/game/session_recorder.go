package game

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gonewx/planetwave/pkg/types"
	"github.com/jakecoffman/cp"
	"github.com/quasilyte/gdata/v2"
)

// RecordCategory 分析记录的分类，每个分类对应一个 CSV 文件
type RecordCategory string

const (
	CategorySession RecordCategory = "session"
	CategoryWave    RecordCategory = "wave"
	CategoryCombat  RecordCategory = "combat"
)

// 每个分类的 CSV 表头，前三列固定为 event_name,ts,t
var recordHeaders = map[RecordCategory][]string{
	CategorySession: {"event_name", "ts", "t", "zone", "wave", "detail"},
	CategoryWave:    {"event_name", "ts", "t", "zone", "wave", "core_hp"},
	CategoryCombat:  {"event_name", "ts", "t", "zone", "enemy_type", "seq", "cause", "pos_x", "pos_y"},
}

// SessionRecorder 将遥测事件写成 CSV 行，并通过 gdata 持久化
//
// gdataManager 为 nil 时只保留在内存中（降级模式），Flush 不报错。
type SessionRecorder struct {
	gdataManager *gdata.Manager
	sessionID    string
	start        time.Time
	now          func() time.Time
	verbose      bool

	buffers map[RecordCategory]*bytes.Buffer
	writers map[RecordCategory]*csv.Writer
	rows    map[RecordCategory]int
}

// NewSessionRecorder 创建会话记录器
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil
//   - now: 时钟函数，nil 时使用 time.Now
func NewSessionRecorder(gdataManager *gdata.Manager, now func() time.Time) *SessionRecorder {
	if now == nil {
		now = time.Now
	}
	start := now()
	r := &SessionRecorder{
		gdataManager: gdataManager,
		sessionID:    start.UTC().Format("20060102T150405"),
		start:        start,
		now:          now,
		buffers:      make(map[RecordCategory]*bytes.Buffer),
		writers:      make(map[RecordCategory]*csv.Writer),
		rows:         make(map[RecordCategory]int),
	}
	for cat, header := range recordHeaders {
		buf := &bytes.Buffer{}
		w := csv.NewWriter(buf)
		_ = w.Write(header)
		r.buffers[cat] = buf
		r.writers[cat] = w
	}
	return r
}

// SetVerbose 同时把每条事件打印到日志
func (r *SessionRecorder) SetVerbose(verbose bool) {
	r.verbose = verbose
}

// SessionID 返回会话标识（启动时间）
func (r *SessionRecorder) SessionID() string {
	return r.sessionID
}

// RowCount 返回某分类已记录的数据行数（不含表头）
func (r *SessionRecorder) RowCount(cat RecordCategory) int {
	return r.rows[cat]
}

// CSV 返回某分类当前的 CSV 内容
func (r *SessionRecorder) CSV(cat RecordCategory) string {
	w, ok := r.writers[cat]
	if !ok {
		return ""
	}
	w.Flush()
	return r.buffers[cat].String()
}

func (r *SessionRecorder) write(cat RecordCategory, event string, fields ...string) {
	w, ok := r.writers[cat]
	if !ok {
		return
	}
	now := r.now()
	row := make([]string, 0, 3+len(fields))
	row = append(row,
		event,
		now.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(now.Sub(r.start).Seconds(), 'f', 3, 64),
	)
	row = append(row, fields...)
	if err := w.Write(row); err != nil {
		log.Printf("[SessionRecorder] Warning: failed to write %s row: %v", event, err)
		return
	}
	r.rows[cat]++

	if r.verbose {
		log.Printf("[SessionRecorder] %s %v", event, fields)
	}
}

func (r *SessionRecorder) WaveStart(zone types.ZoneID, wave int, coreHP int) {
	r.write(CategoryWave, "wave_start", string(zone), strconv.Itoa(wave), strconv.Itoa(coreHP))
}

func (r *SessionRecorder) WaveComplete(zone types.ZoneID, wave int, coreHP int) {
	r.write(CategoryWave, "wave_complete", string(zone), strconv.Itoa(wave), strconv.Itoa(coreHP))
	// 每波结束落盘一次，异常退出时最多丢失一波数据
	if err := r.Flush(); err != nil {
		log.Printf("[SessionRecorder] Warning: %v", err)
	}
}

func (r *SessionRecorder) WaveFail(zone types.ZoneID, wave int, coreHP int) {
	r.write(CategoryWave, "wave_fail", string(zone), strconv.Itoa(wave), strconv.Itoa(coreHP))
}

func (r *SessionRecorder) WaveResources(zone types.ZoneID, wave int, summary string) {
	r.write(CategorySession, "wave_resources", string(zone), strconv.Itoa(wave), summary)
}

func (r *SessionRecorder) EnemySpawn(zone types.ZoneID, kind types.EnemyKind, seq int, pos cp.Vector) {
	r.write(CategoryCombat, "enemy_spawn", string(zone), string(kind), strconv.Itoa(seq), "",
		strconv.FormatFloat(pos.X, 'f', 2, 64), strconv.FormatFloat(pos.Y, 'f', 2, 64))
}

func (r *SessionRecorder) EnemyKilled(zone types.ZoneID, kind types.EnemyKind, cause string) {
	r.write(CategoryCombat, "enemy_defeated", string(zone), string(kind), "", cause, "", "")
}

func (r *SessionRecorder) EnemyFirstAttack(zone types.ZoneID, kind types.EnemyKind, seq int) {
	r.write(CategoryCombat, "enemy_first_attack", string(zone), string(kind), strconv.Itoa(seq), "", "", "")
}

// Flush 将所有分类写入 gdata
// 对象名为 analytics_<sessionID>，属性名为 <category>.csv
func (r *SessionRecorder) Flush() error {
	for cat, w := range r.writers {
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("failed to encode %s records: %w", cat, err)
		}
	}

	if r.gdataManager == nil {
		return nil
	}

	object := "analytics_" + r.sessionID
	for cat, buf := range r.buffers {
		if err := r.gdataManager.SaveObjectProp(object, string(cat)+".csv", buf.Bytes()); err != nil {
			return fmt.Errorf("failed to save %s records: %w", cat, err)
		}
	}
	return nil
}

// Close 实现 Closer，退出前落盘
func (r *SessionRecorder) Close() error {
	return r.Flush()
}
