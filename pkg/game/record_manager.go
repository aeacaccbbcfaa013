package game

import (
	"fmt"
	"sort"

	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RunRecord 一局的结果
type RunRecord struct {
	Seed          int64    `yaml:"seed"`
	NightsReached int      `yaml:"nightsReached"`
	Stats         RunStats `yaml:"stats"`
	GameOver      bool     `yaml:"gameOver"`
	Duration      float64  `yaml:"duration"` // 模拟时间（秒）
}

// RecordBook 历史记录
type RecordBook struct {
	BestNight int         `yaml:"bestNight"`
	Runs      []RunRecord `yaml:"runs"`
}

// 存储路径常量
const (
	recordsObject   = "records"
	recordsProperty = "book"
	snapshotObject  = "snapshots"
	snapshotIndex   = "_index"

	// maxRuns 只保留最近的若干局
	maxRuns = 50
)

// RecordManager 负责局后记录与命名快照的持久化
type RecordManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	book         *RecordBook
	memSnapshots map[string]*Snapshot
	logger       *zap.Logger
}

// NewRecordManager 创建记录管理器并尝试加载已有记录
func NewRecordManager(gdataManager *gdata.Manager) *RecordManager {
	rm := &RecordManager{
		gdataManager: gdataManager,
		book:         &RecordBook{},
		memSnapshots: make(map[string]*Snapshot),
		logger:       logs.Named("RecordManager"),
	}
	if err := rm.Load(); err != nil {
		rm.logger.Warn("failed to load records, starting empty", zap.Error(err))
	}
	return rm
}

// Load 从 gdata 读取历史记录
func (rm *RecordManager) Load() error {
	rm.book = &RecordBook{}
	if rm.gdataManager == nil || !rm.gdataManager.ObjectPropExists(recordsObject, recordsProperty) {
		return nil
	}
	data, err := rm.gdataManager.LoadObjectProp(recordsObject, recordsProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	var book RecordBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	rm.book = &book
	return nil
}

// Book 返回当前记录
func (rm *RecordManager) Book() *RecordBook {
	return rm.book
}

// AddRun 追加一局记录并保存
func (rm *RecordManager) AddRun(run RunRecord) error {
	rm.book.Runs = append(rm.book.Runs, run)
	if len(rm.book.Runs) > maxRuns {
		rm.book.Runs = rm.book.Runs[len(rm.book.Runs)-maxRuns:]
	}
	if run.NightsReached > rm.book.BestNight {
		rm.book.BestNight = run.NightsReached
	}
	rm.logger.Info("run recorded",
		zap.Int64("seed", run.Seed),
		zap.Int("nights", run.NightsReached),
		zap.Int("kills", run.Stats.AliensKilled))
	return rm.save(recordsObject, recordsProperty, rm.book)
}

// SaveSnapshot 以名称保存世界快照
func (rm *RecordManager) SaveSnapshot(name string, snap *Snapshot) error {
	if name == "" || name == snapshotIndex {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	rm.memSnapshots[name] = snap
	if rm.gdataManager == nil {
		return nil
	}
	if err := rm.save(snapshotObject, name, snap); err != nil {
		return err
	}
	names := rm.SnapshotNames()
	return rm.save(snapshotObject, snapshotIndex, names)
}

// LoadSnapshot 读取命名快照
func (rm *RecordManager) LoadSnapshot(name string) (*Snapshot, error) {
	if snap, ok := rm.memSnapshots[name]; ok {
		return snap, nil
	}
	if rm.gdataManager == nil || !rm.gdataManager.ObjectPropExists(snapshotObject, name) {
		return nil, fmt.Errorf("snapshot %q not found", name)
	}
	data, err := rm.gdataManager.LoadObjectProp(snapshotObject, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %q: %w", name, err)
	}
	rm.memSnapshots[name] = &snap
	return &snap, nil
}

// SnapshotNames 列出已保存的快照名（排序）
func (rm *RecordManager) SnapshotNames() []string {
	set := make(map[string]struct{}, len(rm.memSnapshots))
	for name := range rm.memSnapshots {
		set[name] = struct{}{}
	}
	if rm.gdataManager != nil && rm.gdataManager.ObjectPropExists(snapshotObject, snapshotIndex) {
		if data, err := rm.gdataManager.LoadObjectProp(snapshotObject, snapshotIndex); err == nil {
			var stored []string
			if yaml.Unmarshal(data, &stored) == nil {
				for _, name := range stored {
					set[name] = struct{}{}
				}
			}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (rm *RecordManager) save(object, prop string, v any) error {
	if rm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", object, prop, err)
	}
	if err := rm.gdataManager.SaveObjectProp(object, prop, data); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", object, prop, err)
	}
	return nil
}
