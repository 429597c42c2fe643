package aggregate

import (
	"sort"
	"sync"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

type partitionKey struct {
	ct  model.ContentType
	loc locale.Locale
}

// SimpleBuffer 在极简模式下收集快照数据，避免落库。
type SimpleBuffer struct {
	mu         sync.Mutex
	partitions map[partitionKey][]model.Entry
	coverage   []model.LocaleCoverage
}

func NewSimpleBuffer() *SimpleBuffer {
	return &SimpleBuffer{partitions: make(map[partitionKey][]model.Entry)}
}

// SetPartition 整体替换分区；空列表表示删除该分区。
func (b *SimpleBuffer) SetPartition(ct model.ContentType, loc locale.Locale, entries []model.Entry) {
	k := partitionKey{ct: ct, loc: loc}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(entries) == 0 {
		delete(b.partitions, k)
		return
	}
	b.partitions[k] = append([]model.Entry(nil), entries...)
}

func (b *SimpleBuffer) SetCoverage(rows []model.LocaleCoverage) {
	b.mu.Lock()
	b.coverage = append([]model.LocaleCoverage(nil), rows...)
	b.mu.Unlock()
}

// Snapshot 返回副本：
// - 分区按类型、语言枚举顺序
// - 条目保持目录给出的顺序（发布时间倒序）
func (b *SimpleBuffer) Snapshot() ([]model.Partition, []model.LocaleCoverage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	order := map[locale.Locale]int{}
	for i, loc := range locale.All() {
		order[loc] = i
	}
	parts := make([]model.Partition, 0, len(b.partitions))
	for k, v := range b.partitions {
		parts = append(parts, model.Partition{Type: k.ct, Locale: k.loc, Entries: append([]model.Entry(nil), v...)})
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Type != parts[j].Type {
			return parts[i].Type < parts[j].Type
		}
		return order[parts[i].Locale] < order[parts[j].Locale]
	})
	return parts, append([]model.LocaleCoverage(nil), b.coverage...)
}
