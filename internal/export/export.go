// 包 export 负责快照导出：将库中或内存中的分区与覆盖率写为 data.json。
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-folio/internal/model"
	"go-folio/internal/store"
)

// ToJSON 查询分区/覆盖率/统计并写入 JSON 文件（带缩进格式）。
func ToJSON(ctx context.Context, s *store.SQLite, path string) error {
	parts, err := s.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}
	cov, err := s.LatestCoverage(ctx)
	if err != nil {
		return fmt.Errorf("latest coverage: %w", err)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return write(path, model.Export{Stats: stats, Partitions: nonNil(parts), Coverage: cov})
}

// ToJSONData 直接将内存中的分区与覆盖率写成 data.json，统计由分区计算。
func ToJSONData(_ context.Context, parts []model.Partition, cov []model.LocaleCoverage, path string) error {
	st := model.Stats{UpdatedAt: time.Now()}
	for _, p := range parts {
		switch p.Type {
		case model.Posts:
			st.PostsTotal += len(p.Entries)
		case model.Projects:
			st.ProjectsTotal += len(p.Entries)
		}
	}
	return write(path, model.Export{Stats: st, Partitions: nonNil(parts), Coverage: cov})
}

func nonNil(parts []model.Partition) []model.Partition {
	if parts == nil {
		return []model.Partition{}
	}
	return parts
}

func write(path string, out model.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	return nil
}
