package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ReadFileFunc 内容读取函数，可由 embedded.ReadFile 或磁盘目录提供
type ReadFileFunc func(path string) ([]byte, error)

// DirReader 返回从磁盘目录读取内容的 ReadFileFunc
// path 中的 "data/" 前缀会被映射到 dir
func DirReader(dir string) ReadFileFunc {
	return func(path string) ([]byte, error) {
		rel, err := filepath.Rel("data", filepath.FromSlash(path))
		if err != nil {
			rel = path
		}
		return os.ReadFile(filepath.Join(dir, rel))
	}
}

// Content 一次模拟所需的全部内容配置
type Content struct {
	Catalog *ArchetypeCatalog
	Zones   *ZonesConfig
}

// LoadContent 读取并校验原型目录和区域配置
//
// 波次中引用目录里不存在的原型不会导致加载失败：运行期会跳过该单位并记录内容错误。
func LoadContent(read ReadFileFunc) (*Content, error) {
	archData, err := read(ArchetypesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archetype file %s: %w", ArchetypesPath, err)
	}
	catalog, err := ParseArchetypeCatalog(archData, ArchetypesPath)
	if err != nil {
		return nil, err
	}

	zoneData, err := read(ZonesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file %s: %w", ZonesPath, err)
	}
	zones, err := ParseZonesConfig(zoneData, ZonesPath)
	if err != nil {
		return nil, err
	}

	for _, z := range zones.Zones {
		for i, w := range z.Waves {
			for _, e := range w.Enemies {
				if _, ok := catalog.Get(e.Kind); !ok {
					log.Printf("[Config] Content error: zone %s wave %d references unknown archetype %q, it will be skipped at spawn time",
						z.ID, i, e.Kind)
				}
			}
		}
	}

	return &Content{Catalog: catalog, Zones: zones}, nil
}
