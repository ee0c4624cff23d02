// 包 config：环境变量读取与候选人列映射配置
// 背景：沿用入口处 .env 注入环境变量的配置方式；候选人标识→CSV 列名的映射
// 需与前端展示配置保持一致，支持从 YAML 覆盖内置默认表。
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flame-0/2025-nea/internal/logger"
)

// Getenv：带默认值的环境变量读取
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Candidates：候选人标识 → 选票表列名集合；联盟标识聚合多列
type Candidates map[string][]string

// candidatesFile：YAML 文件结构，senate 与 partylist 两张映射表
type candidatesFile struct {
	Senate    Candidates `yaml:"senate"`
	Partylist Candidates `yaml:"partylist"`
}

// LoadCandidates：读取候选人映射
// 背景：path 为空或文件缺失时回退内置的 2025 年中期选举默认表；
// YAML 存在但解析失败视为配置错误返回，不做半套合并。
func LoadCandidates(path string) (senate, partylist Candidates, err error) {
	if path == "" {
		return DefaultSenate, DefaultPartylist, nil
	}
	b, rerr := os.ReadFile(path)
	if rerr != nil {
		logger.L().Warn("candidates_yaml_missing", "path", path)
		return DefaultSenate, DefaultPartylist, nil
	}
	var f candidatesFile
	if err = yaml.Unmarshal(b, &f); err != nil {
		return nil, nil, err
	}
	senate, partylist = f.Senate, f.Partylist
	if len(senate) == 0 {
		senate = DefaultSenate
	}
	if len(partylist) == 0 {
		partylist = DefaultPartylist
	}
	logger.L().Info("candidates_yaml_loaded", "path", path, "senate", len(senate), "partylist", len(partylist))
	return senate, partylist, nil
}
