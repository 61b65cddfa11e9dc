// pkg/model/flags.go
package model

// 标记颜色
const (
	FlagGreen = "green"
	FlagRed   = "red"
)

// ValidFlag 检查标记值是否合法
func ValidFlag(flag string) bool {
	return flag == FlagGreen || flag == FlagRed
}

// PlatformFlags 单个平台的标记计数
type PlatformFlags struct {
	Green int `json:"green"`
	Red   int `json:"red"`
}

// FlagCounters 社区标记计数，全局计数与按平台计数同步维护
// 平台标签精确匹配且区分大小写，不做归一化
type FlagCounters struct {
	Green     int                      `json:"green"`
	Red       int                      `json:"red"`
	Platforms map[string]PlatformFlags `json:"platforms"`
}

// NewFlagCounters 创建零值计数器
func NewFlagCounters() FlagCounters {
	return FlagCounters{Platforms: make(map[string]PlatformFlags)}
}

// Add 记录一次标记，全局计数与对应平台计数同时加一
// 平台首次出现时默认从 {0,0} 开始
func (f *FlagCounters) Add(flag, platform string) {
	if f.Platforms == nil {
		f.Platforms = make(map[string]PlatformFlags)
	}

	pf := f.Platforms[platform]
	switch flag {
	case FlagGreen:
		f.Green++
		pf.Green++
	case FlagRed:
		f.Red++
		pf.Red++
	}
	f.Platforms[platform] = pf
}

// Snapshot 返回计数器的独立副本
func (f *FlagCounters) Snapshot() *FlagCounters {
	snap := &FlagCounters{
		Green:     f.Green,
		Red:       f.Red,
		Platforms: make(map[string]PlatformFlags, len(f.Platforms)),
	}
	for platform, pf := range f.Platforms {
		snap.Platforms[platform] = pf
	}
	return snap
}
