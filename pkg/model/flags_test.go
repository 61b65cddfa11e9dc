package model

import "testing"

func TestFlagCounters_AddDefaultsPlatform(t *testing.T) {
	f := NewFlagCounters()

	f.Add(FlagGreen, "web")
	f.Add(FlagGreen, "web")
	f.Add(FlagRed, "ext")

	if f.Green != 2 || f.Red != 1 {
		t.Fatalf("Expected global {2,1}, got {%d,%d}", f.Green, f.Red)
	}
	if pf := f.Platforms["web"]; pf.Green != 2 || pf.Red != 0 {
		t.Errorf("Expected web {2,0}, got {%d,%d}", pf.Green, pf.Red)
	}
	if pf := f.Platforms["ext"]; pf.Green != 0 || pf.Red != 1 {
		t.Errorf("Expected ext {0,1}, got {%d,%d}", pf.Green, pf.Red)
	}
}

func TestFlagCounters_AddNilPlatforms(t *testing.T) {
	var f FlagCounters

	f.Add(FlagRed, "web")

	if f.Red != 1 {
		t.Fatalf("Expected red=1, got %d", f.Red)
	}
	if f.Platforms["web"].Red != 1 {
		t.Errorf("Expected web red=1, got %d", f.Platforms["web"].Red)
	}
}

// 全局计数始终等于各平台同色计数之和
func TestFlagCounters_GlobalMatchesPlatformSum(t *testing.T) {
	f := NewFlagCounters()
	platforms := []string{"web", "ext", "Web", "mobile"}
	for i := 0; i < 20; i++ {
		platform := platforms[i%len(platforms)]
		if i%3 == 0 {
			f.Add(FlagRed, platform)
		} else {
			f.Add(FlagGreen, platform)
		}
	}

	var green, red int
	for _, pf := range f.Platforms {
		green += pf.Green
		red += pf.Red
	}

	if green != f.Green || red != f.Red {
		t.Errorf("Platform sums {%d,%d} do not match globals {%d,%d}", green, red, f.Green, f.Red)
	}

	// 平台标签区分大小写，"web"与"Web"是不同的键
	if _, ok := f.Platforms["Web"]; !ok {
		t.Error("Expected 'Web' tracked separately from 'web'")
	}
}

func TestFlagCounters_SnapshotIsIndependent(t *testing.T) {
	f := NewFlagCounters()
	f.Add(FlagGreen, "web")

	snap := f.Snapshot()
	f.Add(FlagGreen, "web")
	f.Add(FlagRed, "ext")

	if snap.Green != 1 || snap.Red != 0 {
		t.Errorf("Snapshot mutated: {%d,%d}", snap.Green, snap.Red)
	}
	if _, ok := snap.Platforms["ext"]; ok {
		t.Error("Snapshot gained a platform added after the copy")
	}
}

func TestValidFlag(t *testing.T) {
	tests := []struct {
		flag     string
		expected bool
	}{
		{"green", true},
		{"red", true},
		{"blue", false},
		{"GREEN", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidFlag(tt.flag); got != tt.expected {
			t.Errorf("ValidFlag(%q) = %v, want %v", tt.flag, got, tt.expected)
		}
	}
}

func TestAnalysisType_Valid(t *testing.T) {
	for _, typ := range []AnalysisType{AnalysisText, AnalysisMedia, AnalysisComprehensive} {
		if !typ.Valid() {
			t.Errorf("Expected %q to be valid", typ)
		}
	}
	if AnalysisType("video").Valid() {
		t.Error("Expected 'video' to be invalid")
	}
}
