package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

// resetForTest 恢复未初始化状态
func resetForTest() {
	dataFS = nil
	initialized = false
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/archetypes.yaml": {Data: []byte("archetypes: {}\n")},
		"data/zones.yaml":      {Data: []byte("zones: []\n")},
	}
}

// TestNotInitialized 未初始化时所有读取都失败
func TestNotInitialized(t *testing.T) {
	resetForTest()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}
	if _, err := ReadFile("data/zones.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if _, err := Glob("data/*.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if Exists("data/zones.yaml") {
		t.Error("Expected Exists() to return false before Init()")
	}
}

// TestReadFile 按路径读取，接受 ./ 前缀
func TestReadFile(t *testing.T) {
	resetForTest()
	Init(testFS())
	defer resetForTest()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"标准路径", "data/zones.yaml", "zones: []\n", false},
		{"带 ./ 前缀", "./data/archetypes.yaml", "archetypes: {}\n", false},
		{"不存在的文件", "data/missing.yaml", "", true},
		{"未知前缀", "assets/zones.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if string(data) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, string(data))
			}
		})
	}
}

// TestExistsAndGlob 存在性检查与通配匹配
func TestExistsAndGlob(t *testing.T) {
	resetForTest()
	Init(testFS())
	defer resetForTest()

	if !Exists("data/zones.yaml") {
		t.Error("Expected data/zones.yaml to exist")
	}
	if Exists("data/nope.yaml") {
		t.Error("Expected data/nope.yaml to be missing")
	}

	matches, err := Glob("data/*.yaml")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches, got %v", matches)
	}
}
