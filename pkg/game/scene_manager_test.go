package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// mockScene 记录调用情况的场景
type mockScene struct {
	updateCalls int
	deltaTime   float64
	closed      bool
	updateErr   error
}

func (m *mockScene) Update(deltaTime float64) error {
	m.updateCalls++
	m.deltaTime = deltaTime
	return m.updateErr
}

func (m *mockScene) Draw(screen *ebiten.Image) {}

func (m *mockScene) Close() error {
	m.closed = true
	return nil
}

func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Fatal("Expected no scene initially")
	}

	first := &mockScene{}
	second := &mockScene{}
	sm.SwitchTo(first)
	sm.SwitchTo(second)

	if sm.GetCurrentScene() != second {
		t.Error("SwitchTo did not set the current scene")
	}
	if !first.closed {
		t.Error("Previous scene should be closed on switch")
	}
	if second.closed {
		t.Error("Current scene should stay open")
	}
}

func TestSceneManagerUpdate(t *testing.T) {
	t.Run("转发 deltaTime", func(t *testing.T) {
		sm := NewSceneManager()
		scene := &mockScene{}
		sm.SwitchTo(scene)

		if err := sm.Update(1.0 / 60.0); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if scene.updateCalls != 1 || scene.deltaTime != 1.0/60.0 {
			t.Errorf("Unexpected update state: calls=%d dt=%f", scene.updateCalls, scene.deltaTime)
		}
	})

	t.Run("场景错误向上传递", func(t *testing.T) {
		sm := NewSceneManager()
		want := errors.New("boom")
		sm.SwitchTo(&mockScene{updateErr: want})
		if err := sm.Update(0.016); !errors.Is(err, want) {
			t.Errorf("Expected scene error, got %v", err)
		}
	})

	t.Run("无场景时不报错", func(t *testing.T) {
		sm := NewSceneManager()
		if err := sm.Update(0.016); err != nil {
			t.Errorf("Expected nil, got %v", err)
		}
	})
}

func TestSceneManagerReload(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Reload(); err == nil {
		t.Error("Reload without factory should fail")
	}

	original := &mockScene{}
	sm.SwitchTo(original)

	sm.SetSceneFactory(func() (Scene, error) {
		return nil, errors.New("bad content")
	})
	if err := sm.Reload(); err == nil {
		t.Error("Expected factory error")
	}
	if sm.GetCurrentScene() != original {
		t.Error("Failed reload must keep the current scene")
	}

	rebuilt := &mockScene{}
	sm.SetSceneFactory(func() (Scene, error) { return rebuilt, nil })
	if err := sm.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if sm.GetCurrentScene() != rebuilt || !original.closed {
		t.Error("Reload should switch to the rebuilt scene and close the old one")
	}
}
