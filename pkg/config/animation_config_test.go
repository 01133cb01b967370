package config

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/affirm/pkg/embedded"
)

func TestParseAnimationConfig(t *testing.T) {
	t.Run("部分覆盖保留默认值", func(t *testing.T) {
		data := []byte(`
particle:
  capacity: 200
scene:
  choiceInterval: 4
`)
		config, err := ParseAnimationConfig(data)
		if err != nil {
			t.Fatalf("ParseAnimationConfig failed: %v", err)
		}

		if config.Particle.Capacity != 200 {
			t.Errorf("capacity: expected 200, got %d", config.Particle.Capacity)
		}
		if config.Scene.ChoiceInterval != 4 {
			t.Errorf("choiceInterval: expected 4, got %d", config.Scene.ChoiceInterval)
		}
		if config.Text.EntryStagger != 100 {
			t.Errorf("entryStagger: expected default 100, got %v", config.Text.EntryStagger)
		}
		if config.Particle.ThrottleRatio != 0.9 {
			t.Errorf("throttleRatio: expected default 0.9, got %v", config.Particle.ThrottleRatio)
		}
	})

	t.Run("非法配置返回错误", func(t *testing.T) {
		tests := []struct {
			name    string
			yaml    string
			wantErr string
		}{
			{"容量为零", "particle:\n  capacity: 0\n", "capacity"},
			{"宽度比例越界", "text:\n  maxWidthRatio: 1.5\n", "maxWidthRatio"},
			{"爆发区间为空", "text:\n  burstMin: 5\n  burstMax: 5\n", "burst"},
			{"二选一间隔为零", "scene:\n  choiceInterval: 0\n", "choiceInterval"},
			{"权重区间倒置", "boid:\n  cohesionWeights: [2, 1]\n", "cohesionWeights"},
			{"YAML 语法错误", "text: [", "parse"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseAnimationConfig([]byte(tt.yaml))
				if err == nil {
					t.Fatal("期望返回错误")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should mention %q", err, tt.wantErr)
				}
			})
		}
	})
}

func TestDefaultAnimationConfigIsValid(t *testing.T) {
	if err := validateAnimationConfig(DefaultAnimationConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestBreathingDuration(t *testing.T) {
	s := DefaultAnimationConfig().Scene
	// 3 × (4000 + 2000 + 4000)
	if got := s.BreathingDuration(); got != 30000 {
		t.Errorf("BreathingDuration: expected 30000, got %v", got)
	}
}

func TestLoadAnimationConfig(t *testing.T) {
	embedded.Init(fstest.MapFS{
		AnimationConfigPath: &fstest.MapFile{Data: []byte("scene:\n  displayDuration: 9000\n")},
	})
	defer embedded.Init(nil)

	config, err := LoadAnimationConfig(AnimationConfigPath)
	if err != nil {
		t.Fatalf("LoadAnimationConfig failed: %v", err)
	}
	if config.Scene.DisplayDuration != 9000 {
		t.Errorf("displayDuration: expected 9000, got %v", config.Scene.DisplayDuration)
	}

	if _, err := LoadAnimationConfig("data/config/nope.yaml"); err == nil {
		t.Error("期望缺失文件返回错误")
	}
}
