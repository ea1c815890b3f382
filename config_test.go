package postfx

import "testing"

func TestBloomUpdateMerge(t *testing.T) {
	cfg := DefaultConfig().Bloom

	merged, err := BloomUpdate{
		Enabled:  Bool(false),
		Strength: Float(1.25),
	}.merge(cfg)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if merged.Enabled {
		t.Error("Enabled not applied")
	}
	if merged.Strength != 1.25 {
		t.Errorf("Strength = %g, want 1.25", merged.Strength)
	}
	// Untouched fields keep their values.
	if merged.Threshold != cfg.Threshold || merged.Radius != cfg.Radius {
		t.Error("unset fields were modified")
	}
}

func TestUpdateMergeRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()

	if _, err := (BloomUpdate{Radius: Float(-1)}).merge(cfg.Bloom); err == nil {
		t.Error("negative bloom radius accepted")
	}
	if _, err := (BloomUpdate{BlendMode: Blend(BloomBlendMode(7))}).merge(cfg.Bloom); err == nil {
		t.Error("out-of-range blend mode accepted")
	}
	if _, err := (RadialFocusUpdate{BlurStrength: Float(-2)}).merge(cfg.Focus); err == nil {
		t.Error("negative blur strength accepted")
	}
	if _, err := (ChromaticAberrationUpdate{Strength: Float(-0.5)}).merge(cfg.Aberration); err == nil {
		t.Error("negative aberration strength accepted")
	}
}

func TestPartitionTable(t *testing.T) {
	// The declared table covers every configurable field with the
	// classification the update semantics implement.
	wantHot := []string{
		"bloom.enabled", "bloom.blendMode",
		"focus.enabled", "focus.centerX", "focus.centerY",
		"focus.radius", "focus.falloff",
		"aberration.enabled", "aberration.edgeIntensity", "aberration.falloff",
	}
	wantCold := []string{
		"bloom.threshold", "bloom.strength", "bloom.radius",
		"focus.blurStrength",
		"aberration.strength", "aberration.angle",
	}

	if len(Partition) != len(wantHot)+len(wantCold) {
		t.Fatalf("Partition has %d entries, want %d", len(Partition), len(wantHot)+len(wantCold))
	}
	for _, key := range wantHot {
		if cls, ok := Partition[key]; !ok || cls != ParamHot {
			t.Errorf("Partition[%q] = %v, want ParamHot", key, cls)
		}
	}
	for _, key := range wantCold {
		if cls, ok := Partition[key]; !ok || cls != ParamCold {
			t.Errorf("Partition[%q] = %v, want ParamCold", key, cls)
		}
	}
}

func TestBloomBlendModeString(t *testing.T) {
	tests := []struct {
		mode BloomBlendMode
		want string
	}{
		{BloomBlendAdd, "Add"},
		{BloomBlendScreen, "Screen"},
		{BloomBlendSoftLight, "SoftLight"},
		{BloomBlendMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
