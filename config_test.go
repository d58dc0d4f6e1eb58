package sgl

import (
	"errors"
	"testing"
)

func TestConfigTablesSorted(t *testing.T) {
	checkSorted := func(name string, pairs []attrPair) {
		for i := 1; i < len(pairs); i++ {
			if pairs[i-1].key >= pairs[i].key {
				t.Errorf("%s not sorted at %d: %#x >= %#x", name, i, pairs[i-1].key, pairs[i].key)
			}
		}
	}
	checkSorted("baseConfigAttributes", baseConfigAttributes)
	for i, c := range configs {
		checkSorted("config attrs", c.attrs)
		id, err := ConfigAttrib(Config(i), AttribConfigID)
		if err != nil || id != int32(i) {
			t.Errorf("config %d has ID %d (%v)", i, id, err)
		}
	}
	for i := 1; i < len(configMatchers); i++ {
		if configMatchers[i-1].key >= configMatchers[i].key {
			t.Errorf("configMatchers not sorted at %d", i)
		}
	}
}

func TestConfigAttrib(t *testing.T) {
	got, err := ConfigAttrib(4, AttribAlphaSize)
	if err != nil || got != 8 {
		t.Fatalf("alpha of config 4 = %d (%v), want 8", got, err)
	}
	// Shared attributes come from the base table.
	got, err = ConfigAttrib(0, AttribMaxPbufferWidth)
	if err != nil || got != MaxViewportDims {
		t.Fatalf("max pbuffer width = %d (%v), want %d", got, err, MaxViewportDims)
	}
	if _, err := ConfigAttrib(Config(len(configs)), AttribConfigID); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("out of range config = %v, want ErrBadConfig", err)
	}
	if _, err := ConfigAttrib(0, Attrib(0x9999)); !errors.Is(err, ErrBadAttribute) {
		t.Fatalf("unknown attribute = %v, want ErrBadAttribute", err)
	}
}

func TestChooseConfig(t *testing.T) {
	tests := []struct {
		name    string
		attribs []AttribValue
		want    []Config
	}{
		{
			name: "rgba8888",
			attribs: []AttribValue{
				{AttribRedSize, 8}, {AttribGreenSize, 8},
				{AttribBlueSize, 8}, {AttribAlphaSize, 8},
			},
			want: []Config{4, 5},
		},
		{
			name:    "rgb565 exact id",
			attribs: []AttribValue{{AttribConfigID, 1}},
			want:    []Config{1},
		},
		{
			name:    "with depth",
			attribs: []AttribValue{{AttribRedSize, 5}, {AttribDepthSize, 1}},
			want:    []Config{1, 3, 5},
		},
		{
			name:    "alpha only",
			attribs: []AttribValue{{AttribAlphaSize, 8}, {AttribBufferSize, 8}},
			want:    []Config{4, 5, 6, 7},
		},
		{
			name:    "dont care red",
			attribs: []AttribValue{{AttribRedSize, DontCare}, {AttribConfigID, 6}},
			want:    []Config{6},
		},
		{
			name:    "window surface mask",
			attribs: []AttribValue{{AttribSurfaceType, SurfaceWindowBit | SurfacePbufferBit}},
			want:    []Config{0, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:    "unsatisfiable",
			attribs: []AttribValue{{AttribRedSize, 10}},
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseConfig(tt.attribs)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestChooseConfigEmptyRequest(t *testing.T) {
	if got := ChooseConfig(nil); len(got) != NumConfigs() {
		t.Fatalf("empty request matched %d configs, want %d", len(got), NumConfigs())
	}
}

func TestConfigFormats(t *testing.T) {
	color, depth, err := ConfigFormats(5)
	if err != nil {
		t.Fatalf("config formats: %v", err)
	}
	if color != FormatRGBA8888 || depth != FormatZS24 {
		t.Fatalf("config 5 formats = %v/%v", color, depth)
	}
	color, depth, err = ConfigFormats(0)
	if err != nil || color != FormatRGB565 || depth != FormatNone {
		t.Fatalf("config 0 formats = %v/%v (%v)", color, depth, err)
	}
	if _, _, err := ConfigFormats(-1); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("bad config = %v, want ErrBadConfig", err)
	}
}
