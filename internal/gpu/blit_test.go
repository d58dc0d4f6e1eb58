//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/sgl"
	"github.com/gogpu/sgl/region"
)

func TestBlitGating(t *testing.T) {
	var b Blitter // no device

	rgba := func() sgl.Plane {
		p, err := sgl.NewPlane(4, 4, sgl.FormatRGBA8888)
		if err != nil {
			t.Fatalf("new plane: %v", err)
		}
		return p
	}
	r565, err := sgl.NewPlane(4, 4, sgl.FormatRGB565)
	if err != nil {
		t.Fatalf("new plane: %v", err)
	}
	clip := region.Subtract(region.WH(4, 4), region.Rect{})

	// Mixed formats and non-32-bit formats stay on the software path.
	if err := b.Blit(rgba(), r565, &clip); !errors.Is(err, sgl.ErrBlitUnsupported) {
		t.Fatalf("mixed formats = %v, want ErrBlitUnsupported", err)
	}
	if err := b.Blit(r565, r565, &clip); !errors.Is(err, sgl.ErrBlitUnsupported) {
		t.Fatalf("16-bit format = %v, want ErrBlitUnsupported", err)
	}
	// Without an initialized device the engine refuses rather than fails.
	if err := b.Blit(rgba(), rgba(), &clip); !errors.Is(err, sgl.ErrBlitUnsupported) {
		t.Fatalf("uninitialized engine = %v, want ErrBlitUnsupported", err)
	}
}

func TestCopyRectShaderCompiles(t *testing.T) {
	words, err := compileToSPIRV(copyRectShaderSource)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	// SPIR-V modules start with the magic number 0x07230203.
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Fatalf("unexpected SPIR-V output (len %d)", len(words))
	}
}
