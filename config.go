package sgl

// Attrib identifies a configuration attribute. Values follow the EGL token
// numbering so attribute lists can be exchanged with EGL-style clients.
type Attrib int32

// Configuration attributes.
const (
	AttribBufferSize            Attrib = 0x3020
	AttribAlphaSize             Attrib = 0x3021
	AttribBlueSize              Attrib = 0x3022
	AttribGreenSize             Attrib = 0x3023
	AttribRedSize               Attrib = 0x3024
	AttribDepthSize             Attrib = 0x3025
	AttribStencilSize           Attrib = 0x3026
	AttribConfigCaveat          Attrib = 0x3027
	AttribConfigID              Attrib = 0x3028
	AttribLevel                 Attrib = 0x3029
	AttribMaxPbufferHeight      Attrib = 0x302A
	AttribMaxPbufferPixels      Attrib = 0x302B
	AttribMaxPbufferWidth       Attrib = 0x302C
	AttribNativeRenderable      Attrib = 0x302D
	AttribNativeVisualID        Attrib = 0x302E
	AttribNativeVisualType      Attrib = 0x302F
	AttribSamples               Attrib = 0x3031
	AttribSampleBuffers         Attrib = 0x3032
	AttribSurfaceType           Attrib = 0x3033
	AttribTransparentType       Attrib = 0x3034
	AttribTransparentBlueValue  Attrib = 0x3035
	AttribTransparentGreenValue Attrib = 0x3036
	AttribTransparentRedValue   Attrib = 0x3037
	AttribBindToTextureRGB      Attrib = 0x3039
	AttribBindToTextureRGBA     Attrib = 0x303A
	AttribMinSwapInterval       Attrib = 0x303B
	AttribMaxSwapInterval       Attrib = 0x303C
	AttribLuminanceSize         Attrib = 0x303D
	AttribAlphaMaskSize         Attrib = 0x303E
	AttribColorBufferType       Attrib = 0x303F
	AttribRenderableType        Attrib = 0x3040
	AttribConformant            Attrib = 0x3042
)

// DontCare matches any attribute value in ChooseConfig.
const DontCare int32 = -1

// Surface type bits for AttribSurfaceType.
const (
	SurfacePbufferBit int32 = 0x0001
	SurfacePixmapBit  int32 = 0x0002
	SurfaceWindowBit  int32 = 0x0004
)

// RenderableGLESBit is the sole renderable type supported.
const RenderableGLESBit int32 = 0x0001

// RGBBufferType is the value of AttribColorBufferType for all configs.
const RGBBufferType int32 = 0x308E

// Viewport limits shared by all configurations.
const (
	MaxViewportDims   int32 = 2048
	MaxViewportPixels int32 = MaxViewportDims * MaxViewportDims
)

// Config identifies one of the fixed framebuffer configurations.
type Config int32

// AttribValue is one attribute/value pair in a selection list.
type AttribValue struct {
	Attrib Attrib
	Value  int32
}

type attrPair struct {
	key   Attrib
	value int32
}

const allSurfaces = SurfaceWindowBit | SurfacePbufferBit | SurfacePixmapBit

// baseConfigAttributes holds the attributes shared by every configuration.
// Both this and the per-config tables below are sorted by key for binary
// search.
var baseConfigAttributes = []attrPair{
	{AttribConfigCaveat, 0},
	{AttribLevel, 0},
	{AttribMaxPbufferHeight, MaxViewportDims},
	{AttribMaxPbufferPixels, MaxViewportPixels},
	{AttribMaxPbufferWidth, MaxViewportDims},
	{AttribNativeRenderable, 0},
	{AttribNativeVisualID, 0},
	{AttribNativeVisualType, 0},
	{AttribSamples, 0},
	{AttribSampleBuffers, 0},
	{AttribTransparentType, 0},
	{AttribTransparentBlueValue, 0},
	{AttribTransparentGreenValue, 0},
	{AttribTransparentRedValue, 0},
	{AttribBindToTextureRGB, 0},
	{AttribBindToTextureRGBA, 0},
	{AttribMinSwapInterval, 1},
	{AttribMaxSwapInterval, 1},
	{AttribLuminanceSize, 0},
	{AttribAlphaMaskSize, 0},
	{AttribColorBufferType, RGBBufferType},
	{AttribRenderableType, RenderableGLESBit},
	{AttribConformant, 0},
}

// configSpec couples a per-config attribute table with the plane formats the
// config selects.
type configSpec struct {
	attrs       []attrPair
	colorFormat Format
	depthFormat Format
}

func colorAttrs(bufferSize, alpha, blue, green, red, depth, id, stencil int32) []attrPair {
	return []attrPair{
		{AttribBufferSize, bufferSize},
		{AttribAlphaSize, alpha},
		{AttribBlueSize, blue},
		{AttribGreenSize, green},
		{AttribRedSize, red},
		{AttribDepthSize, depth},
		{AttribStencilSize, stencil},
		{AttribConfigID, id},
		{AttribSurfaceType, allSurfaces},
	}
}

// The fixed configuration set: RGB565, RGBX8888, RGBA8888 and A8, each with
// and without a packed 24/8 depth/stencil plane.
var configs = []configSpec{
	{colorAttrs(16, 0, 5, 6, 5, 0, 0, 0), FormatRGB565, FormatNone},
	{colorAttrs(16, 0, 5, 6, 5, 24, 1, 8), FormatRGB565, FormatZS24},
	{colorAttrs(32, 0, 8, 8, 8, 0, 2, 0), FormatRGBX8888, FormatNone},
	{colorAttrs(32, 0, 8, 8, 8, 24, 3, 8), FormatRGBX8888, FormatZS24},
	{colorAttrs(32, 8, 8, 8, 8, 0, 4, 0), FormatRGBA8888, FormatNone},
	{colorAttrs(32, 8, 8, 8, 8, 24, 5, 8), FormatRGBA8888, FormatZS24},
	{colorAttrs(8, 8, 0, 0, 0, 0, 6, 0), FormatA8, FormatNone},
	{colorAttrs(8, 8, 0, 0, 0, 24, 7, 8), FormatA8, FormatZS24},
}

// matchKind selects how a requested value is compared against a config value.
type matchKind uint8

const (
	matchAtLeast matchKind = iota // config value >= requested, DontCare passes
	matchExact                    // config value == requested, DontCare passes
	matchMask                     // all requested bits present in config value
)

func (k matchKind) matches(req, conf int32) bool {
	switch k {
	case matchAtLeast:
		return req == DontCare || conf >= req
	case matchExact:
		return req == DontCare || conf == req
	default:
		return conf&req == req
	}
}

type matcher struct {
	key  Attrib
	kind matchKind
}

// configMatchers is sorted by key.
var configMatchers = []matcher{
	{AttribBufferSize, matchAtLeast},
	{AttribAlphaSize, matchAtLeast},
	{AttribBlueSize, matchAtLeast},
	{AttribGreenSize, matchAtLeast},
	{AttribRedSize, matchAtLeast},
	{AttribDepthSize, matchAtLeast},
	{AttribStencilSize, matchAtLeast},
	{AttribConfigCaveat, matchExact},
	{AttribConfigID, matchExact},
	{AttribLevel, matchExact},
	{AttribMaxPbufferHeight, matchExact},
	{AttribMaxPbufferPixels, matchExact},
	{AttribMaxPbufferWidth, matchExact},
	{AttribNativeRenderable, matchExact},
	{AttribNativeVisualID, matchExact},
	{AttribNativeVisualType, matchExact},
	{AttribSamples, matchExact},
	{AttribSampleBuffers, matchExact},
	{AttribSurfaceType, matchMask},
	{AttribTransparentType, matchExact},
	{AttribTransparentBlueValue, matchExact},
	{AttribTransparentGreenValue, matchExact},
	{AttribTransparentRedValue, matchExact},
	{AttribBindToTextureRGB, matchExact},
	{AttribBindToTextureRGBA, matchExact},
	{AttribMinSwapInterval, matchExact},
	{AttribMaxSwapInterval, matchExact},
	{AttribLuminanceSize, matchAtLeast},
	{AttribAlphaMaskSize, matchAtLeast},
	{AttribColorBufferType, matchExact},
	{AttribRenderableType, matchMask},
	{AttribConformant, matchMask},
}

func searchPairs(pairs []attrPair, key Attrib) int {
	lo, hi := 0, len(pairs)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case key > pairs[mid].key:
			lo = mid + 1
		case key < pairs[mid].key:
			hi = mid - 1
		default:
			return mid
		}
	}
	return -1
}

func searchMatchers(key Attrib) int {
	lo, hi := 0, len(configMatchers)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case key > configMatchers[mid].key:
			lo = mid + 1
		case key < configMatchers[mid].key:
			hi = mid - 1
		default:
			return mid
		}
	}
	return -1
}

// NumConfigs returns the number of framebuffer configurations.
func NumConfigs() int { return len(configs) }

// Configs returns all configuration handles.
func Configs() []Config {
	out := make([]Config, len(configs))
	for i := range out {
		out[i] = Config(i)
	}
	return out
}

// ConfigAttrib returns the value of one attribute of a configuration,
// consulting the per-config table first and the base table second.
func ConfigAttrib(cfg Config, attr Attrib) (int32, error) {
	if int(cfg) < 0 || int(cfg) >= len(configs) {
		return 0, ErrBadConfig
	}
	if i := searchPairs(configs[cfg].attrs, attr); i >= 0 {
		return configs[cfg].attrs[i].value, nil
	}
	if i := searchPairs(baseConfigAttributes, attr); i >= 0 {
		return baseConfigAttributes[i].value, nil
	}
	return 0, ErrBadAttribute
}

// attribMatches reports whether one requested attribute/value pair is
// satisfied by config i. Unknown attributes never match.
func attribMatches(i int, attr Attrib, val int32) bool {
	pairs := configs[i].attrs
	idx := searchPairs(pairs, attr)
	if idx < 0 {
		pairs = baseConfigAttributes
		idx = searchPairs(pairs, attr)
	}
	if idx < 0 {
		return false
	}
	m := searchMatchers(attr)
	if m < 0 {
		return false
	}
	return configMatchers[m].kind.matches(val, pairs[idx].value)
}

// ChooseConfig returns the configurations satisfying every requested
// attribute, in configuration order. An empty request matches everything.
func ChooseConfig(attribs []AttribValue) []Config {
	possible := uint32(1)<<len(configs) - 1
	for _, av := range attribs {
		if possible == 0 {
			break
		}
		for i := range configs {
			if possible&(1<<i) == 0 {
				continue
			}
			if !attribMatches(i, av.Attrib, av.Value) {
				possible &^= 1 << i
			}
		}
	}
	var out []Config
	for i := range configs {
		if possible&(1<<i) != 0 {
			out = append(out, Config(i))
		}
	}
	return out
}

// ConfigFormats returns the color and depth plane formats a configuration
// selects. The depth format is FormatNone for depthless configs.
func ConfigFormats(cfg Config) (color, depth Format, err error) {
	if int(cfg) < 0 || int(cfg) >= len(configs) {
		return FormatNone, FormatNone, ErrBadConfig
	}
	return configs[cfg].colorFormat, configs[cfg].depthFormat, nil
}
