package discovery

import (
	"context"
	"strings"

	"modlauncher/internal/utility"
)

// Renderer is the graphics backend the game is launched with.
type Renderer int

const (
	RendererUnknown Renderer = iota
	RendererGL
	RendererCG
)

func (r Renderer) String() string {
	switch r {
	case RendererGL:
		return "Gl"
	case RendererCG:
		return "Cg"
	}
	return "Unknown"
}

// Toggle switches between GL and CG. Unknown becomes GL.
func (r Renderer) Toggle() Renderer {
	if r == RendererGL {
		return RendererCG
	}
	return RendererGL
}

// ParseRenderer maps the "Graphics.Renderer" setting: "Gl" is GL, an error
// envelope is unknown, anything else is CG.
func ParseRenderer(value string) Renderer {
	value = strings.TrimSpace(value)
	switch {
	case utility.IsErrorEnvelope(value):
		return RendererUnknown
	case value == "Gl":
		return RendererGL
	}
	return RendererCG
}

// Renderer reads the persisted renderer choice.
func (s *Session) Renderer(ctx context.Context) Renderer {
	out := <-s.utility.Setting(ctx, SettingRenderer)
	if !out.Usable() {
		s.logger.Debug("renderer setting unavailable", "err", out.Err)
		return RendererUnknown
	}
	return ParseRenderer(out.Text())
}
