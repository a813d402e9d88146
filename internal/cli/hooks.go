package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringmap/pkg/observability"
)

// logHooks emits pipeline and cache events through the CLI logger at debug
// level. Installed when verbose logging is enabled.
type logHooks struct {
	logger *log.Logger
}

var _ observability.PipelineHooks = logHooks{}
var _ observability.CacheHooks = logHooks{}

// installDebugHooks registers logging hooks for pipeline and cache events.
func (c *CLI) installDebugHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading map", "source", source)
}

func (h logHooks) OnLoadComplete(_ context.Context, source string, gatewayCount, endpointCount int, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("map loaded", "source", source, "gateways", gatewayCount, "endpoints", endpointCount)
}

func (h logHooks) OnLayoutStart(_ context.Context, vizType string, gatewayCount int) {
	h.logger.Debug("computing layout", "viz_type", vizType, "gateways", gatewayCount)
}

func (h logHooks) OnLayoutComplete(_ context.Context, vizType string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "viz_type", vizType, "error", err)
		return
	}
	h.logger.Debug("layout complete", "viz_type", vizType, "duration", duration)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", duration)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
