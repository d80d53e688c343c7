package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev/internal/scan"
	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

type detectParams struct{}

func (h *handler) detectHandler(ctx context.Context, req *sdkmcp.CallToolRequest, _ detectParams) (*sdkmcp.CallToolResult, any, error) {
	cli, err := h.ensureCLI()
	if err != nil {
		if errors.Is(err, sigrokcli.ErrNotFound) {
			return errorResult(notInstalledText)
		}
		return errorResult(fmt.Sprintf("resolving sigrok-cli: %v", err))
	}

	info, err := scan.Detect(ctx, cli)
	if err != nil {
		return errorResult(fmt.Sprintf("detecting sigrok-cli capabilities: %v", err))
	}

	return textResult(info.String())
}
