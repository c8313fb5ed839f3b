package frontend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hrygo/cadsense/internal/profile"
)

const indexMarkdown = `# CADSense

Turn a plain-language description into an AutoCAD drawing plan and a Design Automation work item.

## API

- ` + "`POST /api/v1/drawings/plan`" + ` with ` + "`{\"description\", \"units\", \"format\", \"send\"}`" + `
- ` + "`GET /api/v1/drawings/runs?limit=N`" + ` lists recent runs
- ` + "`GET /metrics`" + ` exposes Prometheus metrics

## Status

| Feature | Enabled |
|---|---|
| LLM planning | %s |
| Send to Autodesk | %s |
| Run history | %s |

Version %s (%s mode).
`

type FrontendService struct {
	Profile *profile.Profile

	index []byte
}

func NewFrontendService(profile *profile.Profile) (*FrontendService, error) {
	index, err := RenderIndex(profile)
	if err != nil {
		return nil, err
	}
	return &FrontendService{
		Profile: profile,
		index:   index,
	}, nil
}

// RenderIndex renders the landing page for profile to HTML.
func RenderIndex(profile *profile.Profile) ([]byte, error) {
	source := fmt.Sprintf(indexMarkdown,
		yesNo(profile.IsAIEnabled()),
		yesNo(profile.IsSendEnabled()),
		yesNo(profile.IsStoreEnabled()),
		profile.Version,
		profile.Mode,
	)

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(source), &body); err != nil {
		return nil, errors.Wrap(err, "failed to render index page")
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>CADSense</title></head><body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

func (s *FrontendService) Serve(_ context.Context, e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		c.Response().Header().Set("X-Content-Type-Options", "nosniff")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
		return c.HTMLBlob(http.StatusOK, s.index)
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
