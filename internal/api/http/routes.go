package httpapi

import (
	"bytes"
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/wind-station/internal/common"
	"github.com/i474232898/wind-station/internal/render"
	"github.com/i474232898/wind-station/internal/wind"
)

var validate = validator.New()

// requestTimeout bounds the provider call made on a cache miss.
const requestTimeout = 20 * time.Second

// WindService is the part of wind.Service the handlers use.
type WindService interface {
	Today() wind.Key
	Report(ctx context.Context, w wind.Window) (wind.Report, error)
	Distribution(ctx context.Context) (wind.DistributionRow, error)
	Refresh(ctx context.Context) (wind.Entry, error)
}

// Options are the presentation defaults.
type Options struct {
	RecentWindow int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WindService, renderer *render.Renderer, opts Options) {
	v1 := app.Group("/api/v1/wind")

	v1.Get("/today", func(c *fiber.Ctx) error {
		var q viewQuery
		if err := q.bind(c, opts); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		report, err := service.Report(ctx, q.window())
		return c.JSON(reportResponse{Report: report, FetchError: errString(err)})
	})

	v1.Get("/distribution", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		row, err := service.Distribution(ctx)
		key := service.Today()
		return c.JSON(fiber.Map{
			"stationId":    key.StationID,
			"date":         key.Date,
			"distribution": row,
			"fetchError":   errString(err),
		})
	})

	v1.Get("/chart", func(c *fiber.Ctx) error {
		var q chartQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w := wind.Full()
		if q.mode() == render.ModeMobile && q.Kind == string(render.KindTrend) {
			w = wind.RecentN(opts.RecentWindow)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		// A failed fetch still renders the "no data" chart.
		report, _ := service.Report(ctx, w)

		c.Set(fiber.HeaderCacheControl, "no-cache")
		etag := chartETag(report.FetchID, render.Kind(q.Kind), q.mode())
		if etag != "" {
			c.Set(fiber.HeaderETag, etag)
			if c.Get(fiber.HeaderIfNoneMatch) == etag {
				return c.SendStatus(fiber.StatusNotModified)
			}
		}

		dc, err := renderer.Draw(render.Kind(q.Kind), q.mode(), report.Tables)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode chart")
		}

		c.Type("png")
		return c.Send(buf.Bytes())
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		entry, err := service.Refresh(ctx)
		return c.JSON(fiber.Map{
			"fetchId":    entry.FetchID,
			"fetchedAt":  entry.FetchedAt,
			"samples":    len(entry.Series),
			"fetchError": errString(err),
		})
	})
}

type reportResponse struct {
	wind.Report
	FetchError string `json:"fetchError,omitempty"`
}

// chartETag identifies one rendering of one fetch. Failed fetches have no id and get no tag.
func chartETag(fetchID string, kind render.Kind, mode render.Mode) string {
	if fetchID == "" {
		return ""
	}
	return `"` + fetchID + "-" + string(kind) + "-" + mode.String() + `"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// isMobile reports whether the ua hint names a mobile client.
func isMobile(ua string) bool {
	return common.HasAny(ua, "mobile")
}

// viewQuery holds query parameters of the report endpoint.
type viewQuery struct {
	View string `validate:"omitempty,oneof=full recent"`
	N    int    `validate:"gte=0,lte=1000"`
	UA   string `validate:"max=256"`
}

func (q *viewQuery) bind(c *fiber.Ctx, opts Options) error {
	q.UA = c.Query("ua")
	q.View = c.Query("view")
	q.N = c.QueryInt("n", opts.RecentWindow)

	if q.View == "" {
		q.View = "full"
		if isMobile(q.UA) {
			q.View = "recent"
		}
	}
	return validate.Struct(q)
}

func (q viewQuery) window() wind.Window {
	if q.View == "recent" {
		return wind.RecentN(q.N)
	}
	return wind.Full()
}

// chartQuery holds query parameters of the chart endpoint.
type chartQuery struct {
	Kind string `validate:"required,oneof=rose trend"`
	UA   string `validate:"max=256"`
}

func (q *chartQuery) bind(c *fiber.Ctx) error {
	q.Kind = c.Query("kind", string(render.KindTrend))
	q.UA = c.Query("ua")
	return validate.Struct(q)
}

func (q chartQuery) mode() render.Mode {
	if isMobile(q.UA) {
		return render.ModeMobile
	}
	return render.ModeDesktop
}
