package davinci

import (
	"bytes"
	"context"
	"dsbplan-backend/internal/components/assert"
	"dsbplan-backend/internal/components/telemetry"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/pkg/restyutil"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dsbplan.internal.davinci")

const (
	report_client_fetch_index = "client.fetch-index"
	report_client_fetch_day   = "client.fetch-day"
	report_client_parse_index = "client.parse-index"
	report_client_rows        = "client.rows"
)

// Client fetches the plan from a DaVinci Touch export, baseUrl is the page holding the
// day index.
type Client struct {
	http    *resty.Client
	baseUrl *url.URL
	tel     telemetry.API
}

func NewClient(baseUrl string, tel telemetry.API) (Client, error) {
	assert.NotEmptyStr(baseUrl)
	assert.NotNil(tel)

	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse provider url: %w", err)
	}

	tel = telemetry.NewScopedAPI("davinci", tel)

	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetHeader("User-Agent", "dsbplan")
	telemetry.InstrumentResty(client, tel)

	return Client{
		http:    client,
		baseUrl: parsed,
		tel:     tel,
	}, nil
}

// DumpTo writes every request/response pair of the client to output.
func (c Client) DumpTo(output restyutil.Output) Client {
	restyutil.DumpExchanges(c.http, output)
	return c
}

func (c Client) fetchDocument(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: %s", link, res.Status())
	}
	// the pages are utf-8 even when the headers claim otherwise
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// FetchDays fetches the day index.
func (c Client) FetchDays(ctx context.Context) ([]DayLink, error) {
	ctx, span := tracer.Start(ctx, "FetchDays")
	defer span.End()

	doc, err := c.fetchDocument(ctx, c.baseUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch day index")
		c.tel.ReportBroken(report_client_fetch_index, err, c.baseUrl.String())
		return nil, err
	}

	links, skipped := ParseDayIndex(doc, c.baseUrl)
	for _, text := range skipped {
		c.tel.ReportWarning(report_client_parse_index, "unexpected day link", text)
	}
	span.SetAttributes(attribute.Int("days", len(links)))
	return links, nil
}

// FetchRows fetches every day page and returns the rows of all days in day index order.
//
// Days are fetched concurrently. A day that fails is left out, the rows of the other
// days are still returned along with the joined errors.
func (c Client) FetchRows(ctx context.Context) ([]plan.SourceRow, error) {
	ctx, span := tracer.Start(ctx, "FetchRows")
	defer span.End()

	links, err := c.FetchDays(ctx)
	if err != nil {
		return nil, err
	}

	perDay := make([][]plan.SourceRow, len(links))
	errList := make([]error, len(links))
	wg := sync.WaitGroup{}
	for i, link := range links {
		wg.Add(1)
		go func() {
			defer wg.Done()

			doc, err := c.fetchDocument(ctx, link.Url.String())
			if err != nil {
				c.tel.ReportBroken(report_client_fetch_day, err, link.Key, link.Url.String())
				errList[i] = fmt.Errorf("day %s: %w", link.Key, err)
				return
			}
			perDay[i] = ParseDayTable(link.Key, doc)
		}()
	}
	wg.Wait()

	var rows []plan.SourceRow
	for _, dayRows := range perDay {
		rows = append(rows, dayRows...)
	}
	c.tel.ReportCount(report_client_rows, int64(len(rows)))
	span.SetAttributes(attribute.Int("rows", len(rows)))

	err = errors.Join(errList...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch days")
	}
	return rows, err
}
