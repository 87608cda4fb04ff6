package api

import (
	"context"
	"fmt"
	"net/url"

	"bizdash/internal/model"
)

// Reports exposes the read-only reporting endpoints.
type Reports struct {
	client *Client
}

// NewReports creates a reports endpoint group.
func NewReports(client *Client) *Reports {
	return &Reports{client: client}
}

func rangeQuery(start, end string) url.Values {
	q := url.Values{}
	if start != "" {
		q.Set("startDate", start)
	}
	if end != "" {
		q.Set("endDate", end)
	}
	return q
}

// HMRC fetches the R&D tax credit summary for the inclusive date range.
func (r *Reports) HMRC(ctx context.Context, start, end string) (model.HMRCReport, error) {
	var report model.HMRCReport
	if err := r.client.Get(ctx, "/reports/hmrc", rangeQuery(start, end), &report); err != nil {
		return model.HMRCReport{}, fmt.Errorf("fetch hmrc report: %w", err)
	}
	return report, nil
}

// DownloadHMRC fetches the pre-built report file in format ("csv" or "pdf").
func (r *Reports) DownloadHMRC(ctx context.Context, start, end, format string) (Blob, error) {
	q := rangeQuery(start, end)
	q.Set("format", format)
	blob, err := r.client.Download(ctx, "/reports/hmrc/export", q)
	if err != nil {
		return Blob{}, fmt.Errorf("download hmrc report: %w", err)
	}
	return blob, nil
}

// Overview fetches the financial overview.
func (r *Reports) Overview(ctx context.Context) (model.FinancialOverview, error) {
	var overview model.FinancialOverview
	if err := r.client.Get(ctx, "/financial/overview", nil, &overview); err != nil {
		return model.FinancialOverview{}, fmt.Errorf("fetch financial overview: %w", err)
	}
	return overview, nil
}
