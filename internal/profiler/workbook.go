package profiler

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"datalens/domain/profile"
	"datalens/internal/ingest"
)

// ProfileWorkbook profiles every parsed sheet concurrently, bounded by the
// given concurrency. Per-sheet failures land in that sheet's Error field;
// only context cancellation aborts the whole run.
func (p *Profiler) ProfileWorkbook(ctx context.Context, sheets []ingest.Sheet, concurrency int64) ([]profile.SheetAnalysis, *profile.WorkbookSummary, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]profile.SheetAnalysis, len(sheets))

	var wg sync.WaitGroup
	for i := range sheets {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, nil, err
		}
		wg.Add(1)
		go func(idx int) {
			defer sem.Release(1)
			defer wg.Done()
			results[idx] = p.profileSheet(sheets[idx])
		}(i)
	}
	wg.Wait()

	return results, workbookSummary(sheets), nil
}

func (p *Profiler) profileSheet(sheet ingest.Sheet) profile.SheetAnalysis {
	if sheet.Err != nil {
		return profile.SheetAnalysis{Name: sheet.Name, Error: sheet.Err.Error()}
	}
	summary, err := p.ProfileDataset(sheet.Data)
	if err != nil {
		p.logger.Warn("sheet %s failed to profile: %v", sheet.Name, err)
		return profile.SheetAnalysis{Name: sheet.Name, Error: err.Error()}
	}
	return profile.SheetAnalysis{Name: sheet.Name, Analysis: summary}
}

func workbookSummary(sheets []ingest.Sheet) *profile.WorkbookSummary {
	summary := &profile.WorkbookSummary{
		TotalSheets: len(sheets),
		SheetNames:  make([]string, len(sheets)),
	}
	for i, sheet := range sheets {
		summary.SheetNames[i] = sheet.Name
		if sheet.Data == nil {
			continue
		}
		summary.TotalRows += sheet.Data.RowCount()
		if sheet.Data.ColumnCount() > summary.TotalColumns {
			summary.TotalColumns = sheet.Data.ColumnCount()
		}
	}
	return summary
}
