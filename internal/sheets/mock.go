package sheets

import (
	"context"
	"sync"
)

// MockExporter records exports instead of calling the Sheets API.
type MockExporter struct {
	ExportFunc      func(ctx context.Context, report Report) (string, error)
	LastReport      *Report
	ExportCalls     []ExportCall
	ExportCallCount int
	mu              sync.Mutex
}

// ExportCall represents a single call to Export.
type ExportCall struct {
	Error  error
	Report Report
}

// NewMockExporter creates a new mock exporter.
func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

// Export implements Exporter.
func (m *MockExporter) Export(ctx context.Context, report Report) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExportCallCount++
	m.LastReport = &report

	id, err := "mock-spreadsheet", error(nil)
	if m.ExportFunc != nil {
		id, err = m.ExportFunc(ctx, report)
	}

	m.ExportCalls = append(m.ExportCalls, ExportCall{Report: report, Error: err})
	return id, err
}

// SetExportError makes every following Export fail with err.
func (m *MockExporter) SetExportError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExportFunc = func(context.Context, Report) (string, error) {
		return "", err
	}
}

// Calls returns a copy of all export calls.
func (m *MockExporter) Calls() []ExportCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]ExportCall, len(m.ExportCalls))
	copy(calls, m.ExportCalls)
	return calls
}
