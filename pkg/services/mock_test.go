package services

import (
	"context"

	"github.com/kerbaras/mangas-reader/pkg/data"
)

type mockBackend struct {
	listTitlesFunc  func(ctx context.Context, source string, page int) ([]data.TitleSummary, error)
	getTitleFunc    func(ctx context.Context, id, source string) (*data.Title, error)
	getChapterFunc  func(ctx context.Context, id string) (*data.Chapter, error)
	listHistoryFunc func(ctx context.Context) ([]data.HistoryEntry, error)
	getHistoryFunc  func(ctx context.Context, mangaID, source string) (*data.HistoryEntry, error)
	saveHistoryFunc func(ctx context.Context, update data.ProgressUpdate) error
	searchFunc      func(ctx context.Context, q string) ([]data.TitleSummary, error)
}

func (m *mockBackend) ListTitles(ctx context.Context, source string, page int) ([]data.TitleSummary, error) {
	if m.listTitlesFunc != nil {
		return m.listTitlesFunc(ctx, source, page)
	}
	return nil, nil
}

func (m *mockBackend) GetTitle(ctx context.Context, id, source string) (*data.Title, error) {
	if m.getTitleFunc != nil {
		return m.getTitleFunc(ctx, id, source)
	}
	return nil, nil
}

func (m *mockBackend) GetChapter(ctx context.Context, id string) (*data.Chapter, error) {
	if m.getChapterFunc != nil {
		return m.getChapterFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBackend) ListHistory(ctx context.Context) ([]data.HistoryEntry, error) {
	if m.listHistoryFunc != nil {
		return m.listHistoryFunc(ctx)
	}
	return nil, nil
}

func (m *mockBackend) GetHistory(ctx context.Context, mangaID, source string) (*data.HistoryEntry, error) {
	if m.getHistoryFunc != nil {
		return m.getHistoryFunc(ctx, mangaID, source)
	}
	return nil, nil
}

func (m *mockBackend) SaveHistory(ctx context.Context, update data.ProgressUpdate) error {
	if m.saveHistoryFunc != nil {
		return m.saveHistoryFunc(ctx, update)
	}
	return nil
}

func (m *mockBackend) Search(ctx context.Context, q string) ([]data.TitleSummary, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, q)
	}
	return nil, nil
}
