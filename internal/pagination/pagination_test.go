package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/testutil"
	"gorm.io/gorm"
)

func intSeq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginateProperties(t *testing.T) {
	ctx := context.Background()

	for total := 0; total <= 12; total++ {
		for size := 1; size <= 5; size++ {
			src := NewSliceSource(intSeq(total))
			wantPages := (total + size - 1) / size

			for index := 1; index <= wantPages+2; index++ {
				page, err := Paginate[int](ctx, src, index, size)
				if err != nil {
					t.Fatalf("total=%d size=%d index=%d: unexpected error: %v", total, size, index, err)
				}

				if page.TotalPages != wantPages {
					t.Errorf("total=%d size=%d: TotalPages = %d, want %d", total, size, page.TotalPages, wantPages)
				}
				if page.TotalCount != int64(total) {
					t.Errorf("total=%d: TotalCount = %d", total, page.TotalCount)
				}
				if page.HasPreviousPage != (index > 1) {
					t.Errorf("index=%d: HasPreviousPage = %v", index, page.HasPreviousPage)
				}
				if page.HasNextPage != (index < wantPages) {
					t.Errorf("index=%d pages=%d: HasNextPage = %v", index, wantPages, page.HasNextPage)
				}
				if page.Items == nil {
					t.Fatalf("Items must never be nil")
				}

				wantLen := 0
				if index <= wantPages {
					wantLen = min(size, total-(index-1)*size)
				}
				if len(page.Items) != wantLen {
					t.Errorf("total=%d size=%d index=%d: got %d items, want %d", total, size, index, len(page.Items), wantLen)
				}
				if wantLen > 0 && page.Items[0] != (index-1)*size {
					t.Errorf("first item = %d, want %d", page.Items[0], (index-1)*size)
				}
			}
		}
	}
}

func TestPaginateSevenStudents(t *testing.T) {
	names := []string{"Alexander", "Alonso", "Anand", "Barzdukas", "Li", "Justice", "Norman"}
	src := NewSliceSource(names)
	ctx := context.Background()

	first, err := Paginate[string](ctx, src, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Items) != 3 || first.TotalPages != 3 || !first.HasNextPage || first.HasPreviousPage {
		t.Errorf("unexpected first page: %+v", first)
	}

	last, err := Paginate[string](ctx, src, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Items) != 1 || last.Items[0] != "Norman" || last.HasNextPage || !last.HasPreviousPage {
		t.Errorf("unexpected last page: %+v", last)
	}
}

func TestPaginateEdgeCases(t *testing.T) {
	ctx := context.Background()
	src := NewSliceSource(intSeq(5))

	tests := []struct {
		name      string
		pageIndex int
		pageSize  int
		wantErr   error
		wantIndex int
	}{
		{name: "zero page size", pageIndex: 1, pageSize: 0, wantErr: ErrInvalidPageSize},
		{name: "negative page size", pageIndex: 1, pageSize: -3, wantErr: ErrInvalidPageSize},
		{name: "zero index clamps to first page", pageIndex: 0, pageSize: 2, wantIndex: 1},
		{name: "negative index clamps to first page", pageIndex: -4, pageSize: 2, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate[int](ctx, src, tt.pageIndex, tt.pageSize)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.PageIndex != tt.wantIndex {
				t.Errorf("PageIndex = %d, want %d", page.PageIndex, tt.wantIndex)
			}
			if page.HasPreviousPage {
				t.Error("clamped first page must not have a previous page")
			}
		})
	}
}

func TestPaginateEmptySource(t *testing.T) {
	page, err := Paginate[int](context.Background(), NewSliceSource[int](nil), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 0 || page.HasNextPage || len(page.Items) != 0 || page.Items == nil {
		t.Errorf("unexpected empty page: %+v", page)
	}
}

type failingSource struct {
	countErr error
	fetchErr error
}

func (f failingSource) Count(context.Context) (int64, error) {
	return 10, f.countErr
}

func (f failingSource) Fetch(context.Context, int, int) ([]int, error) {
	return nil, f.fetchErr
}

func TestPaginatePropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")

	if _, err := Paginate[int](context.Background(), failingSource{countErr: boom}, 1, 3); !errors.Is(err, boom) {
		t.Errorf("expected count error to propagate, got %v", err)
	}
	if _, err := Paginate[int](context.Background(), failingSource{fetchErr: boom}, 1, 3); !errors.Is(err, boom) {
		t.Errorf("expected fetch error to propagate, got %v", err)
	}
}

func TestGormSource(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedStudents(t, db, "Norman", "Alexander", "Li", "Justice", "Anand", "Alonso", "Barzdukas")

	filtered := db.Model(&models.Student{}).Where("last_name <> ?", "Li")
	src := NewGormSource[models.Student](filtered, func(q *gorm.DB) *gorm.DB {
		return q.Order("last_name ASC")
	})

	ctx := context.Background()
	page, err := Paginate[models.Student](ctx, src, 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 6 || page.TotalPages != 2 {
		t.Fatalf("unexpected metadata: %+v", page)
	}
	if len(page.Items) != 2 || page.Items[0].LastName != "Justice" || page.Items[1].LastName != "Norman" {
		t.Errorf("unexpected second page items: %+v", page.Items)
	}

	again, err := Paginate[models.Student](ctx, src, 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range page.Items {
		if page.Items[i].ID != again.Items[i].ID {
			t.Errorf("re-evaluation changed order at %d", i)
		}
	}

	all, err := All[models.Student](ctx, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 6 || all[0].LastName != "Alexander" {
		t.Errorf("unexpected All result: %d items", len(all))
	}
}
