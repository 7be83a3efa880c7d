package pagination

import "testing"

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int64
		want     Controls
	}{
		{
			name: "first page of many",
			page: 0, pageSize: 10, total: 35,
			want: Controls{Page: 0, PageSize: 10, Total: 35, TotalPages: 4, HasPrev: false, HasNext: true},
		},
		{
			name: "middle page",
			page: 2, pageSize: 10, total: 35,
			want: Controls{Page: 2, PageSize: 10, Total: 35, TotalPages: 4, HasPrev: true, HasNext: true},
		},
		{
			name: "last partial page",
			page: 3, pageSize: 10, total: 35,
			want: Controls{Page: 3, PageSize: 10, Total: 35, TotalPages: 4, HasPrev: true, HasNext: false},
		},
		{
			name: "exact boundary has no next",
			page: 1, pageSize: 10, total: 20,
			want: Controls{Page: 1, PageSize: 10, Total: 20, TotalPages: 2, HasPrev: true, HasNext: false},
		},
		{
			name: "empty result",
			page: 0, pageSize: 10, total: 0,
			want: Controls{Page: 0, PageSize: 10, Total: 0, TotalPages: 0, HasPrev: false, HasNext: false},
		},
		{
			name: "single short page",
			page: 0, pageSize: 10, total: 3,
			want: Controls{Page: 0, PageSize: 10, Total: 3, TotalPages: 1, HasPrev: false, HasNext: false},
		},
		{
			name: "negative page clamps",
			page: -1, pageSize: 10, total: 5,
			want: Controls{Page: 0, PageSize: 10, Total: 5, TotalPages: 1, HasPrev: false, HasNext: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.page, tt.pageSize, tt.total); got != tt.want {
				t.Fatalf("Build(%d, %d, %d) = %+v, want %+v", tt.page, tt.pageSize, tt.total, got, tt.want)
			}
		})
	}
}
