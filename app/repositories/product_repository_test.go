package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	cases := []struct {
		name      string
		page      int64
		wantSkip  int64
		wantLimit int64
	}{
		{name: "first page skips nothing", page: 1, wantSkip: 0, wantLimit: 10},
		{name: "third page skips two pages", page: 3, wantSkip: 20, wantLimit: 10},
		{name: "page far past the end still computes", page: 9, wantSkip: 80, wantLimit: 10},
		{name: "zero clamps to the first page", page: 0, wantSkip: 0, wantLimit: 10},
		{name: "negative clamps to the first page", page: -5, wantSkip: 0, wantLimit: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skip, limit := pageWindow(tc.page, 10)
			assert.Equal(t, tc.wantSkip, skip)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestNewestFirstSort(t *testing.T) {
	sort := newestFirst()
	assert.Len(t, sort, 1)
	assert.Equal(t, "createdAt", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)
}
