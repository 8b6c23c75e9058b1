package mixstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	uploadedAt := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	key := BuildKey("dj@example.com", "deep-house.mp3", uploadedAt)
	assert.Equal(t, "dj@example.com/1768480200000-deep-house.mp3", key)
}

func TestKeyFromURL(t *testing.T) {
	store := &MinioStore{publicURL: "https://s3.example.com/mixes"}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "url from this store",
			url:  "https://s3.example.com/mixes/dj@example.com/123-mix.mp3",
			want: "dj@example.com/123-mix.mp3",
		},
		{
			name: "foreign url",
			url:  "https://other.example.com/mixes/dj@example.com/123-mix.mp3",
			want: "",
		},
		{
			name: "empty url",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.KeyFromURL(tt.url))
		})
	}
}
