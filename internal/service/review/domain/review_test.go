package domain

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func ids(reviews []Review) string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.ID)
	}
	return strings.Join(out, ",")
}

func TestSortReviews(t *testing.T) {
	reviews := []Review{
		{ID: "a", Rating: 3, Date: "2025-01-05"},
		{ID: "b", Rating: 5, Date: "2025-01-10"},
		{ID: "c", Rating: 5, Date: "2025-01-15"},
		{ID: "d", Rating: 1, Date: "2025-01-10"},
	}

	tests := []struct {
		mode SortMode
		want string
	}{
		{SortRecent, "c,b,d,a"},
		{SortOldest, "a,b,d,c"},
		{SortRating, "c,b,a,d"},
	}
	for _, tt := range tests {
		if got := ids(SortReviews(reviews, tt.mode)); got != tt.want {
			t.Errorf("SortReviews(%s): expected %s, got %s", tt.mode, tt.want, got)
		}
	}

	if ids(reviews) != "a,b,c,d" {
		t.Errorf("Expected input slice to be left untouched, got %s", ids(reviews))
	}
}

func TestParseSortMode(t *testing.T) {
	for _, s := range []string{"", "recent", "oldest", "rating"} {
		if _, err := ParseSortMode(s); err != nil {
			t.Errorf("ParseSortMode(%q) failed: %v", s, err)
		}
	}
	if mode, _ := ParseSortMode(""); mode != SortRecent {
		t.Errorf("Expected empty sort to default to recent, got %s", mode)
	}
	if _, err := ParseSortMode("random"); !errors.Is(err, ErrInvalidSort) {
		t.Errorf("Expected ErrInvalidSort, got %v", err)
	}
}

func TestAverageRating(t *testing.T) {
	seed := SeedReviews()
	if got := AverageRating(seed["prod-123"]); got != 4.0 {
		t.Errorf("Expected 4.0 for prod-123, got %v", got)
	}
	if got := AverageRating(seed["prod-456"]); got != 3.5 {
		t.Errorf("Expected 3.5 for prod-456, got %v", got)
	}
	if got := AverageRating([]Review{{Rating: 4}, {Rating: 4}, {Rating: 5}}); got != 4.3 {
		t.Errorf("Expected 4.3, got %v", got)
	}
	if got := AverageRating(nil); got != 0 {
		t.Errorf("Expected 0 for no reviews, got %v", got)
	}
}
