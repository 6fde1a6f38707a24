// internal/service/review/domain/review.go
package domain

import (
	"context"
	"math"
	"sort"

	"storefront/internal/pkg/apperr"
)

// DateLayout 是评论日期的格式
const DateLayout = "2006-01-02"

var (
	ErrNoReviews       = apperr.NotFound("No reviews for this product")
	ErrProductNotFound = apperr.NotFound("Product not found")
	ErrInvalidLimit    = apperr.InvalidRequest("limit must be at least 1")
	ErrInvalidSort     = apperr.InvalidRequest("sort must be one of recent, oldest, rating")
	ErrReviewRejected  = apperr.InvalidRequest("Review rejected")
)

// Review 是用户对商品的一条评论
type Review struct {
	ID     string
	User   string
	Text   string
	Rating int
	Date   string // YYYY-MM-DD，字典序即时间序
}

// ReviewPolicy 决定一条新评论能否被接受
type ReviewPolicy interface {
	Accept(review Review) (bool, error)
}

// ReviewRepository 定义了评论的存储接口
type ReviewRepository interface {
	// Exists 判断商品是否有评论列表
	Exists(ctx context.Context, productID string) (bool, error)
	// List 返回商品的全部评论（按写入顺序），没有时返回 ErrNoReviews
	List(ctx context.Context, productID string) ([]Review, error)
	// Append 追加一条评论，商品不存在时返回 ErrProductNotFound
	Append(ctx context.Context, productID string, review Review) error
}

// SortMode 是评论列表的排序方式
type SortMode string

const (
	SortRecent SortMode = "recent"
	SortOldest SortMode = "oldest"
	SortRating SortMode = "rating"
)

// ParseSortMode 解析排序参数，空字符串视为 recent
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortRecent:
		return SortRecent, nil
	case SortOldest:
		return SortOldest, nil
	case SortRating:
		return SortRating, nil
	default:
		return "", ErrInvalidSort
	}
}

// SortReviews 返回排序后的副本，相同键保持原有顺序
func SortReviews(reviews []Review, mode SortMode) []Review {
	sorted := make([]Review, len(reviews))
	copy(sorted, reviews)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch mode {
		case SortOldest:
			return a.Date < b.Date
		case SortRating:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.Date > b.Date
		default:
			return a.Date > b.Date
		}
	})
	return sorted
}

// AverageRating 计算平均分并保留一位小数，没有评论时为 0
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// SeedReviews 返回演示用的初始评论
func SeedReviews() map[string][]Review {
	return map[string][]Review{
		"prod-123": {
			{ID: "rev-1", User: "Alice", Text: "Good product!", Rating: 4, Date: "2025-01-15"},
			{ID: "rev-2", User: "Bob", Text: "Worth the price", Rating: 5, Date: "2025-01-10"},
			{ID: "rev-3", User: "Charlie", Text: "Decent, but battery life short", Rating: 3, Date: "2025-01-05"},
		},
		"prod-456": {
			{ID: "rev-4", User: "Dana", Text: "Love the features!", Rating: 5, Date: "2025-01-20"},
			{ID: "rev-5", User: "Eve", Text: "Screen is too small", Rating: 2, Date: "2025-01-18"},
		},
	}
}
