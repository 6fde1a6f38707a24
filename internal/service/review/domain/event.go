// internal/service/review/domain/event.go
package domain

// ReviewAddedEvent 在评论写入成功后发布
type ReviewAddedEvent struct {
	ReviewID  string `json:"reviewId"`
	ProductID string `json:"productId"`
	User      string `json:"user"`
	Rating    int    `json:"rating"`
	Date      string `json:"date"`
}
