// internal/service/review/application/dto.go
package application

import "storefront/internal/service/review/domain"

// ReviewDTO 是单条评论的响应格式
type ReviewDTO struct {
	ID     string `json:"id"`
	User   string `json:"user"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Date   string `json:"date"`
}

// ReviewsResponse 是评论列表的响应体
type ReviewsResponse struct {
	AverageRating float64     `json:"averageRating"`
	Reviews       []ReviewDTO `json:"reviews"`
}

// AddReviewRequest 是新增评论的请求体；id 和 date 由服务端生成
type AddReviewRequest struct {
	User   string `json:"user"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// AddReviewResponse 是新增评论的响应体
type AddReviewResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

func toReviewDTO(r domain.Review) ReviewDTO {
	return ReviewDTO{ID: r.ID, User: r.User, Text: r.Text, Rating: r.Rating, Date: r.Date}
}
