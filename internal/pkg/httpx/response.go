// internal/pkg/httpx/response.go
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"storefront/internal/pkg/apperr"
	"storefront/internal/pkg/logger"
)

// ErrorBody 是所有服务统一的错误响应体，前端读取 detail 字段展示错误
type ErrorBody struct {
	Detail string `json:"detail"`
}

// WriteJSON 以给定状态码写出 JSON 响应
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail 以给定状态码写出 {"detail": msg}
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Detail: msg})
}

// StatusOf 根据错误类别返回对应的 HTTP 状态码
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError 把领域错误映射为状态码并写出。未归类的错误只返回通用消息，细节写日志。
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		WriteDetail(w, status, "internal server error")
		return
	}
	WriteDetail(w, status, err.Error())
}

// DecodeJSON 解析请求体，失败时返回 InvalidRequest 类错误
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidRequest("invalid request body")
	}
	return nil
}

// QueryInt 读取整数查询参数，缺省时返回 def，非整数返回 InvalidRequest 类错误
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidRequest(name + " must be an integer")
	}
	return v, nil
}
