package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

type envelope map[string]any

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", slog.Any("err", err))
	}
}

// OK: «успешный» ответ с обёрткой.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, envelope{"data": data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, envelope{"data": data})
}

// Error: унифицированная ошибка (message + meta).
func Error(ctx context.Context, w http.ResponseWriter, status int, msg string, meta map[string]any) {
	payload := envelope{
		"error": envelope{
			"message": msg,
		},
	}
	if len(meta) > 0 {
		payload["error"].(envelope)["meta"] = meta
	}
	JSON(w, status, payload)
}

// Fail маппит ошибку из errs в статус; причины persistence-ошибок наружу не уходят.
func Fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := errs.ToHTTP(err)
	if status >= http.StatusInternalServerError || errors.Is(err, errs.ErrPersistence) {
		logger.FromContext(ctx).Error("request failed", slog.Any("err", err))
	}
	Error(ctx, w, status, errs.PublicMessage(err), nil)
}
