package pkg

import (
	"errors"
	"net/http"
)

// 业务错误分级，handler 统一映射为 HTTP 状态码
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotMember    = errors.New("not a member of this group")
	ErrLastAdmin    = errors.New("group must keep at least one admin")
	ErrNoChange     = errors.New("no change")
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("invite link expired")
	ErrConflict     = errors.New("already exists")
	ErrInternal     = errors.New("internal error")
)

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNoChange):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotMember), errors.Is(err, ErrLastAdmin):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Public 500 一律返回笼统文案，细节只进日志
func Public(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
