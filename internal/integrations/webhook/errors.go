package webhook

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента (например, не удалось собрать запрос)
	ErrInternal = errors.New("integrations.webhook: internal error")

	// ErrUnavailable возвращается, когда webhook не ответил вовсе (сеть, таймаут)
	ErrUnavailable = errors.New("integrations.webhook: webhook unavailable")

	// ErrUnexpectedStatus возвращается при ответе с не-2xx статусом
	ErrUnexpectedStatus = errors.New("integrations.webhook: unexpected status code")

	// ErrDecode возвращается, когда тело ответа не является JSON объектом
	ErrDecode = errors.New("integrations.webhook: response is not a JSON object")
)
