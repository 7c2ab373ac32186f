package telegram

import "errors"

var (
	// ErrFetchUnavailable возвращается, когда getUpdates не получил ответа (сеть, таймаут)
	ErrFetchUnavailable = errors.New("service.telegram: getUpdates unavailable")

	// ErrFetchRejected возвращается, когда Telegram ответил на getUpdates ошибкой (ok=false)
	ErrFetchRejected = errors.New("service.telegram: getUpdates rejected")

	// ErrFetchDecode возвращается, когда ответ getUpdates не удалось разобрать как JSON
	ErrFetchDecode = errors.New("service.telegram: failed to decode getUpdates response")

	// ErrSendMessage возвращается, когда сообщение не доставлено по временной причине
	// (нет ответа, 429, 5xx, неразборчивый ответ) и его нужно отправить повторно
	ErrSendMessage = errors.New("service.telegram: failed to send message")

	// ErrSendRejected возвращается, когда Telegram окончательно отказал в sendMessage (4xx кроме 429)
	// Повторная отправка того же сообщения не поможет
	ErrSendRejected = errors.New("service.telegram: message rejected by Telegram")

	// ErrInvalidChatID возвращается при некорректном chat_id
	ErrInvalidChatID = errors.New("service.telegram: invalid chat_id")

	// ErrConnect возвращается, когда Telegram отверг токен бота или запуск был отменён
	ErrConnect = errors.New("service.telegram: failed to connect to Bot API")

	// ErrDeleteWebhook возвращается при ошибке удаления webhook
	ErrDeleteWebhook = errors.New("service.telegram: failed to delete webhook")
)
