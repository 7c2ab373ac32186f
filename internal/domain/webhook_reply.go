package domain

// ReplyField одна пара ключ-значение из JSON-ответа webhook
type ReplyField struct {
	Key   string
	Value string // Строки хранятся как есть, остальные типы - как исходный JSON текст
}

// WebhookReply ответ webhook в виде упорядоченного списка полей
// Порядок полей совпадает с порядком ключей в исходном JSON объекте
type WebhookReply []ReplyField

// IsEmpty проверяет, есть ли в ответе хотя бы одно поле
func (r WebhookReply) IsEmpty() bool {
	return len(r) == 0
}

// Values возвращает значения полей в исходном порядке
func (r WebhookReply) Values() []string {
	values := make([]string, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}
