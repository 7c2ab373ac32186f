package templates

import (
	"strconv"
	"strings"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
)

// FormatReply превращает ответ webhook в нумерованный список
// Каждое значение - отдельная строка вида "<номер>. <значение>\n", нумерация с 1
// Пустой ответ даёт пустую строку
func FormatReply(reply domain.WebhookReply) string {
	var sb strings.Builder
	for i, value := range reply.Values() {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	return sb.String()
}
