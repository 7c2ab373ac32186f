package domain

// Update представляет одно обновление, полученное от Telegram через getUpdates
// Живёт только в пределах одной итерации цикла опроса
type Update struct {
	ID     int    // update_id, монотонно растёт, но не обязательно без пропусков
	ChatID int64  // ID чата, из которого пришло сообщение (0 если сообщения нет)
	Text   string // Текст сообщения (пусто для не-текстовых обновлений)
}

// IsRelayable проверяет, можно ли переслать обновление в webhook
// Обновления без сообщения, чата или текста пропускаются
func (u Update) IsRelayable() bool {
	return u.ChatID != 0 && u.Text != ""
}
