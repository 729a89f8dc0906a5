// Package consts contains constants for the admin domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Args        string
	Description string
}

// Slash returns the command as typed in chat
func (c Command) Slash() string {
	return "/" + c.Name
}

// Bot commands
var (
	CommandStart               = Command{Name: "start", Description: "начать работу с ботом"}
	CommandHelp                = Command{Name: "help", Description: "показать справку"}
	CommandAddChannel          = Command{Name: "add_channel", Args: "<ссылка на канал>", Description: "добавить канал для отслеживания"}
	CommandRemoveChannel       = Command{Name: "remove_channel", Args: "<ссылка на канал>", Description: "удалить канал из отслеживания"}
	CommandListChannels        = Command{Name: "list_channels", Description: "список отслеживаемых каналов"}
	CommandAddKeyword          = Command{Name: "add_keyword", Args: "<ключевое слово>", Description: "добавить ключевое слово для поиска"}
	CommandRemoveKeyword       = Command{Name: "remove_keyword", Args: "<ключевое слово>", Description: "удалить ключевое слово"}
	CommandListKeywords        = Command{Name: "list_keywords", Description: "список ключевых слов"}
	CommandAddToBlacklist      = Command{Name: "add_to_blacklist", Args: "<@имя или id>", Description: "добавить пользователя в чёрный список"}
	CommandRemoveFromBlacklist = Command{Name: "remove_from_blacklist", Args: "<@имя или id>", Description: "удалить пользователя из чёрного списка"}
	CommandListBlacklist       = Command{Name: "list_blacklist", Description: "список заблокированных пользователей"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandAddChannel,
	CommandRemoveChannel,
	CommandListChannels,
	CommandAddKeyword,
	CommandRemoveKeyword,
	CommandListKeywords,
	CommandAddToBlacklist,
	CommandRemoveFromBlacklist,
	CommandListBlacklist,
}
